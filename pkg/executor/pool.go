package executor

import (
	"context"
	"sync"

	"github.com/cuemby/venice-admin-consumer/pkg/metrics"
	"github.com/cuemby/venice-admin-consumer/pkg/queue"
)

// Outcome reports what happened the last time a store's queue was
// drained, so the Coordinator can apply backoff (Retriable) or halt
// (Fatal).
type Outcome struct {
	Store string
	Err   error
}

// Pool is a fixed-size set of Workers. Schedule is non-blocking: it
// claims whichever idle slots and unleased non-empty queues it can pair
// up on this call, leaving anything left over for the next scheduling
// cycle (spec.md §4.7, "Dispatch").
type Pool struct {
	newWorker func() *Worker
	slots     chan struct{}

	mu      sync.Mutex
	pending int
	done    chan Outcome
}

// NewPool creates a pool of size workers, each built by newWorker. size
// must be ≥ 1 (spec.md §5, "Fixed worker pool size ≥ 1").
func NewPool(size int, newWorker func() *Worker) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		newWorker: newWorker,
		slots:     make(chan struct{}, size),
		done:      make(chan Outcome, size),
	}
}

// Outcomes returns the channel Schedule publishes completed drains to.
// The Coordinator's main loop selects on it alongside its checkpoint
// ticker.
func (p *Pool) Outcomes() <-chan Outcome {
	return p.done
}

// Pending reports how many workers are currently draining a queue. The
// Coordinator polls this during shutdown to let in-flight work finish
// before flushing a final checkpoint (spec.md §4.7, "Shutdown").
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Schedule claims an idle worker slot for every unleased, non-empty
// queue in queues it can, up to the pool's size, and starts draining
// each in its own goroutine. It never blocks waiting for a slot or a
// lease; queues it cannot claim this cycle are left for the next one.
func (p *Pool) Schedule(ctx context.Context, queues []*queue.StoreQueue, isLeader func() bool) {
	for _, q := range queues {
		if q.Empty() || q.Leased() {
			continue
		}
		select {
		case p.slots <- struct{}{}:
		default:
			return
		}
		if !q.TryAcquireLease() {
			<-p.slots
			continue
		}

		p.mu.Lock()
		p.pending++
		metrics.WorkerPoolActive.Set(float64(p.pending))
		p.mu.Unlock()

		go p.run(ctx, q, isLeader)
	}
}

func (p *Pool) run(ctx context.Context, q *queue.StoreQueue, isLeader func() bool) {
	defer func() {
		q.ReleaseLease()
		<-p.slots
		p.mu.Lock()
		p.pending--
		metrics.WorkerPoolActive.Set(float64(p.pending))
		p.mu.Unlock()
	}()

	w := p.newWorker()
	err := w.Drain(ctx, q, isLeader)
	p.done <- Outcome{Store: q.Store(), Err: err}
}
