package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cuemby/venice-admin-consumer/pkg/dispatch"
	"github.com/cuemby/venice-admin-consumer/pkg/executor"
	"github.com/cuemby/venice-admin-consumer/pkg/leader"
	"github.com/cuemby/venice-admin-consumer/pkg/log"
	"github.com/cuemby/venice-admin-consumer/pkg/metrics"
	"github.com/cuemby/venice-admin-consumer/pkg/queue"
	"github.com/cuemby/venice-admin-consumer/pkg/tailer"
	"github.com/cuemby/venice-admin-consumer/pkg/watermark"
	"github.com/rs/zerolog"
)

// schedulingInterval is how often the Coordinator looks for idle workers
// to pair with non-empty, unleased queues. It is intentionally far
// shorter than CheckpointInterval: scheduling should react promptly to
// new work, while checkpointing amortizes a durable write.
const schedulingInterval = 20 * time.Millisecond

// Config holds the tunables a Coordinator needs beyond its collaborators.
type Config struct {
	Cluster            string
	CheckpointInterval time.Duration
	Backoff            BackoffPolicy
}

// Coordinator runs the scheduling and checkpointing loop described in
// spec.md §4.7, gating worker scheduling on oracle's leadership answer.
// The Tailer runs regardless of leadership.
type Coordinator struct {
	cfg Config

	registry *queue.Registry
	tailer   *tailer.Tailer
	pool     *executor.Pool
	oracle   leader.Oracle
	wm       watermark.Store
	execIDs  *queue.ExecutionIDMap

	backoff *backoffTracker
}

// New wires a Coordinator from its collaborators.
func New(cfg Config, registry *queue.Registry, tl *tailer.Tailer, pool *executor.Pool, oracle leader.Oracle, wm watermark.Store, execIDs *queue.ExecutionIDMap) *Coordinator {
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = 5 * time.Second
	}
	return &Coordinator{
		cfg:      cfg,
		registry: registry,
		tailer:   tl,
		pool:     pool,
		oracle:   oracle,
		wm:       wm,
		execIDs:  execIDs,
		backoff:  newBackoffTracker(cfg.Backoff),
	}
}

// Run seeds execution-id and offset state from the watermark store,
// starts the Tailer, and runs the scheduling/checkpoint loop until ctx is
// cancelled or a Fatal dispatch outcome halts the pool. It always flushes
// a final checkpoint before returning (spec.md §4.7, "Shutdown").
func (c *Coordinator) Run(parent context.Context) error {
	logger := log.WithComponent("coordinator")

	startOffset, err := c.seed(logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	tailerDone := make(chan error, 1)
	go func() { tailerDone <- c.tailer.Run(ctx, startOffset) }()

	scheduleTicker := time.NewTicker(schedulingInterval)
	defer scheduleTicker.Stop()
	checkpointTicker := time.NewTicker(c.cfg.CheckpointInterval)
	defer checkpointTicker.Stop()

	var fatalErr error

	for {
		select {
		case <-ctx.Done():
			c.drainPending(logger)
			c.checkpoint(logger)
			if fatalErr != nil {
				return fatalErr
			}
			if parent.Err() != nil {
				return parent.Err()
			}
			return nil

		case err := <-tailerDone:
			// A nil error means the stream ran dry (expected for a
			// bounded test fixture, never for a live Kafka partition);
			// the coordinator keeps scheduling and checkpointing
			// whatever is already queued. Only a real error halts it.
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("tailer stopped with error")
				fatalErr = fmt.Errorf("tailer: %w", err)
				cancel()
			}
			tailerDone = nil

		case o := <-c.pool.Outcomes():
			if ferr := c.handleOutcome(logger, o); ferr != nil {
				fatalErr = ferr
				cancel()
			}

		case <-scheduleTicker.C:
			c.scheduleCycle(ctx)

		case <-checkpointTicker.C:
			c.checkpoint(logger)
		}
	}
}

// seed reads the last checkpointed offset and per-store execution ids
// from the watermark store and returns the offset the Tailer should
// resume from.
func (c *Coordinator) seed(logger zerolog.Logger) (int64, error) {
	ids, err := c.wm.ReadExecIDs(c.cfg.Cluster)
	if err != nil {
		return 0, fmt.Errorf("read execution ids: %w", err)
	}
	c.execIDs.Seed(ids)

	offset, ok, err := c.wm.ReadOffset(c.cfg.Cluster)
	if err != nil {
		return 0, fmt.Errorf("read checkpointed offset: %w", err)
	}
	if !ok {
		logger.Info().Str("cluster", c.cfg.Cluster).Msg("no prior checkpoint, starting from offset 0")
		return 0, nil
	}
	logger.Info().Str("cluster", c.cfg.Cluster).Int64("offset", offset).Msg("resuming from checkpoint")
	return offset + 1, nil
}

// scheduleCycle reaps empty queues and schedules idle workers onto every
// non-empty, unleased, backoff-ready queue, but only while this process
// is leader (spec.md §4.7, "Leadership gate").
func (c *Coordinator) scheduleCycle(ctx context.Context) {
	if !c.oracle.IsLeader() {
		return
	}
	c.registry.ReapEmpty()

	queues := c.registry.Snapshot()
	ready := make([]*queue.StoreQueue, 0, len(queues))
	for _, q := range queues {
		if c.backoff.ready(q.Store()) {
			ready = append(ready, q)
		}
	}
	c.pool.Schedule(ctx, ready, c.oracle.IsLeader)
}

// handleOutcome reacts to one worker's finished drain. It returns a
// non-nil error only when the outcome was Fatal, which halts the whole
// pool (spec.md §4.5, "Fatal failure ... Coordinator halts the worker
// pool and surfaces the error").
func (c *Coordinator) handleOutcome(logger zerolog.Logger, o executor.Outcome) error {
	if o.Err == nil {
		c.backoff.clear(o.Store)
		return nil
	}

	switch dispatch.Classify(o.Err) {
	case dispatch.OutcomeRetriable:
		wait := c.backoff.recordFailure(o.Store)
		logger.Warn().Str("store", o.Store).Err(o.Err).Dur("backoff", wait).
			Msg("retriable dispatch failure, backing off before retry")
		return nil
	default:
		logger.Error().Str("store", o.Store).Err(o.Err).Msg("fatal dispatch failure, halting")
		return fmt.Errorf("store %s: %w", o.Store, o.Err)
	}
}

// drainPending gives in-flight workers a short grace period to finish or
// report an outcome before the final checkpoint (spec.md §4.7,
// "Shutdown ... allow in-flight workers to finish or be cancelled").
// Workers themselves already observe leadership/ctx inside their drain
// loop; this only bounds how long shutdown waits for them to notice.
func (c *Coordinator) drainPending(logger zerolog.Logger) {
	deadline := time.Now().Add(2 * time.Second)
	for c.pool.Pending() > 0 && time.Now().Before(deadline) {
		select {
		case o := <-c.pool.Outcomes():
			c.handleOutcome(logger, o)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// safeOffset computes globalSafeOffset per spec.md §4.7: the minimum,
// over every live non-empty queue, of (headOffset - 1); or, if no queue
// is live and non-empty, tailerCursor - 1.
func (c *Coordinator) safeOffset() int64 {
	found := false
	var min int64
	for _, q := range c.registry.Snapshot() {
		off, ok := q.HeadOffset()
		if !ok {
			continue
		}
		candidate := off - 1
		if !found || candidate < min {
			min = candidate
			found = true
		}
	}
	if !found {
		return c.tailer.Cursor() - 1
	}
	return min
}

// checkpoint writes the current safe offset, if it has advanced past
// what is already persisted. A *watermark.WatermarkRegression here means
// no progress has been made since the last cycle, not a bug.
func (c *Coordinator) checkpoint(logger zerolog.Logger) {
	safe := c.safeOffset()
	if safe < 0 {
		return
	}

	timer := metrics.NewTimer()
	err := c.wm.WriteOffset(c.cfg.Cluster, safe)
	timer.ObserveDuration(metrics.CheckpointDuration)

	if err != nil {
		var regression *watermark.WatermarkRegression
		if errors.As(err, &regression) {
			return
		}
		logger.Error().Err(err).Int64("safe_offset", safe).Msg("failed to persist checkpoint")
		return
	}

	metrics.SafeOffset.Set(float64(safe))
	metrics.CheckpointLagSeconds.Set(0)
}
