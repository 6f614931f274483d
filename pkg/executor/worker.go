package executor

import (
	"context"
	"time"

	"github.com/cuemby/venice-admin-consumer/pkg/dispatch"
	"github.com/cuemby/venice-admin-consumer/pkg/log"
	"github.com/cuemby/venice-admin-consumer/pkg/metrics"
	"github.com/cuemby/venice-admin-consumer/pkg/queue"
	"github.com/cuemby/venice-admin-consumer/pkg/watermark"
)

// Worker drains one StoreQueue at a time, serializing execution for
// whatever store it currently holds the lease on. A Worker has no
// identity tied to a single store: the Pool hands it a different queue on
// every scheduling cycle.
type Worker struct {
	table     *dispatch.Table
	execIDs   *queue.ExecutionIDMap
	watermark watermark.Store
	cluster   string
}

// NewWorker builds a worker bound to the given dispatch table, in-memory
// execution-id map, watermark store, and cluster name (the watermark key
// namespace).
func NewWorker(table *dispatch.Table, execIDs *queue.ExecutionIDMap, wm watermark.Store, cluster string) *Worker {
	return &Worker{table: table, execIDs: execIDs, watermark: wm, cluster: cluster}
}

// Drain implements the ExecutionWorker loop of spec.md §4.5 against q.
// It returns nil once the queue empties or isLeader reports leadership
// lost; it returns the handler's error, unmodified, the moment a
// Retriable or Fatal outcome leaves the queue head in place. The Pool
// forwards that error as an Outcome, and the Coordinator classifies it to
// decide between backoff-and-retry and halting the pool.
func (w *Worker) Drain(ctx context.Context, q *queue.StoreQueue, isLeader func() bool) error {
	store := q.Store()

	for {
		if !isLeader() {
			return nil
		}
		head := q.Peek()
		if head == nil {
			return nil
		}

		if head.StartProcessingTimestamp.IsZero() {
			head.StartProcessingTimestamp = time.Now()
		}

		lastID := w.execIDs.Get(store)
		if head.Op.ExecutionID <= lastID {
			metrics.DuplicateExecutionsSkippedTotal.Inc()
			q.Pop()
			continue
		}

		logger := log.WithStore(store)
		timer := metrics.NewTimer()
		err := w.table.Dispatch(ctx, head.Op)
		timer.ObserveDurationVec(metrics.DispatchLatency, string(head.Op.Kind))

		outcome := dispatch.Classify(err)
		metrics.DispatchOutcomesTotal.WithLabelValues(string(head.Op.Kind), outcome.String()).Inc()

		switch outcome {
		case dispatch.OutcomeSuccess, dispatch.OutcomeIgnorable:
			if bumpErr := w.watermark.BumpExecID(w.cluster, store, head.Op.ExecutionID); bumpErr != nil {
				logger.Error().Err(bumpErr).Int64("execution_id", head.Op.ExecutionID).
					Msg("failed to persist execution id watermark, in-memory map still advances")
			}
			w.execIDs.Bump(store, head.Op.ExecutionID)
			q.Pop()

		case dispatch.OutcomeRetriable:
			metrics.FailedRetriableAdminConsumption.Inc()
			return err

		case dispatch.OutcomeFatal:
			metrics.FailedAdminConsumption.Inc()
			logger.Error().Err(err).Str("kind", string(head.Op.Kind)).Msg("fatal dispatch failure, halting worker")
			return err
		}
	}
}
