// Package executor implements the ExecutionWorker pool that drains
// per-store queues (spec.md §4.5): duplicate replays are skipped against
// the in-memory execution-id map, successful or ignorable dispatches pop
// the queue and bump the watermark, and retriable or fatal failures leave
// the head in place and propagate the error to the Coordinator.
package executor
