// Package leader abstracts the leadership election service (spec.md §1)
// that gates the Coordinator: a non-leader schedules no workers, and a
// running worker stops draining once leadership is lost. The Tailer does
// not consult leadership; it keeps reading and enqueueing either way.
// Raft is a production implementation, modeled on the teacher's
// pkg/manager.Manager Bootstrap/IsLeader, in which the process bootstraps
// a single-node Raft group by itself; no other process joins it, and it
// replicates nothing, since durable state lives in watermark.Store and
// AdminBackend. Static backs single-process deployments and tests that
// externalize leadership decisions (e.g. a Kubernetes lease).
package leader
