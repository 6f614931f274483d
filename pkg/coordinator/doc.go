// Package coordinator implements the Coordinator of spec.md §4.7: the
// leadership gate, the scheduling loop that hands idle workers unleased
// non-empty queues, the global safe-offset computation, and the
// checkpoint cadence against WatermarkStore. It is the only package that
// wires Tailer, the executor Pool, and a LeaderOracle together.
package coordinator
