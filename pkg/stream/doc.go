// Package stream abstracts the admin log itself (spec.md §1, "the
// underlying durable log"). LogStream is the interface the Tailer drives;
// Kafka is the production implementation, backed by the single-partition
// admin topic convention the spec assumes; Memory is a deterministic fake
// for tests, including the out-of-order and poison-record injection the §8
// scenarios need.
package stream
