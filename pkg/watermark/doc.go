// Package watermark persists the durable checkpoint state the coordinator
// and worker pool consult to guarantee exactly-once effect and resumable
// tailing: the per-cluster safe offset and the per-store execution-id
// watermark. Grounded on the teacher's pkg/storage/boltdb.go JSON-per-bucket
// pattern; BoltStore is the durable implementation, MemoryStore a
// drop-in for tests.
package watermark
