/*
Package queue implements the per-store FIFO queues the tailer fans
operations into and the worker pool drains, plus the in-memory
execution-id watermark each store's queue is checked against.

A StoreQueue is single-producer (the tailer appends in offset order),
single-consumer (whichever worker currently holds its lease). The head is
peeked, not popped, until its handler reports success or an ignorable
outcome — this is the "at-least-once delivery with idempotent target
state" contract spec.md §4.3 and §9 describe.
*/
package queue
