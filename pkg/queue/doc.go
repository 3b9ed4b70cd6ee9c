/*
Package queue holds per-worker assignment queues for the DMS master.

Each worker_id owns an independent, buffered, ordered channel of pending
Assignments. A worker's long-poll for its next unit of work blocks on that
worker's channel alone — a slow or stalled worker never delays delivery to
any other worker, and there is no shared pop-and-requeue path to get wrong.

# Design

	┌─────────────────────────────────────────────────────────┐
	│                        Queue                              │
	├─────────────────────────────────────────────────────────┤
	│  worker "w-a"  -> chan Assignment (buffered, FIFO)        │
	│  worker "w-b"  -> chan Assignment (buffered, FIFO)        │
	│  worker "w-c"  -> chan Assignment (buffered, FIFO)        │
	└─────────────────────────────────────────────────────────┘

Push enqueues onto the named worker's channel, creating it lazily. Pop
blocks until an assignment is available, the supplied context is canceled,
or the long-poll timeout elapses, whichever comes first.

This channel-per-subscriber shape narrows a broadcast event bus's
fan-out-to-all model down to exactly one subscriber per key: a worker
channel here plays the same buffered role a subscriber channel plays in a
pub/sub broker, except that Push blocks once a worker's buffer is full
rather than dropping the assignment.
*/
package queue
