// Package download implements the orchestration engine: a bounded worker
// pool draining a FIFO queue of playlist items, one extraction subprocess
// per task, progress fan-out to the event channel, a single generic
// fallback retry for the recoverable failure class, and run completion
// detection.
package download
