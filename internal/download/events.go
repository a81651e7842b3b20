package download

// EventSink receives orchestration events for one run. Implementations must
// not block: sinks are called synchronously from worker goroutines.
//
// Per-item ordering is progress updates then exactly one ItemComplete, with
// nothing after it. Cross-item ordering is undefined. RunComplete fires
// exactly once, after every item has settled.
type EventSink interface {
	ProgressUpdate(itemID string, progress float64, speed, eta string)
	ItemComplete(itemID string)
	RunComplete(downloadURL string)
}
