package model

// ItemStatus represents the status of a playlist item during one
// orchestration run. Transitions are monotonically non-decreasing in the
// order declared below; an item never moves backwards.
type ItemStatus string

const (
	// StatusPending means the item is queued but no task has started
	StatusPending ItemStatus = "pending"

	// StatusPreparing means a worker has picked the item up
	StatusPreparing ItemStatus = "preparing"

	// StatusDownloading means the external tool is producing progress output
	StatusDownloading ItemStatus = "downloading"

	// StatusConverting means the tool is merging or recoding streams
	StatusConverting ItemStatus = "converting"

	// StatusCompleted means the task settled successfully
	StatusCompleted ItemStatus = "completed"

	// StatusError means the task settled with an absorbed failure
	StatusError ItemStatus = "error"
)

// String returns the string representation of ItemStatus.
func (s ItemStatus) String() string {
	return string(s)
}

// rank orders statuses for the monotonicity guard.
func (s ItemStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusPreparing:
		return 1
	case StatusDownloading:
		return 2
	case StatusConverting:
		return 3
	case StatusCompleted:
		return 4
	case StatusError:
		return 5
	}
	return -1
}

// Advance returns the later of the two statuses. Backward transitions are
// dropped so telemetry arriving out of order cannot regress an item.
func (s ItemStatus) Advance(next ItemStatus) ItemStatus {
	if next.rank() > s.rank() {
		return next
	}
	return s
}
