package bus

import "time"

// Event kinds published during an archive scan.
const (
	ScanStarted   = "scan.started"
	ScanProgress  = "scan.progress"
	ScanFileError = "scan.file_error"
	ScanFinished  = "scan.finished"
	ScanFailed    = "scan.failed"
	StateChanged  = "state.changed"
	HistorySaved  = "history.saved"
)

// Event is a notification published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// NewEvent stamps an event with the current time.
func NewEvent(kind string, payload any) Event {
	return Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
}
