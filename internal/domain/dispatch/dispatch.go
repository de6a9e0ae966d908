package dispatch

// Event is the capacity counter row owned by the event store.
// The dispatch core only ever reads it.
type Event struct {
	ID       int64
	Capacity int32
}

// ApplicationRequest is one booking application as received from the
// transport layer.
type ApplicationRequest struct {
	EventID int64
	UserID  string
}

// ApplicationResult is the caller-visible business outcome. It is
// decided before the broker acknowledges delivery.
type ApplicationResult struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

// EventMessage is the wire payload published for a single accepted
// application. Immutable once built.
type EventMessage struct {
	EventID         int64  `json:"eventId"`
	UserID          string `json:"userId"`
	ApplicationDate string `json:"applicationDate"`
	ApplicationTime string `json:"applicationTime"`
}

// BatchMessage is a caller-supplied payload forwarded to the batch
// topic. The core fills UserID, EventDate and EventTime in place
// before submission; the remaining fields belong to the caller.
type BatchMessage struct {
	EventID   int64  `json:"eventId"`
	UserID    string `json:"userId"`
	EventDate string `json:"eventDate"`
	EventTime string `json:"eventTime"`
	Quantity  int32  `json:"quantity,omitempty"`
	Source    string `json:"source,omitempty"`
}

// FailureRecord is the durable audit entry written when an application
// cannot be honored. ID is assigned by the failure store adapter.
type FailureRecord struct {
	ID      string
	EventID int64
	UserID  string
	Date    string
	Time    string
}
