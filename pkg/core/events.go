package core

// EventType represents the type of change in the content tree.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a page.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String renders the event for logs and for generic event pipelines.
func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}
