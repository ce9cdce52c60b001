package engine

// EventKind classifies a change notification
type EventKind int

const (
	EventCreated EventKind = iota
	EventMessageAppended
	EventTypingChanged
	EventRenamed
	EventDeleted
	EventSelected
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventMessageAppended:
		return "message_appended"
	case EventTypingChanged:
		return "typing_changed"
	case EventRenamed:
		return "renamed"
	case EventDeleted:
		return "deleted"
	case EventSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// Event tells a UI that conversation state changed and should be re-read
type Event struct {
	Kind           EventKind
	ConversationID string
	Typing         bool
}
