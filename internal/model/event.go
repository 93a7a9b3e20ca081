package model

// EventKind identifies the variant of an InboundEvent.
type EventKind string

const (
	EventSlashCommand EventKind = "slash_command"
	EventMention      EventKind = "mention"
	EventMessage      EventKind = "message"
	EventButtonClick  EventKind = "button_click"
	EventShortcut     EventKind = "shortcut"
	EventModalSubmit  EventKind = "modal_submit"
)

// InboundEvent is one normalized notification or request from Slack,
// decoded once at the classifier boundary. It is request-scoped and
// never outlives a single handler invocation.
type InboundEvent struct {
	Kind EventKind

	UserID    string
	ChannelID string

	// Text is the raw payload text; NormalizedText is lower-cased with
	// the bot mention token stripped. Keyword rules match on the latter.
	Text           string
	NormalizedText string

	// Timestamp targets threading and reactions; ThreadTimestamp is set
	// when the event happened inside a thread.
	Timestamp       string
	ThreadTimestamp string

	// TriggerID is the short-lived credential required to open a modal.
	// Present only for interactive variants (slash command, button,
	// shortcut).
	TriggerID string

	// Command is the slash command name, e.g. "/helper".
	Command string

	// ActionID identifies the clicked block element for ButtonClick.
	ActionID string

	// CallbackID correlates shortcuts and modal submissions back to the
	// workflow that created them.
	CallbackID string

	// ViewID and PrivateMetadata are set for ModalSubmit only.
	ViewID          string
	PrivateMetadata string

	// Values holds modal input state for ModalSubmit, keyed by block ID.
	Values map[string]string

	IsDirectMessage bool
}

// UserInitiated reports whether the event is a direct request from a
// user, as opposed to a passive notification. Failures while answering
// a user-initiated event warrant a user-facing notice; passive failures
// are only logged.
func (e *InboundEvent) UserInitiated() bool {
	switch e.Kind {
	case EventSlashCommand, EventButtonClick, EventShortcut, EventModalSubmit:
		return true
	}
	return false
}
