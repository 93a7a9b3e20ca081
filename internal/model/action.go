package model

import "errors"

// ActionKind identifies the variant of an OutboundAction.
type ActionKind string

const (
	ActionPostMessage   ActionKind = "post_message"
	ActionUpdateMessage ActionKind = "update_message"
	ActionAddReaction   ActionKind = "add_reaction"
	ActionOpenModal     ActionKind = "open_modal"
	ActionUpdateModal   ActionKind = "update_modal"
	ActionPostEphemeral ActionKind = "post_ephemeral"
)

// Validation errors for modal actions. These are raised before any API
// call is attempted; Slack rejects modal opens without a trigger ID.
var (
	ErrMissingTriggerID  = errors.New("open modal requires a trigger ID")
	ErrMissingViewID     = errors.New("update modal requires a view ID")
	ErrMissingCallbackID = errors.New("modal definition requires a callback ID")
)

// Button is a clickable element attached to a PostMessage action.
type Button struct {
	ActionID string
	Label    string
	Value    string
}

// OutboundAction is one side-effecting call against the Slack API. Each
// action executes at most once; there are no retries.
type OutboundAction struct {
	Kind ActionKind

	ChannelID string
	// UserID is the ephemeral recipient for PostEphemeral.
	UserID string

	Text string
	// Buttons are rendered as an action block under the message text.
	Buttons []Button

	// Timestamp targets UpdateMessage and AddReaction.
	Timestamp string
	// ThreadTimestamp threads a PostMessage when set.
	ThreadTimestamp string

	// Emoji is the reaction name for AddReaction, without colons.
	Emoji string

	// TriggerID (OpenModal) or ViewID (UpdateModal) plus the modal to
	// render.
	TriggerID string
	ViewID    string
	Modal     *ModalDefinition
}

// NewPostMessage builds a message action addressed to a channel.
func NewPostMessage(channelID, text string) OutboundAction {
	return OutboundAction{Kind: ActionPostMessage, ChannelID: channelID, Text: text}
}

// NewAddReaction builds a reaction action targeting one message.
func NewAddReaction(channelID, timestamp, emoji string) OutboundAction {
	return OutboundAction{Kind: ActionAddReaction, ChannelID: channelID, Timestamp: timestamp, Emoji: emoji}
}

// NewPostEphemeral builds an ephemeral message visible to one user.
func NewPostEphemeral(channelID, userID, text string) OutboundAction {
	return OutboundAction{Kind: ActionPostEphemeral, ChannelID: channelID, UserID: userID, Text: text}
}

// NewOpenModal builds a modal-open action. It fails when the trigger ID
// is empty or the definition carries no callback ID, so an invalid open
// is caught before it reaches the platform.
func NewOpenModal(triggerID string, def ModalDefinition) (OutboundAction, error) {
	if triggerID == "" {
		return OutboundAction{}, ErrMissingTriggerID
	}
	if def.CallbackID == "" {
		return OutboundAction{}, ErrMissingCallbackID
	}
	return OutboundAction{Kind: ActionOpenModal, TriggerID: triggerID, Modal: &def}, nil
}

// NewUpdateModal builds an in-place update of an open modal view.
func NewUpdateModal(viewID string, def ModalDefinition) (OutboundAction, error) {
	if viewID == "" {
		return OutboundAction{}, ErrMissingViewID
	}
	if def.CallbackID == "" {
		return OutboundAction{}, ErrMissingCallbackID
	}
	return OutboundAction{Kind: ActionUpdateModal, ViewID: viewID, Modal: &def}, nil
}
