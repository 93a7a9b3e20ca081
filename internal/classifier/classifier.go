package classifier

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"slack_helper/internal/model"
)

// Classifier turns raw slack-go payloads into normalized InboundEvent
// values. It holds only the bot's own identity, resolved once at
// startup via auth.test; classification itself is a pure function of
// its input. A nil result means the event is dropped with no action --
// events are best-effort notifications, not requests requiring a
// response, so unrecognized shapes are never an error.
type Classifier struct {
	botUserID string
	botID     string
}

// New creates a Classifier for the given bot identity.
func New(botUserID, botID string) *Classifier {
	return &Classifier{botUserID: botUserID, botID: botID}
}

// Message classifies a message event. Messages from bots (including
// this one) and edit/delete echoes carrying a subtype are dropped to
// prevent reply loops.
func (c *Classifier) Message(ev *slackevents.MessageEvent) *model.InboundEvent {
	if ev == nil {
		return nil
	}
	if ev.SubType != "" || ev.BotID != "" || ev.User == "" || ev.User == c.botUserID {
		return nil
	}
	return &model.InboundEvent{
		Kind:            model.EventMessage,
		UserID:          ev.User,
		ChannelID:       ev.Channel,
		Text:            ev.Text,
		NormalizedText:  c.normalize(ev.Text),
		Timestamp:       ev.TimeStamp,
		ThreadTimestamp: ev.ThreadTimeStamp,
		IsDirectMessage: ev.ChannelType == "im" || ev.ChannelType == "mpim",
	}
}

// Mention classifies an app_mention event. The mention token is
// stripped from the normalized text so keyword rules see only the query.
func (c *Classifier) Mention(ev *slackevents.AppMentionEvent) *model.InboundEvent {
	if ev == nil {
		return nil
	}
	if ev.BotID != "" || ev.User == "" || ev.User == c.botUserID {
		return nil
	}
	return &model.InboundEvent{
		Kind:            model.EventMention,
		UserID:          ev.User,
		ChannelID:       ev.Channel,
		Text:            ev.Text,
		NormalizedText:  c.normalize(ev.Text),
		Timestamp:       ev.TimeStamp,
		ThreadTimestamp: ev.ThreadTimeStamp,
	}
}

// SlashCommand classifies a slash command invocation.
func (c *Classifier) SlashCommand(cmd slack.SlashCommand) *model.InboundEvent {
	if cmd.Command == "" {
		return nil
	}
	return &model.InboundEvent{
		Kind:           model.EventSlashCommand,
		UserID:         cmd.UserID,
		ChannelID:      cmd.ChannelID,
		Text:           cmd.Text,
		NormalizedText: c.normalize(cmd.Text),
		TriggerID:      cmd.TriggerID,
		Command:        cmd.Command,
	}
}

// Interaction classifies an interactive payload (block actions, global
// shortcuts, view submissions). Other interaction types are dropped.
func (c *Classifier) Interaction(cb slack.InteractionCallback) *model.InboundEvent {
	switch cb.Type {
	case slack.InteractionTypeBlockActions:
		return c.blockAction(cb)
	case slack.InteractionTypeShortcut:
		return c.shortcut(cb)
	case slack.InteractionTypeViewSubmission:
		return c.viewSubmission(cb)
	}
	return nil
}

func (c *Classifier) blockAction(cb slack.InteractionCallback) *model.InboundEvent {
	if len(cb.ActionCallback.BlockActions) == 0 {
		return nil
	}
	action := cb.ActionCallback.BlockActions[0]
	return &model.InboundEvent{
		Kind:      model.EventButtonClick,
		UserID:    cb.User.ID,
		ChannelID: cb.Channel.ID,
		Timestamp: cb.Message.Timestamp,
		TriggerID: cb.TriggerID,
		ActionID:  action.ActionID,
		Text:      action.Value,
	}
}

func (c *Classifier) shortcut(cb slack.InteractionCallback) *model.InboundEvent {
	return &model.InboundEvent{
		Kind:       model.EventShortcut,
		UserID:     cb.User.ID,
		ChannelID:  cb.Channel.ID,
		TriggerID:  cb.TriggerID,
		CallbackID: cb.CallbackID,
	}
}

func (c *Classifier) viewSubmission(cb slack.InteractionCallback) *model.InboundEvent {
	return &model.InboundEvent{
		Kind:            model.EventModalSubmit,
		UserID:          cb.User.ID,
		ChannelID:       cb.Channel.ID,
		CallbackID:      cb.View.CallbackID,
		ViewID:          cb.View.ID,
		PrivateMetadata: cb.View.PrivateMetadata,
		Values:          flattenViewState(cb.View.State),
	}
}

// flattenViewState reduces Slack's two-level view state (block ID then
// action ID) to one value per block ID. Each input block in our modals
// holds exactly one element.
func flattenViewState(state *slack.ViewState) map[string]string {
	if state == nil {
		return nil
	}
	values := make(map[string]string, len(state.Values))
	for blockID, actions := range state.Values {
		for _, action := range actions {
			switch {
			case action.Value != "":
				values[blockID] = action.Value
			case action.SelectedOption.Value != "":
				values[blockID] = action.SelectedOption.Value
			case action.SelectedConversation != "":
				values[blockID] = action.SelectedConversation
			case action.SelectedChannel != "":
				values[blockID] = action.SelectedChannel
			}
		}
	}
	return values
}

func (c *Classifier) normalize(text string) string {
	text = strings.ReplaceAll(text, fmt.Sprintf("<@%s>", c.botUserID), "")
	return strings.ToLower(strings.TrimSpace(text))
}
