package policy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slack_helper/internal/model"
)

func TestNilEventYieldsEmptyDecision(t *testing.T) {
	d, err := New().Decide(nil)
	require.NoError(t, err)
	assert.Empty(t, d.Actions)
	assert.Empty(t, d.Deferred)
}

func TestDirectMessageHelloGreets(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:            model.EventMessage,
		UserID:          "U1",
		ChannelID:       "D1",
		Text:            "Hello there",
		NormalizedText:  "hello there",
		IsDirectMessage: true,
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	assert.Equal(t, model.ActionPostMessage, d.Actions[0].Kind)
	assert.Equal(t, "D1", d.Actions[0].ChannelID)
	assert.Contains(t, d.Actions[0].Text, "<@U1>")
}

func TestChannelMessageUrgentAddsReactions(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:           model.EventMessage,
		UserID:         "U1",
		ChannelID:      "C1",
		Text:           "this is URGENT",
		NormalizedText: "this is urgent",
		Timestamp:      "123.456",
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 2)
	var emojis []string
	for _, action := range d.Actions {
		assert.Equal(t, model.ActionAddReaction, action.Kind)
		assert.Equal(t, "C1", action.ChannelID)
		assert.Equal(t, "123.456", action.Timestamp)
		emojis = append(emojis, action.Emoji)
	}
	assert.ElementsMatch(t, []string{"eyes", "warning"}, emojis)
}

func TestUrgencyKeywordVariants(t *testing.T) {
	p := New()
	for _, keyword := range []string{"urgent", "emergency", "important", "asap"} {
		d, err := p.Decide(&model.InboundEvent{
			Kind:           model.EventMessage,
			ChannelID:      "C1",
			NormalizedText: "please handle this " + keyword,
			Timestamp:      "1.2",
		})
		require.NoError(t, err)
		assert.Len(t, d.Actions, 2, "keyword %q", keyword)
	}
}

func TestChannelMessageWithoutKeywordsIsSilent(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:           model.EventMessage,
		ChannelID:      "C1",
		NormalizedText: "just chatting about lunch",
	})
	require.NoError(t, err)
	assert.Empty(t, d.Actions)
	assert.Empty(t, d.Deferred)
}

func TestSlashCommandUsageMentionsUser(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:      model.EventSlashCommand,
		UserID:    "U1",
		ChannelID: "C1",
		Command:   "/helper",
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	assert.Equal(t, model.ActionPostMessage, d.Actions[0].Kind)
	assert.Contains(t, d.Actions[0].Text, "U1")
	assert.Empty(t, d.Deferred)
}

func TestSlashCommandTaskDefersFollowUp(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:           model.EventSlashCommand,
		UserID:         "U1",
		ChannelID:      "C1",
		Command:        "/helper",
		Text:           "task Fix the build",
		NormalizedText: "task fix the build",
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	assert.Contains(t, d.Actions[0].Text, "Fix the build")

	require.Len(t, d.Deferred, 1)
	followUp, err := d.Deferred[0].Run()
	require.NoError(t, err)
	assert.Equal(t, model.ActionPostMessage, followUp.Kind)
	assert.Equal(t, "C1", followUp.ChannelID)
	assert.Contains(t, followUp.Text, "Fix the build")
}

func TestSlashCommandTaskDescriptionMayMentionStatus(t *testing.T) {
	// The task prefix wins over the status keyword inside the
	// description.
	d, err := New().Decide(&model.InboundEvent{
		Kind:           model.EventSlashCommand,
		UserID:         "U1",
		ChannelID:      "C1",
		Command:        "/helper",
		Text:           "task update status page",
		NormalizedText: "task update status page",
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	assert.Contains(t, d.Actions[0].Text, "update status page")
	require.Len(t, d.Deferred, 1)
}

func TestMentionStatusReportsOnline(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:           model.EventMention,
		UserID:         "U2",
		ChannelID:      "C1",
		NormalizedText: "status",
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	assert.Contains(t, d.Actions[0].Text, "online")
	assert.Contains(t, d.Actions[0].Text, "U2")
}

func TestMentionFirstMatchWins(t *testing.T) {
	// "hello" and "help" both match; the greeting rule is declared
	// first and wins.
	d, err := New().Decide(&model.InboundEvent{
		Kind:           model.EventMention,
		UserID:         "U2",
		ChannelID:      "C1",
		NormalizedText: "hello, i need help",
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	assert.Contains(t, d.Actions[0].Text, "Hello")
	assert.Empty(t, d.Actions[0].Buttons)
}

func TestMentionHelpCarriesButton(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:           model.EventMention,
		UserID:         "U2",
		ChannelID:      "C1",
		NormalizedText: "help",
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	require.Len(t, d.Actions[0].Buttons, 1)
	assert.Equal(t, ActionOpenTaskModal, d.Actions[0].Buttons[0].ActionID)
}

func TestMentionFallback(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:           model.EventMention,
		UserID:         "U2",
		ChannelID:      "C1",
		NormalizedText: "what's the weather",
	})
	require.NoError(t, err)
	require.Len(t, d.Actions, 1)
	assert.Contains(t, d.Actions[0].Text, "<@U2>")
}

func TestMentionUrgentGetsReplyAndReactions(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:           model.EventMention,
		UserID:         "U2",
		ChannelID:      "C1",
		NormalizedText: "status asap",
		Timestamp:      "5.5",
	})
	require.NoError(t, err)

	// One reply plus the two attention reactions.
	require.Len(t, d.Actions, 3)
	assert.Equal(t, model.ActionPostMessage, d.Actions[0].Kind)
	assert.Equal(t, model.ActionAddReaction, d.Actions[1].Kind)
	assert.Equal(t, model.ActionAddReaction, d.Actions[2].Kind)
}

func TestButtonWithoutTriggerIDFails(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:     model.EventButtonClick,
		UserID:   "U3",
		ActionID: ActionOpenTaskModal,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingTriggerID)
	assert.Empty(t, d.Actions)
}

func TestShortcutOpensStepOneModal(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:       model.EventShortcut,
		UserID:     "U3",
		TriggerID:  "trig-1",
		CallbackID: ShortcutNewTask,
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	action := d.Actions[0]
	assert.Equal(t, model.ActionOpenModal, action.Kind)
	assert.Equal(t, "trig-1", action.TriggerID)
	require.NotNil(t, action.Modal)
	assert.Equal(t, CallbackTaskStepOne, action.Modal.CallbackID)
}

func TestStepOneSubmitUpdatesToStepTwo(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:       model.EventModalSubmit,
		UserID:     "U3",
		CallbackID: CallbackTaskStepOne,
		ViewID:     "V1",
		Values: map[string]string{
			blockTaskTitle:   "Ship it",
			blockTaskChannel: "C9",
		},
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	action := d.Actions[0]
	assert.Equal(t, model.ActionUpdateModal, action.Kind)
	assert.Equal(t, "V1", action.ViewID)
	require.NotNil(t, action.Modal)
	assert.Equal(t, CallbackTaskStepTwo, action.Modal.CallbackID)

	var meta taskMetadata
	require.NoError(t, json.Unmarshal([]byte(action.Modal.PrivateMetadata), &meta))
	assert.Equal(t, "Ship it", meta.Title)
	assert.Equal(t, "C9", meta.Channel)
}

func TestStepTwoSubmitPostsConfirmationAndDefers(t *testing.T) {
	d, err := New().Decide(&model.InboundEvent{
		Kind:            model.EventModalSubmit,
		UserID:          "U3",
		CallbackID:      CallbackTaskStepTwo,
		ViewID:          "V1",
		PrivateMetadata: `{"title":"Ship it","channel":"C9"}`,
		Values: map[string]string{
			blockTaskDetails: "Before Friday",
		},
	})
	require.NoError(t, err)

	require.Len(t, d.Actions, 1)
	confirmation := d.Actions[0]
	assert.Equal(t, model.ActionPostMessage, confirmation.Kind)
	assert.Equal(t, "C9", confirmation.ChannelID)
	assert.Contains(t, confirmation.Text, "Ship it")
	assert.Contains(t, confirmation.Text, "normal")
	assert.Contains(t, confirmation.Text, "Before Friday")

	require.Len(t, d.Deferred, 1)
	followUp, err := d.Deferred[0].Run()
	require.NoError(t, err)
	assert.Equal(t, "C9", followUp.ChannelID)
	assert.Contains(t, followUp.Text, "Ship it")
}

func TestStepTwoSubmitRejectsBadMetadata(t *testing.T) {
	_, err := New().Decide(&model.InboundEvent{
		Kind:            model.EventModalSubmit,
		UserID:          "U3",
		CallbackID:      CallbackTaskStepTwo,
		PrivateMetadata: "not json",
	})
	require.Error(t, err)
}
