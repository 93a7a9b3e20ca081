package policy

import (
	"fmt"
	"strings"

	"slack_helper/internal/model"
	"slack_helper/internal/task"
)

// Decision is the outcome of evaluating one inbound event: the actions
// to perform now, and the deferred tasks whose follow-ups arrive later
// through the same executor.
type Decision struct {
	Actions  []model.OutboundAction
	Deferred []task.Task
}

func (d *Decision) merge(other Decision) {
	d.Actions = append(d.Actions, other.Actions...)
	d.Deferred = append(d.Deferred, other.Deferred...)
}

// rule pairs a predicate with an action builder. Predicates are
// case-insensitive substring matches over the normalized text; there is
// no tokenization or ranking.
type rule struct {
	name  string
	when  func(*model.InboundEvent) bool
	build func(*model.InboundEvent) (Decision, error)
}

// Policy maps classified events to outbound actions. Reply rules are
// mutually exclusive: the first matching rule wins, ties broken by
// declaration order. Reaction rules are evaluated independently and may
// fire alongside a reply. The policy performs no I/O.
type Policy struct {
	replies   []rule
	reactions []rule
}

// urgencyKeywords trigger the attention reactions wherever they appear.
var urgencyKeywords = []string{"urgent", "emergency", "important", "asap"}

// New builds the rule set. The lists are fixed at construction and
// never mutated afterwards.
func New() *Policy {
	return &Policy{
		replies: []rule{
			{
				name:  "slash-command",
				when:  func(ev *model.InboundEvent) bool { return ev.Kind == model.EventSlashCommand },
				build: buildSlashReply,
			},
			{
				name: "mention-greeting",
				when: func(ev *model.InboundEvent) bool {
					return ev.Kind == model.EventMention && containsAny(ev.NormalizedText, "hello", "hi")
				},
				build: buildGreeting,
			},
			{
				name: "mention-help",
				when: func(ev *model.InboundEvent) bool {
					return ev.Kind == model.EventMention && strings.Contains(ev.NormalizedText, "help")
				},
				build: buildMentionHelp,
			},
			{
				name: "mention-status",
				when: func(ev *model.InboundEvent) bool {
					return ev.Kind == model.EventMention && strings.Contains(ev.NormalizedText, "status")
				},
				build: buildMentionStatus,
			},
			{
				name:  "mention-fallback",
				when:  func(ev *model.InboundEvent) bool { return ev.Kind == model.EventMention },
				build: buildMentionFallback,
			},
			{
				name: "dm-greeting",
				when: func(ev *model.InboundEvent) bool {
					return ev.Kind == model.EventMessage && ev.IsDirectMessage &&
						strings.Contains(ev.NormalizedText, "hello")
				},
				build: buildGreeting,
			},
			{
				name: "dm-fallback",
				when: func(ev *model.InboundEvent) bool {
					return ev.Kind == model.EventMessage && ev.IsDirectMessage
				},
				build: buildDMFallback,
			},
			{
				name: "button-open-task-modal",
				when: func(ev *model.InboundEvent) bool {
					return ev.Kind == model.EventButtonClick && ev.ActionID == ActionOpenTaskModal
				},
				build: buildOpenTaskModal,
			},
			{
				name: "shortcut-new-task",
				when: func(ev *model.InboundEvent) bool {
					return ev.Kind == model.EventShortcut && ev.CallbackID == ShortcutNewTask
				},
				build: buildOpenTaskModal,
			},
			{
				name: "task-modal-step-one",
				when: func(ev *model.InboundEvent) bool {
					return ev.Kind == model.EventModalSubmit && ev.CallbackID == CallbackTaskStepOne
				},
				build: buildTaskStepOneSubmit,
			},
			{
				name: "task-modal-step-two",
				when: func(ev *model.InboundEvent) bool {
					return ev.Kind == model.EventModalSubmit && ev.CallbackID == CallbackTaskStepTwo
				},
				build: buildTaskStepTwoSubmit,
			},
		},
		reactions: []rule{
			{
				name: "urgency-reactions",
				when: func(ev *model.InboundEvent) bool {
					if ev.Kind != model.EventMessage && ev.Kind != model.EventMention {
						return false
					}
					return containsAny(ev.NormalizedText, urgencyKeywords...)
				},
				build: buildUrgencyReactions,
			},
		},
	}
}

// Decide evaluates the rules for one event and returns the resulting
// decision. A nil event (dropped by the classifier) yields an empty
// decision. Builder errors are validation conditions, surfaced before
// anything reaches the platform.
func (p *Policy) Decide(ev *model.InboundEvent) (Decision, error) {
	var d Decision
	if ev == nil {
		return d, nil
	}
	for _, r := range p.replies {
		if !r.when(ev) {
			continue
		}
		built, err := r.build(ev)
		if err != nil {
			return Decision{}, fmt.Errorf("rule %s: %w", r.name, err)
		}
		d.merge(built)
		break
	}
	for _, r := range p.reactions {
		if !r.when(ev) {
			continue
		}
		built, err := r.build(ev)
		if err != nil {
			return Decision{}, fmt.Errorf("rule %s: %w", r.name, err)
		}
		d.merge(built)
	}
	return d, nil
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func buildSlashReply(ev *model.InboundEvent) (Decision, error) {
	norm := ev.NormalizedText
	switch {
	// The task prefix is checked before the status keyword so a task
	// description may itself mention "status".
	case strings.HasPrefix(norm, "task "):
		// Slice the original text so the description keeps its casing;
		// norm is a lower-cased copy of the trimmed text.
		description := strings.TrimSpace(strings.TrimSpace(ev.Text)[len("task"):])
		d := reply(ev, fmt.Sprintf("Got it, <@%s> — working on *%s*. I'll follow up here when it's done.", ev.UserID, description))
		d.Deferred = append(d.Deferred, newTaskFollowUp(ev.ChannelID, ev.UserID, description))
		return d, nil
	case strings.Contains(norm, "status"):
		return reply(ev, fmt.Sprintf("Hi <@%s>, I'm online and all systems are operational.", ev.UserID)), nil
	default:
		return reply(ev, fmt.Sprintf("Hi <@%s>! Try `%s status` or `%s task <description>`.", ev.UserID, ev.Command, ev.Command)), nil
	}
}

func buildGreeting(ev *model.InboundEvent) (Decision, error) {
	return reply(ev, fmt.Sprintf("Hello <@%s>! :wave: How can I help you today?", ev.UserID)), nil
}

func buildMentionHelp(ev *model.InboundEvent) (Decision, error) {
	action := model.NewPostMessage(ev.ChannelID,
		fmt.Sprintf("Here's what I can do, <@%s>:\n• say `hello` for a greeting\n• say `status` to check on me\n• use `/helper task <description>` to file a task", ev.UserID))
	action.ThreadTimestamp = ev.ThreadTimestamp
	action.Buttons = []model.Button{{
		ActionID: ActionOpenTaskModal,
		Label:    "New task",
		Value:    ShortcutNewTask,
	}}
	return Decision{Actions: []model.OutboundAction{action}}, nil
}

func buildMentionStatus(ev *model.InboundEvent) (Decision, error) {
	return reply(ev, fmt.Sprintf("Hi <@%s>, I'm online and all systems are operational.", ev.UserID)), nil
}

func buildMentionFallback(ev *model.InboundEvent) (Decision, error) {
	return reply(ev, fmt.Sprintf("Got it, <@%s>. Mention me with `help` to see what I can do.", ev.UserID)), nil
}

func buildDMFallback(ev *model.InboundEvent) (Decision, error) {
	return reply(ev, fmt.Sprintf("Hi <@%s>! Say `hello`, or mention me in a channel with `help`.", ev.UserID)), nil
}

func buildUrgencyReactions(ev *model.InboundEvent) (Decision, error) {
	return Decision{Actions: []model.OutboundAction{
		model.NewAddReaction(ev.ChannelID, ev.Timestamp, "eyes"),
		model.NewAddReaction(ev.ChannelID, ev.Timestamp, "warning"),
	}}, nil
}

// reply builds a single message back to the originating channel,
// threaded when the event came from a thread.
func reply(ev *model.InboundEvent, text string) Decision {
	action := model.NewPostMessage(ev.ChannelID, text)
	action.ThreadTimestamp = ev.ThreadTimestamp
	return Decision{Actions: []model.OutboundAction{action}}
}

func newTaskFollowUp(channelID, userID, description string) task.Task {
	return task.Task{
		Name: "task-follow-up",
		Run: func() (model.OutboundAction, error) {
			return model.NewPostMessage(channelID,
				fmt.Sprintf("<@%s> Done working on *%s* :white_check_mark:", userID, description)), nil
		},
	}
}
