package policy

import (
	"encoding/json"
	"fmt"

	"slack_helper/internal/model"
	"slack_helper/internal/task"
)

// Correlation identifiers for the two-step task workflow. Slack
// round-trips the callback ID on every submission and the step-2 view
// carries step-1 answers in its private metadata, so no state is kept
// server-side. An abandoned modal holds no resources and needs no
// timeout handling.
const (
	ShortcutNewTask     = "new_task"
	ActionOpenTaskModal = "open_task_modal"
	CallbackTaskStepOne = "task_step_1"
	CallbackTaskStepTwo = "task_step_2"
)

// Block IDs for the modal input fields.
const (
	blockTaskTitle    = "task_title"
	blockTaskChannel  = "task_channel"
	blockTaskDetails  = "task_details"
	blockTaskPriority = "task_priority"
)

// taskMetadata is the payload threaded through the step-2 view.
type taskMetadata struct {
	Title   string `json:"title"`
	Channel string `json:"channel"`
}

// StepOneModal is the first view of the task workflow: title plus
// destination channel.
func StepOneModal() model.ModalDefinition {
	return model.ModalDefinition{
		Title:       "New task",
		CallbackID:  CallbackTaskStepOne,
		SubmitLabel: "Next",
		Fields: []model.ModalField{
			{
				BlockID:     blockTaskTitle,
				Label:       "Task title",
				Type:        model.FieldText,
				Placeholder: "What needs doing?",
			},
			{
				BlockID:     blockTaskChannel,
				Label:       "Post updates to",
				Type:        model.FieldChannelSelect,
				Placeholder: "Select a channel",
			},
		},
	}
}

// StepTwoModal is the second view, carrying step-1 answers in its
// private metadata.
func StepTwoModal(metadata string) model.ModalDefinition {
	return model.ModalDefinition{
		Title:           "Task details",
		CallbackID:      CallbackTaskStepTwo,
		PrivateMetadata: metadata,
		SubmitLabel:     "Create",
		Fields: []model.ModalField{
			{
				BlockID:     blockTaskDetails,
				Label:       "Description",
				Type:        model.FieldText,
				Placeholder: "Add any details",
				Multiline:   true,
				Optional:    true,
			},
			{
				BlockID: blockTaskPriority,
				Label:   "Priority",
				Type:    model.FieldSelect,
				Options: []string{"low", "normal", "high"},
			},
		},
	}
}

func buildOpenTaskModal(ev *model.InboundEvent) (Decision, error) {
	action, err := model.NewOpenModal(ev.TriggerID, StepOneModal())
	if err != nil {
		return Decision{}, err
	}
	return Decision{Actions: []model.OutboundAction{action}}, nil
}

func buildTaskStepOneSubmit(ev *model.InboundEvent) (Decision, error) {
	meta, err := json.Marshal(taskMetadata{
		Title:   ev.Values[blockTaskTitle],
		Channel: ev.Values[blockTaskChannel],
	})
	if err != nil {
		return Decision{}, fmt.Errorf("encode task metadata: %w", err)
	}
	action, err := model.NewUpdateModal(ev.ViewID, StepTwoModal(string(meta)))
	if err != nil {
		return Decision{}, err
	}
	return Decision{Actions: []model.OutboundAction{action}}, nil
}

func buildTaskStepTwoSubmit(ev *model.InboundEvent) (Decision, error) {
	var meta taskMetadata
	if err := json.Unmarshal([]byte(ev.PrivateMetadata), &meta); err != nil {
		return Decision{}, fmt.Errorf("decode task metadata: %w", err)
	}
	channel := meta.Channel
	if channel == "" {
		channel = ev.ChannelID
	}
	priority := ev.Values[blockTaskPriority]
	if priority == "" {
		priority = "normal"
	}

	text := fmt.Sprintf("New task from <@%s>: *%s* (priority: %s)", ev.UserID, meta.Title, priority)
	if details := ev.Values[blockTaskDetails]; details != "" {
		text += "\n> " + details
	}

	d := Decision{Actions: []model.OutboundAction{model.NewPostMessage(channel, text)}}
	d.Deferred = append(d.Deferred, task.Task{
		Name: "task-filed-follow-up",
		Run: func() (model.OutboundAction, error) {
			return model.NewPostMessage(channel,
				fmt.Sprintf("Task *%s* has been filed and is ready to pick up :inbox_tray:", meta.Title)), nil
		},
	})
	return d, nil
}
