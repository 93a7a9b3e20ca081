package handler

import (
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"slack_helper/internal/classifier"
	"slack_helper/internal/executor"
	"slack_helper/internal/logger"
	"slack_helper/internal/model"
	"slack_helper/internal/policy"
	"slack_helper/internal/task"
)

type handlerFunc func(*model.InboundEvent) error

// SlackHandler wires the classifier, policy, executor and task runner
// into one dispatch pipeline. The event-kind registry is built once at
// construction and never mutated.
type SlackHandler struct {
	classifier *classifier.Classifier
	policy     *policy.Policy
	executor   *executor.Executor
	runner     *task.Runner
	registry   map[model.EventKind]handlerFunc
}

// New creates a SlackHandler with its handler registry.
func New(cls *classifier.Classifier, pol *policy.Policy, exec *executor.Executor, runner *task.Runner) *SlackHandler {
	h := &SlackHandler{
		classifier: cls,
		policy:     pol,
		executor:   exec,
		runner:     runner,
	}
	h.registry = map[model.EventKind]handlerFunc{
		model.EventSlashCommand: h.handleRequestEvent,
		model.EventMention:      h.handleNotification,
		model.EventMessage:      h.handleNotification,
		model.EventButtonClick:  h.handleRequestEvent,
		model.EventShortcut:     h.handleRequestEvent,
		model.EventModalSubmit:  h.handleModalSubmit,
	}
	return h
}

// Dispatch routes one classified event through the registry. A nil
// event was dropped by the classifier and produces no action.
func (h *SlackHandler) Dispatch(ev *model.InboundEvent) error {
	if ev == nil {
		return nil
	}
	fn, ok := h.registry[ev.Kind]
	if !ok {
		logger.GetLogger().Warn("unsupported event kind", zap.String("kind", string(ev.Kind)))
		return nil
	}
	return fn(ev)
}

// handleRequestEvent answers a user-initiated request. A failure gets
// one best-effort user-facing notice; there are no retries.
func (h *SlackHandler) handleRequestEvent(ev *model.InboundEvent) error {
	err := h.respond(ev)
	if err != nil {
		h.executor.NotifyFailure(ev.ChannelID, ev.UserID)
	}
	return err
}

// handleNotification handles passive events; failures are logged and
// swallowed upstream since there is no direct request to answer.
func (h *SlackHandler) handleNotification(ev *model.InboundEvent) error {
	return h.respond(ev)
}

// handleModalSubmit is the registry entry for modal submissions
// arriving outside the socket-mode path, where no submission ack can
// carry a view. The socket loop calls DispatchViewSubmission directly.
func (h *SlackHandler) handleModalSubmit(ev *model.InboundEvent) error {
	_, err := h.DispatchViewSubmission(ev)
	return err
}

// DispatchViewSubmission handles a modal submission and returns the
// payload to acknowledge it with. When the decision replaces the open
// view, the replacement must ride the submission ack as a
// response_action "update": the empty ack has already closed the view
// by the time views.update could run, which then fails with not_found.
// A nil response means a plain ack (modal closes).
func (h *SlackHandler) DispatchViewSubmission(ev *model.InboundEvent) (*slack.ViewSubmissionResponse, error) {
	if ev == nil {
		return nil, nil
	}
	h.logEvent(ev)

	decision, err := h.policy.Decide(ev)
	if err != nil {
		h.executor.NotifyFailure(ev.ChannelID, ev.UserID)
		return nil, fmt.Errorf("policy rejected event: %w", err)
	}

	var response *slack.ViewSubmissionResponse
	var firstErr error
	for _, action := range decision.Actions {
		if action.Kind == model.ActionUpdateModal && response == nil && action.Modal != nil {
			view := executor.RenderModal(*action.Modal)
			response = slack.NewUpdateViewSubmissionResponse(&view)
			continue
		}
		if err := h.executor.Execute(action); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, t := range decision.Deferred {
		if err := h.runner.Submit(t); err != nil {
			logger.GetLogger().Error("failed to schedule deferred task",
				zap.String("task", t.Name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		h.executor.NotifyFailure(ev.ChannelID, ev.UserID)
	}
	return response, firstErr
}

func (h *SlackHandler) respond(ev *model.InboundEvent) error {
	h.logEvent(ev)

	decision, err := h.policy.Decide(ev)
	if err != nil {
		return fmt.Errorf("policy rejected event: %w", err)
	}

	var firstErr error
	for _, action := range decision.Actions {
		// Each action executes at most once; one failure does not stop
		// the remaining actions.
		if err := h.executor.Execute(action); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, t := range decision.Deferred {
		if err := h.runner.Submit(t); err != nil {
			logger.GetLogger().Error("failed to schedule deferred task",
				zap.String("task", t.Name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (h *SlackHandler) logEvent(ev *model.InboundEvent) {
	fields := []zap.Field{
		zap.String("kind", string(ev.Kind)),
		zap.String("user", ev.UserID),
		zap.String("channel", ev.ChannelID),
	}
	if ev.UserInitiated() && ev.UserID != "" {
		if user, err := h.executor.ResolveUser(ev.UserID); err == nil {
			fields = append(fields, zap.String("user_name", user.Name))
		}
	}
	logger.GetLogger().Info("inbound event", fields...)
}
