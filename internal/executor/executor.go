package executor

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"slack_helper/internal/logger"
	"slack_helper/internal/model"
)

// SlackAPI is the slice of the Slack client the executor needs.
// *slack.Client satisfies it; tests substitute a fake.
type SlackAPI interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessage(channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	PostEphemeral(channelID, userID string, options ...slack.MsgOption) (string, error)
	AddReaction(name string, item slack.ItemRef) error
	OpenView(triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	UpdateView(view slack.ModalViewRequest, externalID, hash, viewID string) (*slack.ViewResponse, error)
	GetUserInfo(user string) (*slack.User, error)
	AuthTest() (*slack.AuthTestResponse, error)
}

const (
	userCacheSize = 256
	userCacheTTL  = 10 * time.Minute
)

const fallbackErrorMessage = "Something went wrong while processing your request. Please try again later."

// Executor performs outbound actions against the Slack API: exactly one
// external call per action, no retries, no idempotency key. Failures
// are logged and returned; the caller decides whether a user-facing
// notice is warranted.
type Executor struct {
	api   SlackAPI
	users *expirable.LRU[string, *slack.User]
}

// New creates an Executor around the given API client. The user-info
// cache is a bounded LRU with TTL rather than ambient per-user state.
func New(api SlackAPI) *Executor {
	return &Executor{
		api:   api,
		users: expirable.NewLRU[string, *slack.User](userCacheSize, nil, userCacheTTL),
	}
}

// Execute performs one action. The error is logged here; callers only
// need it to decide on a fallback notice.
func (e *Executor) Execute(a model.OutboundAction) error {
	var err error
	switch a.Kind {
	case model.ActionPostMessage:
		err = e.postMessage(a)
	case model.ActionUpdateMessage:
		_, _, _, err = e.api.UpdateMessage(a.ChannelID, a.Timestamp, slack.MsgOptionText(a.Text, false))
	case model.ActionAddReaction:
		err = e.api.AddReaction(a.Emoji, slack.NewRefToMessage(a.ChannelID, a.Timestamp))
	case model.ActionOpenModal:
		err = e.openModal(a)
	case model.ActionUpdateModal:
		err = e.updateModal(a)
	case model.ActionPostEphemeral:
		_, err = e.api.PostEphemeral(a.ChannelID, a.UserID, slack.MsgOptionText(a.Text, false))
	default:
		err = fmt.Errorf("unknown action kind %q", a.Kind)
	}
	if err != nil {
		logger.GetLogger().Error("outbound action failed",
			zap.String("kind", string(a.Kind)),
			zap.String("channel", a.ChannelID),
			zap.Error(err))
	}
	return err
}

func (e *Executor) postMessage(a model.OutboundAction) error {
	opts := []slack.MsgOption{slack.MsgOptionText(a.Text, false)}
	if a.ThreadTimestamp != "" {
		opts = append(opts, slack.MsgOptionTS(a.ThreadTimestamp))
	}
	if len(a.Buttons) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(messageBlocks(a)...))
	}
	_, _, err := e.api.PostMessage(a.ChannelID, opts...)
	return err
}

func (e *Executor) openModal(a model.OutboundAction) error {
	if a.Modal == nil {
		return fmt.Errorf("open modal action carries no modal definition")
	}
	_, err := e.api.OpenView(a.TriggerID, RenderModal(*a.Modal))
	return err
}

// updateModal calls views.update directly. This only works for views
// that are still open (e.g. from a block action inside the modal); a
// submitted view must be swapped through the submission ack instead.
func (e *Executor) updateModal(a model.OutboundAction) error {
	if a.Modal == nil {
		return fmt.Errorf("update modal action carries no modal definition")
	}
	_, err := e.api.UpdateView(RenderModal(*a.Modal), "", "", a.ViewID)
	return err
}

// NotifyFailure sends one best-effort apologetic notice after a failed
// user-initiated action. Its own failure is only logged; there is
// nowhere left to report it.
func (e *Executor) NotifyFailure(channelID, userID string) {
	if channelID == "" || userID == "" {
		return
	}
	if _, err := e.api.PostEphemeral(channelID, userID, slack.MsgOptionText(fallbackErrorMessage, false)); err != nil {
		logger.GetLogger().Error("failed to send fallback notice",
			zap.String("channel", channelID),
			zap.Error(err))
	}
}

// ResolveUser fetches user info through the bounded cache.
func (e *Executor) ResolveUser(userID string) (*slack.User, error) {
	if user, ok := e.users.Get(userID); ok {
		return user, nil
	}
	user, err := e.api.GetUserInfo(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %v", err)
	}
	e.users.Add(userID, user)
	return user, nil
}
