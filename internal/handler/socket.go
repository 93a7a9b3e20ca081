package handler

import (
	"context"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"slack_helper/internal/logger"
)

// RunSocketMode consumes socket-mode envelopes until the context is
// cancelled. Each envelope is acknowledged before any processing:
// Slack times out interactions that are not acked within its window,
// and our replies arrive as separate API calls anyway.
func (h *SlackHandler) RunSocketMode(ctx context.Context, client *socketmode.Client) error {
	go h.consumeSocketEvents(ctx, client)
	return client.RunContext(ctx)
}

func (h *SlackHandler) consumeSocketEvents(ctx context.Context, client *socketmode.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-client.Events:
			if !ok {
				return
			}
			h.handleSocketEvent(client, evt)
		}
	}
}

func (h *SlackHandler) handleSocketEvent(client *socketmode.Client, evt socketmode.Event) {
	log := logger.GetLogger()

	switch evt.Type {
	case socketmode.EventTypeConnecting:
		log.Info("connecting to slack")
	case socketmode.EventTypeConnected:
		log.Info("connected to slack")
	case socketmode.EventTypeConnectionError:
		log.Warn("slack connection error")

	case socketmode.EventTypeEventsAPI:
		event, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		client.Ack(*evt.Request)
		h.HandleEventsAPI(event)

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		client.Ack(*evt.Request)
		if err := h.Dispatch(h.classifier.SlashCommand(cmd)); err != nil {
			log.Error("failed to handle slash command", zap.Error(err))
		}

	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		// A view submission's ack is the only place a replacement view
		// can ride: an empty ack closes the modal, after which
		// views.update fails with not_found. The response is computed
		// synchronously by pure policy code, so the ack stays timely.
		if callback.Type == slack.InteractionTypeViewSubmission {
			response, err := h.DispatchViewSubmission(h.classifier.Interaction(callback))
			if response != nil {
				client.Ack(*evt.Request, response)
			} else {
				client.Ack(*evt.Request)
			}
			if err != nil {
				log.Error("failed to handle view submission", zap.Error(err))
			}
			return
		}
		client.Ack(*evt.Request)
		if err := h.Dispatch(h.classifier.Interaction(callback)); err != nil {
			log.Error("failed to handle interaction", zap.Error(err))
		}
	}
}
