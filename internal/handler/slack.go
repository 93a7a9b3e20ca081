package handler

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"slack_helper/internal/logger"
)

// HandleRequest serves the Slack events API endpoint. Slack only wants
// a timely 200; processing failures are logged and reported in the body
// but never as an error status that would trigger redelivery.
func (h *SlackHandler) HandleRequest(c *gin.Context) {
	log := logger.GetLogger()

	// Read request body
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		log.Error("empty request body")
		c.JSON(200, gin.H{"error": "empty request body"})
		return
	}

	// Parse the Slack event
	eventsAPIEvent, err := slackevents.ParseEvent(
		json.RawMessage(body),
		slackevents.OptionNoVerifyToken(),
	)
	if err != nil {
		log.Error("failed to parse slack event", zap.Error(err))
		c.JSON(200, gin.H{"error": "failed to parse slack event"})
		return
	}

	// Handle URL verification challenge
	if eventsAPIEvent.Type == slackevents.URLVerification {
		var challenge *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			log.Error("failed to unmarshal challenge", zap.Error(err))
			c.JSON(400, gin.H{"error": "failed to parse challenge"})
			return
		}
		c.Header("Content-Type", "text/plain")
		c.String(200, challenge.Challenge)
		return
	}

	// Handle event callbacks
	if eventsAPIEvent.Type == slackevents.CallbackEvent {
		h.HandleEventsAPI(eventsAPIEvent)
	}

	// Return success response
	c.JSON(200, gin.H{"status": "ok"})
}

// HandleEventsAPI dispatches one events API callback through the
// classifier. Unsupported inner event types are dropped.
func (h *SlackHandler) HandleEventsAPI(event slackevents.EventsAPIEvent) {
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		if err := h.Dispatch(h.classifier.Message(ev)); err != nil {
			logger.GetLogger().Error("failed to handle message event", zap.Error(err))
		}
	case *slackevents.AppMentionEvent:
		if err := h.Dispatch(h.classifier.Mention(ev)); err != nil {
			logger.GetLogger().Error("failed to handle app mention event", zap.Error(err))
		}
	default:
		logger.GetLogger().Warn("unsupported event type",
			zap.String("event_type", fmt.Sprintf("%T", event.InnerEvent.Data)))
	}
}
