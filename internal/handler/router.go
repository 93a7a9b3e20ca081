package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slack_helper/internal/logger"
)

// Router builds the HTTP surface: the Slack events endpoint and a
// health check. Signature verification applies only when a signing
// secret is configured.
func Router(h *SlackHandler, signingSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinLogMiddleware())

	slackGroup := r.Group("/slack")
	slackGroup.Use(VerifySlackSignature(signingSecret))
	slackGroup.Use(HandleSlackRetry())
	slackGroup.POST("/events", h.HandleRequest)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
