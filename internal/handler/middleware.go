package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"slack_helper/internal/logger"
)

// HandleSlackRetry is a middleware that handles Slack retry requests.
// Slack redelivers events it considers unacknowledged; we already
// processed the original delivery, so retries are answered and skipped.
func HandleSlackRetry() gin.HandlerFunc {
	return func(c *gin.Context) {
		retryNum := c.GetHeader("X-Slack-Retry-Num")
		retryReason := c.GetHeader("X-Slack-Retry-Reason")

		if retryNum != "" {
			logger.GetLogger().Info("slack retry request",
				zap.String("retry_num", retryNum),
				zap.String("retry_reason", retryReason))
			c.String(http.StatusOK, "ok (retry skipped)")
			c.Abort()
			return
		}
		c.Next()
	}
}

// VerifySlackSignature checks the request signature when a signing
// secret is configured. With no secret the check is skipped, matching
// a socket-mode-only deployment.
func VerifySlackSignature(signingSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if signingSecret == "" {
			c.Next()
			return
		}

		body, err := c.GetRawData()
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		// Reattach the body for downstream handlers.
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		verifier, err := slack.NewSecretsVerifier(c.Request.Header, signingSecret)
		if err != nil {
			logger.GetLogger().Warn("rejected request with invalid signature headers", zap.Error(err))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if _, err := verifier.Write(body); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if err := verifier.Ensure(); err != nil {
			logger.GetLogger().Warn("rejected request with bad signature", zap.Error(err))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
