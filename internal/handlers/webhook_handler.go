package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jodtang/internal/bot"
	"jodtang/internal/line"
	"jodtang/internal/logger"
)

// WebhookHandler receives LINE webhook deliveries and feeds them to the
// dispatcher. Signature verification happens in middleware before this
// handler runs.
type WebhookHandler struct {
	dispatcher *bot.Dispatcher
	messenger  line.Messenger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(dispatcher *bot.Dispatcher, messenger line.Messenger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, messenger: messenger}
}

// Handle processes a webhook delivery
// @Summary     LINE webhook
// @Description Receive webhook events from the LINE platform
// @Tags        line
// @Accept      json
// @Produce     json
// @Success     200 {object} object "Acknowledged"
// @Failure     400 {object} ErrorResponse "Invalid payload"
// @Router      /line/webhook [post]
func (h *WebhookHandler) Handle(c *gin.Context) {
	var req line.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event request"})
		return
	}

	// Each event is independent; one bad event never blocks the rest, and
	// the platform gets a 200 regardless so it does not redeliver.
	for _, event := range req.Events {
		replies, err := h.dispatcher.HandleEvent(c.Request.Context(), event)
		if err != nil {
			logger.Get().Errorw("event handling failed",
				"error", err.Error(),
				"event_type", event.Type,
			)
			continue
		}
		if len(replies) == 0 || event.ReplyToken == "" {
			continue
		}
		if err := h.messenger.Reply(c.Request.Context(), event.ReplyToken, bot.RenderAll(replies)); err != nil {
			logger.Get().Errorw("reply failed",
				"error", err.Error(),
				"event_type", event.Type,
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
