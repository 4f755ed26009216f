package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/inventory_api/internal/utils"
)

// MessageRenderer renders the customer message for a sold seat.
type MessageRenderer interface {
	ForTransaction(ctx context.Context, id int) (string, error)
	ForAccountUser(ctx context.Context, id int) (string, error)
}

// MessageHandler exposes the rendered account messages.
type MessageHandler struct {
	messenger MessageRenderer
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(messenger MessageRenderer) *MessageHandler {
	return &MessageHandler{messenger: messenger}
}

// Transaction handles GET /transaction/:id/message
func (h *MessageHandler) Transaction(c *gin.Context) {
	h.render(c, h.messenger.ForTransaction)
}

// AccountUser handles GET /product-account-user/:id/message
func (h *MessageHandler) AccountUser(c *gin.Context) {
	h.render(c, h.messenger.ForAccountUser)
}

func (h *MessageHandler) render(c *gin.Context, fn func(context.Context, int) (string, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	msg, err := fn(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, http.StatusOK, msg)
}
