package handlers

import (
	"net/http"

	"foodtruck-pos/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badInput(c, "Message is required")
		return
	}

	// 1. The assistant only exists when GEMINI_API_KEY is set
	if h.Assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The assistant is not configured", "kind": "unavailable"})
		return
	}

	// 2. Run the assistant for this truck
	reply, err := h.Assistant.Ask(c.Request.Context(), middleware.TruckID(c), req.Message)
	if err != nil {
		h.Log.WithError(err).Error("assistant failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "The assistant could not answer right now", "kind": "backend"})
		return
	}

	// 3. Return the Answer
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
