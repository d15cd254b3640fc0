package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/auth"
	"foodtruck-pos/internal/businessday"
	"foodtruck-pos/internal/catalog"
	"foodtruck-pos/internal/dispatch"
	"foodtruck-pos/internal/logging"
	"foodtruck-pos/internal/models"
	"foodtruck-pos/internal/order"
	"foodtruck-pos/internal/queue"
	"foodtruck-pos/internal/sales"
	"foodtruck-pos/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Asker answers free-form questions about a truck.
type Asker interface {
	Ask(ctx context.Context, truckID uint, message string) (string, error)
}

// Handler carries everything the routes need. Assistant is nil when no
// Gemini key is configured.
type Handler struct {
	Log       logrus.FieldLogger
	DB        Pinger
	Users     UserStore
	Tokens    *auth.Issuer
	Catalog   *catalog.Catalog
	Business  *businessday.Service
	Orders    *order.Service
	Queue     *queue.Queue
	Sales     *sales.Service
	Sessions  *session.Registry
	Guard     *dispatch.Guard
	Assistant Asker
}

// respondError turns any error into the {"error", "kind"} notice.
func (h *Handler) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	entry := h.Log.WithError(err).WithFields(logrus.Fields{
		"kind":       kind.String(),
		"path":       c.FullPath(),
		"request_id": logging.RequestIDFrom(c),
	})
	if kind == apperr.KindBackend {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	c.JSON(kind.HTTPStatus(), gin.H{"error": apperr.Message(err), "kind": kind.String()})
}

// --- GET: /health ---
func (h *Handler) Health(c *gin.Context) {
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		h.Log.WithError(err).Error("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "online"})
}

func (h *Handler) badInput(c *gin.Context, message string) {
	h.respondError(c, apperr.Validation("%s", message))
}

// paramID reads a positive numeric path parameter.
func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return uint(id), nil
}

// action scopes a guarded action to one truck.
func action(name string, truckID uint) string {
	return fmt.Sprintf("%s:%d", name, truckID)
}

func idempotencyKey(c *gin.Context) string {
	return c.GetHeader("Idempotency-Key")
}
