package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/northstar/dispatch-backend/internal/services"
	"github.com/northstar/dispatch-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// ShareHandler serves the driver view and share link rotation
type ShareHandler struct {
	share  *services.ShareService
	logger *logrus.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(share *services.ShareService, logger *logrus.Logger) *ShareHandler {
	return &ShareHandler{
		share:  share,
		logger: logger,
	}
}

// Handle serves /api/share?action=...
func (h *ShareHandler) Handle() gin.HandlerFunc {
	return dispatch(map[string]action{
		"getByToken": {methods: []string{http.MethodGet}, handle: h.GetByToken},
		"resend":     {methods: []string{http.MethodPost}, handle: h.Resend},
	})
}

// GetByToken handles GET /api/share?action=getByToken&token=
func (h *ShareHandler) GetByToken(c *gin.Context) {
	shared, err := h.share.GetByToken(c.Request.Context(), c.Query("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shared)
}

// Resend handles POST /api/share?action=resend&id=
func (h *ShareHandler) Resend(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	resp, err := h.share.Resend(c.Request.Context(), id, utils.RequestBaseURL(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"route_id":  id,
		"client_ip": utils.GetRealIP(c),
	}).Info("Share link rotated")

	c.JSON(http.StatusOK, resp)
}
