package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/northstar/dispatch-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// DriverHandler handles HTTP requests for the driver directory
type DriverHandler struct {
	drivers *services.DriverService
	logger  *logrus.Logger
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(drivers *services.DriverService, logger *logrus.Logger) *DriverHandler {
	return &DriverHandler{
		drivers: drivers,
		logger:  logger,
	}
}

// Handle serves /api/drivers?action=...
func (h *DriverHandler) Handle() gin.HandlerFunc {
	return dispatch(map[string]action{
		"create": {methods: []string{http.MethodPost}, handle: h.Create},
		"get":    {methods: []string{http.MethodGet}, handle: h.Get},
		"list":   {methods: []string{http.MethodGet}, handle: h.List},
		"update": {methods: []string{http.MethodPost, http.MethodPut}, handle: h.Update},
		"delete": {methods: []string{http.MethodGet, http.MethodDelete}, handle: h.Delete},
	})
}

// Create handles POST /api/drivers?action=create
func (h *DriverHandler) Create(c *gin.Context) {
	var req models.CreateDriverRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.drivers.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/drivers?action=get&id=
func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	driver, err := h.drivers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// List handles GET /api/drivers?action=list
func (h *DriverHandler) List(c *gin.Context) {
	drivers, err := h.drivers.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

// Update handles POST|PUT /api/drivers?action=update
func (h *DriverHandler) Update(c *gin.Context) {
	var req models.UpdateDriverRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.drivers.Update(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete handles GET|DELETE /api/drivers?action=delete&id=
func (h *DriverHandler) Delete(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	resp, err := h.drivers.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
