package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/northstar/dispatch-backend/internal/services"
	"github.com/northstar/dispatch-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// RouteHandler handles HTTP requests for routes
type RouteHandler struct {
	routes    *services.RouteService
	estimator *services.RouteEstimator
	logger    *logrus.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routes *services.RouteService, estimator *services.RouteEstimator, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{
		routes:    routes,
		estimator: estimator,
		logger:    logger,
	}
}

// Handle serves /api/routes?action=...
func (h *RouteHandler) Handle() gin.HandlerFunc {
	return dispatch(map[string]action{
		"create":   {methods: []string{http.MethodPost}, handle: h.Create},
		"get":      {methods: []string{http.MethodGet}, handle: h.Get},
		"list":     {methods: []string{http.MethodGet}, handle: h.List},
		"update":   {methods: []string{http.MethodPost, http.MethodPut}, handle: h.Update},
		"delete":   {methods: []string{http.MethodGet, http.MethodDelete}, handle: h.Delete},
		"estimate": {methods: []string{http.MethodPost}, handle: h.Estimate},
	})
}

// Create handles POST /api/routes?action=create
func (h *RouteHandler) Create(c *gin.Context) {
	var req models.CreateRouteRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.routes.Create(c.Request.Context(), &req, utils.RequestBaseURL(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/routes?action=get&id= or &token=
func (h *RouteHandler) Get(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	detail, err := h.routes.Get(c.Request.Context(), id, c.Query("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// List handles GET /api/routes?action=list
func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.routes.List(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// Update handles POST|PUT /api/routes?action=update
func (h *RouteHandler) Update(c *gin.Context) {
	var req models.UpdateRouteRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.routes.Update(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete handles GET|DELETE /api/routes?action=delete&id=
func (h *RouteHandler) Delete(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	resp, err := h.routes.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type estimateRequest struct {
	Orders []models.OrderRequest `json:"orders"`
}

// Estimate handles POST /api/routes?action=estimate. Nothing is stored.
func (h *RouteHandler) Estimate(c *gin.Context) {
	var req estimateRequest
	if !bindJSON(c, &req) {
		return
	}

	estimate, err := h.estimator.Estimate(req.Orders)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}
