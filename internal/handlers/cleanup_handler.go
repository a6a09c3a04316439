package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/northstar/dispatch-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// CleanupHandler runs the expiry sweeper on demand
type CleanupHandler struct {
	sweeper  *services.ExpirySweeper
	sweepLog *services.SweepLog
	cron     *services.CronService
	logger   *logrus.Logger
}

// NewCleanupHandler creates a new cleanup handler. cron may be nil when no
// schedule is configured.
func NewCleanupHandler(sweeper *services.ExpirySweeper, sweepLog *services.SweepLog, cron *services.CronService, logger *logrus.Logger) *CleanupHandler {
	return &CleanupHandler{
		sweeper:  sweeper,
		sweepLog: sweepLog,
		cron:     cron,
		logger:   logger,
	}
}

// Run handles GET|POST /api/cleanup. The caller is authorized by
// middleware.CleanupKey. The response is the plain text cleanup log.
func (h *CleanupHandler) Run(c *gin.Context) {
	report, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.sweepLog.Append(report); err != nil {
		h.logger.WithError(err).Warn("Failed to write cleanup log")
	}

	c.String(http.StatusOK, report.String())
}

// Status handles GET /api/cleanup/status
func (h *CleanupHandler) Status(c *gin.Context) {
	if h.cron == nil {
		c.JSON(http.StatusOK, gin.H{"running": false, "job_count": 0})
		return
	}
	c.JSON(http.StatusOK, h.cron.GetJobStatus())
}
