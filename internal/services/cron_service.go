package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// sweepTimeout bounds one scheduled cleanup run
const sweepTimeout = 5 * time.Minute

// CronService runs the expiry sweeper on a schedule inside the server
type CronService struct {
	cron     *cron.Cron
	sweeper  *ExpirySweeper
	sweepLog *SweepLog
	schedule string
	logger   *logrus.Logger
}

// NewCronService creates a new CronService. schedule is a standard 5-field
// cron spec or a descriptor such as "@hourly".
func NewCronService(sweeper *ExpirySweeper, sweepLog *SweepLog, schedule string, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:     cron.New(),
		sweeper:  sweeper,
		sweepLog: sweepLog,
		schedule: schedule,
		logger:   logger,
	}
}

// Start schedules the cleanup job and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.cleanupExpiredRoutesJob); err != nil {
		return fmt.Errorf("failed to schedule route cleanup job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// RunCleanupNow runs the cleanup job immediately
func (s *CronService) RunCleanupNow() {
	s.cleanupExpiredRoutesJob()
}

func (s *CronService) cleanupExpiredRoutesJob() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	report, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Route cleanup failed")
		return
	}

	if err := s.sweepLog.Append(report); err != nil {
		s.logger.WithError(err).Warn("[CRON] Failed to write cleanup log")
	}
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"schedule":  s.schedule,
		"jobs":      jobs,
	}
}
