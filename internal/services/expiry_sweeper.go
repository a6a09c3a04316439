package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/northstar/dispatch-backend/internal/database"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ExpirySweeper deletes routes whose expiration has passed
type ExpirySweeper struct {
	routes *database.RouteRepository
	logger *logrus.Logger
	now    func() time.Time
}

// NewExpirySweeper creates a new ExpirySweeper
func NewExpirySweeper(routes *database.RouteRepository, logger *logrus.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		routes: routes,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep deletes every route with expiration at or before now, together with
// its orders and stops, in one transaction. Running it again with nothing
// newly expired deletes nothing.
func (s *ExpirySweeper) Sweep(ctx context.Context) (*models.SweepReport, error) {
	return s.run(ctx, false)
}

// DryRun reports what Sweep would delete without deleting it
func (s *ExpirySweeper) DryRun(ctx context.Context) (*models.SweepReport, error) {
	return s.run(ctx, true)
}

func (s *ExpirySweeper) run(ctx context.Context, dryRun bool) (*models.SweepReport, error) {
	startedAt := s.now().UTC().Truncate(time.Second)
	clock := time.Now()

	var (
		expired []models.ExpiredRoute
		err     error
	)
	if dryRun {
		expired, err = s.routes.FindExpired(ctx, startedAt)
	} else {
		expired, err = s.routes.DeleteExpired(ctx, startedAt)
	}
	if err != nil {
		s.logger.WithError(err).Error("Route cleanup failed")
		return nil, StorageError("Route cleanup failed", err)
	}

	report := &models.SweepReport{
		StartedAt: startedAt,
		Deleted:   expired,
		Elapsed:   time.Since(clock),
		DryRun:    dryRun,
	}

	s.logger.WithFields(logrus.Fields{
		"expired": report.Count(),
		"dry_run": dryRun,
		"elapsed": report.Elapsed,
	}).Info("Route cleanup completed")

	return report, nil
}

// SweepLog appends sweep reports to one text file per day
type SweepLog struct {
	dir string
}

// NewSweepLog creates a SweepLog writing under dir
func NewSweepLog(dir string) *SweepLog {
	return &SweepLog{dir: dir}
}

// Path is the log file for the day the report started
func (l *SweepLog) Path(report *models.SweepReport) string {
	return filepath.Join(l.dir, fmt.Sprintf("cleanup_%s.log", report.StartedAt.Format("2006-01-02")))
}

// Append writes the report text to its day's file, creating the directory
// and file as needed
func (l *SweepLog) Append(report *models.SweepReport) error {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cleanup log directory: %w", err)
	}

	f, err := os.OpenFile(l.Path(report), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open cleanup log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(report.String() + "\n"); err != nil {
		return fmt.Errorf("failed to write cleanup log: %w", err)
	}
	return nil
}
