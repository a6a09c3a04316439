package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpirySweeper_NothingExpired(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createRoute(t, chicagoToDetroit())

	for run := 0; run < 2; run++ {
		report, err := env.sweeper.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Count())
		assert.Contains(t, report.String(), "No expired routes found")
		assert.Equal(t, 1, env.countRow("routes"))
		assert.Equal(t, 2, env.countRow("stops"))
	}
}

func TestExpirySweeper_DeletesExpiredRoutes(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	short := chicagoToDetroit()
	short.Name = "Short Hop"
	short.TotalDuration = intPtr(30)
	shortResp := env.createRoute(t, short)

	long := env.createRoute(t, chicagoToDetroit())

	// Short Hop expires at +60 minutes, exactly now after advancing
	env.clock.Advance(60 * time.Minute)

	dry, err := env.sweeper.DryRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dry.Count())
	assert.True(t, dry.DryRun)
	assert.Contains(t, dry.String(), "Routes that would be deleted:")
	assert.Equal(t, 2, env.countRow("routes"))

	report, err := env.sweeper.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Count())
	assert.Equal(t, shortResp.RouteID, report.Deleted[0].ID)
	assert.Equal(t, "Short Hop", report.Deleted[0].Name)

	text := report.String()
	assert.Contains(t, text, "Route cleanup started at 2026-10-15 14:40:00")
	assert.Contains(t, text, "Found 1 expired routes")
	assert.Contains(t, text, "Deleted routes:")
	assert.Contains(t, text, "- ID: 1, Name: Short Hop, Expired: 2026-10-15 14:40:00")
	assert.Contains(t, text, "Cleanup completed in")

	assert.Equal(t, 1, env.countRow("routes"))
	assert.Equal(t, 1, env.countRow("orders"))
	assert.Equal(t, 2, env.countRow("stops"))

	_, err = env.routeSvc.Get(ctx, long.RouteID, "")
	assert.NoError(t, err)

	again, err := env.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Count())
}

func TestSweepLog_Append(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	sweepLog := NewSweepLog(dir)

	report := &models.SweepReport{
		StartedAt: time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC),
		Deleted: []models.ExpiredRoute{
			{ID: 4, Name: "Chicago to Detroit Route", Expiration: time.Date(2026, 10, 15, 23, 10, 0, 0, time.UTC)},
		},
		Elapsed: 4200 * time.Microsecond,
	}

	require.NoError(t, sweepLog.Append(report))
	require.NoError(t, sweepLog.Append(&models.SweepReport{StartedAt: report.StartedAt.Add(time.Hour)}))

	path := filepath.Join(dir, "cleanup_2026-10-16.log")
	assert.Equal(t, path, sweepLog.Path(report))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(content)
	assert.Equal(t, 2, strings.Count(text, "Route cleanup started at"))
	assert.Contains(t, text, "- ID: 4, Name: Chicago to Detroit Route, Expired: 2026-10-15 23:10:00\n")
	assert.Contains(t, text, "Cleanup completed in 0.0042 seconds\n")
	assert.Contains(t, text, "No expired routes found\n")
}
