package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/northstar/dispatch-backend/internal/config"
	"github.com/northstar/dispatch-backend/internal/database"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// testClock is a settable clock shared by the services under test
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	routes   *database.RouteRepository
	drivers  *database.DriverRepository
	routeSvc *RouteService
	driver   *DriverService
	share    *ShareService
	sweeper  *ExpirySweeper
	clock    *testClock
	countRow func(table string) int
}

var shareConfig = config.ShareConfig{
	PublicBaseURL: "https://dispatch.example.com",
	ViewerPath:    "/driver-view.html",
	TokenLength:   10,
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewConnection(config.DatabaseConfig{Driver: config.DriverSQLite, URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := newTestLogger()
	clock := &testClock{t: time.Date(2026, 10, 15, 13, 40, 0, 0, time.UTC)}

	routes := database.NewRouteRepository(db)
	drivers := database.NewDriverRepository(db)

	routeSvc := NewRouteService(routes, drivers, shareConfig, logger)
	routeSvc.now = clock.Now

	sweeper := NewExpirySweeper(routes, logger)
	sweeper.now = clock.Now

	return &testEnv{
		routes:   routes,
		drivers:  drivers,
		routeSvc: routeSvc,
		driver:   NewDriverService(drivers, logger),
		share:    NewShareService(routeSvc, routes, logger),
		sweeper:  sweeper,
		clock:    clock,
		countRow: func(table string) int {
			var n int
			require.NoError(t, db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM "+table))
			return n
		},
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }

// chicagoToDetroit is the one-vehicle route used across the service tests
func chicagoToDetroit() *models.CreateRouteRequest {
	return &models.CreateRouteRequest{
		Name:          "Chicago to Detroit Route",
		TotalDistance: floatPtr(282.4),
		TotalDuration: intPtr(285),
		TotalRevenue:  floatPtr(750),
		Orders: []models.OrderRequest{{
			VehicleModel: "2022 Honda Accord",
			Price:        floatPtr(750.00),
			Pickups: []models.StopLocation{{
				Address: "123 Main St, Chicago, IL",
				Lat:     floatPtr(41.8781),
				Lng:     floatPtr(-87.6298),
			}},
			Deliveries: []models.StopLocation{{
				Address: "456 Woodward Ave, Detroit, MI",
				Lat:     floatPtr(42.3314),
				Lng:     floatPtr(-83.0458),
			}},
		}},
	}
}

// createRoute persists req and fails the test on error
func (e *testEnv) createRoute(t *testing.T, req *models.CreateRouteRequest) *models.CreateRouteResponse {
	t.Helper()
	resp, err := e.routeSvc.Create(context.Background(), req, "http://localhost:8080")
	require.NoError(t, err)
	return resp
}
