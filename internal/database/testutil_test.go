package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/northstar/dispatch-backend/internal/config"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := NewConnection(config.DatabaseConfig{Driver: config.DriverSQLite, URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func int64Ptr(i int64) *int64 { return &i }

// newTestRoute builds a route created at createdAt with the given duration
func newTestRoute(name, token string, createdAt time.Time, durationMinutes int) *models.Route {
	times := models.ComputeRouteTimes(createdAt, durationMinutes)
	return &models.Route{
		Name:          name,
		TotalDistance: 280,
		TotalDuration: durationMinutes,
		TotalRevenue:  1500,
		CreatedAt:     times.CreatedAt,
		ETA:           times.ETA,
		Expiration:    times.Expiration,
		ShareToken:    token,
	}
}

// twoVehicleDrafts is a two-order itinerary; the second order has two pickups
func twoVehicleDrafts() []models.OrderDraft {
	first := models.OrderRequest{
		VehicleModel: "2022 Honda Accord",
		VehicleMake:  strPtr("Honda"),
		Price:        floatPtr(800),
		Pickups:      []models.StopLocation{{Address: "Chicago, IL", Lat: floatPtr(41.8781), Lng: floatPtr(-87.6298)}},
		Deliveries:   []models.StopLocation{{Address: "Detroit, MI", Lat: floatPtr(42.3314), Lng: floatPtr(-83.0458)}},
	}
	second := models.OrderRequest{
		VehicleModel: "Tesla Model 3",
		Price:        floatPtr(700),
		Pickups: []models.StopLocation{
			{Address: "Gary, IN"},
			{Address: "Kalamazoo, MI"},
		},
		Deliveries: []models.StopLocation{{Address: "Ann Arbor, MI"}},
	}
	return []models.OrderDraft{first.Draft(), second.Draft()}
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM "+table))
	return n
}
