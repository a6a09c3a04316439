package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/northstar/dispatch-backend/internal/config"
	"github.com/northstar/dispatch-backend/internal/database"
	"github.com/northstar/dispatch-backend/internal/middleware"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/northstar/dispatch-backend/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testCleanupKey = "test-cleanup-key"

type testServer struct {
	router *gin.Engine
	db     *sqlx.DB
	routes *database.RouteRepository
	logDir string
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupTestServer wires the API against an in-memory SQLite database.
// No public base URL is configured so share links use the request host.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewConnection(config.DatabaseConfig{Driver: config.DriverSQLite, URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := newTestLogger()
	routes := database.NewRouteRepository(db)
	drivers := database.NewDriverRepository(db)

	share := config.ShareConfig{ViewerPath: "/driver-view.html", TokenLength: 10}
	routeSvc := services.NewRouteService(routes, drivers, share, logger)
	logDir := t.TempDir()

	routeHandler := NewRouteHandler(routeSvc, services.NewRouteEstimator(logger), logger)
	driverHandler := NewDriverHandler(services.NewDriverService(drivers, logger), logger)
	shareHandler := NewShareHandler(services.NewShareService(routeSvc, routes, logger), logger)
	cleanupHandler := NewCleanupHandler(services.NewExpirySweeper(routes, logger), services.NewSweepLog(logDir), nil, logger)

	router := gin.New()
	router.GET("/health", HealthCheck(db, "test"))
	api := router.Group("/api")
	api.Any("/routes", routeHandler.Handle())
	api.Any("/drivers", driverHandler.Handle())
	api.Any("/share", shareHandler.Handle())
	cleanup := api.Group("/cleanup", middleware.CleanupKey(testCleanupKey, logger))
	cleanup.GET("", cleanupHandler.Run)
	cleanup.POST("", cleanupHandler.Run)
	cleanup.GET("/status", cleanupHandler.Status)

	return &testServer{router: router, db: db, routes: routes, logDir: logDir}
}

// do sends a request with an optional JSON body
func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// insertExpiredRoute stores a route whose expiration passed an hour ago
func (s *testServer) insertExpiredRoute(t *testing.T, name string) *models.Route {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	route := &models.Route{
		Name:          name,
		TotalDuration: 60,
		CreatedAt:     now.Add(-3 * time.Hour),
		ETA:           now.Add(-2 * time.Hour),
		Expiration:    now.Add(-time.Hour),
		ShareToken:    "expired" + name[:3],
	}
	_, err := s.routes.Create(context.Background(), route, nil)
	require.NoError(t, err)
	return route
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func sampleRoute(name string) models.CreateRouteRequest {
	return models.CreateRouteRequest{
		Name:          name,
		TotalDistance: floatPtr(282.4),
		TotalDuration: intPtr(285),
		TotalRevenue:  floatPtr(750),
		Orders: []models.OrderRequest{{
			VehicleModel: "2022 Honda Accord",
			Price:        floatPtr(750),
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

// createRoute posts a route and returns the create response
func (s *testServer) createRoute(t *testing.T, name string) models.CreateRouteResponse {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/routes?action=create", sampleRoute(name))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CreateRouteResponse
	decode(t, w, &resp)
	return resp
}
