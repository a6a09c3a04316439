package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	return router
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	router := setupTestRouter(RequestLogger(logger))
	router.GET("/api/routes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"routes": []string{}})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/routes?action=list", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	requestID := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, requestID, entry.Data["request_id"])
	assert.Equal(t, "list", entry.Data["action"])
	assert.Equal(t, "desktop", entry.Data["device"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestRequestLogger_ReusesIncomingRequestID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	router := setupTestRouter(RequestLogger(logger))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
	assert.Equal(t, incoming, hook.LastEntry().Data["request_id"])
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  logrus.Level
	}{
		{"success", http.StatusOK, logrus.InfoLevel},
		{"client error", http.StatusNotFound, logrus.WarnLevel},
		{"server error", http.StatusInternalServerError, logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			router := setupTestRouter(RequestLogger(logger))
			router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, tt.level, hook.LastEntry().Level)
		})
	}
}
