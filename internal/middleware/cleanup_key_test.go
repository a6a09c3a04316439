package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestCleanupKey(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		request    func() *http.Request
		wantStatus int
	}{
		{
			name:   "query key",
			secret: "s3cret",
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/cleanup?key=s3cret", nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "form key",
			secret: "s3cret",
			request: func() *http.Request {
				form := url.Values{"key": {"s3cret"}}
				req := httptest.NewRequest(http.MethodPost, "/api/cleanup", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "header key",
			secret: "s3cret",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/api/cleanup", nil)
				req.Header.Set(CleanupKeyHeader, "s3cret")
				return req
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "wrong key",
			secret: "s3cret",
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/cleanup?key=guess", nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "missing key",
			secret: "s3cret",
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/cleanup", nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "empty secret refuses everything",
			secret: "",
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/cleanup?key=", nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			router := setupTestRouter()
			router.Any("/api/cleanup", CleanupKey(tt.secret, logger), func(c *gin.Context) {
				c.String(http.StatusOK, "ran")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.request())

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			} else {
				assert.Equal(t, "ran", w.Body.String())
			}
		})
	}
}
