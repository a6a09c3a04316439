package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext(headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "http://dispatch.local:8080/api/routes", nil)
	c.Request.RemoteAddr = "203.0.113.9:51000"
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"x-real-ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"forwarded first valid", map[string]string{"X-Forwarded-For": "bogus, 198.51.100.7, 10.0.0.1"}, "198.51.100.7"},
		{"remote addr", nil, "203.0.113.9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetRealIP(newTestContext(tc.headers)))
		})
	}
}

func TestRequestBaseURL(t *testing.T) {
	assert.Equal(t, "http://dispatch.local:8080", RequestBaseURL(newTestContext(nil)))

	proxied := newTestContext(map[string]string{
		"X-Forwarded-Proto": "https",
		"X-Forwarded-Host":  "dispatch.example.com",
	})
	assert.Equal(t, "https://dispatch.example.com", RequestBaseURL(proxied))
}

func TestGetUserAgent(t *testing.T) {
	c := newTestContext(nil)
	c.Request.Header.Del("User-Agent")
	assert.Equal(t, "Unknown", GetUserAgent(c))

	c.Request.Header.Set("User-Agent", "curl/8.4.0")
	assert.Equal(t, "curl/8.4.0", GetUserAgent(c))
}

func TestParseUserAgent(t *testing.T) {
	unknown := ParseUserAgent("")
	assert.Equal(t, "unknown", unknown.DeviceType)

	iphone := ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Equal(t, "mobile", iphone.DeviceType)
	assert.False(t, iphone.IsBot)

	bot := ParseUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	assert.True(t, bot.IsBot)
}
