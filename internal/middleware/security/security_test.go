package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct public peer", "203.0.113.7:5000", nil, "203.0.113.7"},
		{"public peer cannot spoof", "203.0.113.7:5000", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "203.0.113.7"},
		{"trusted proxy forwards", "10.0.0.2:5000", map[string]string{"X-Forwarded-For": "198.51.100.9, 10.0.0.2"}, "198.51.100.9"},
		{"trusted proxy real ip", "127.0.0.1:5000", map[string]string{"X-Real-IP": "198.51.100.10"}, "198.51.100.10"},
		{"garbage forwarded header", "192.168.1.1:80", map[string]string{"X-Forwarded-For": "not-an-ip"}, "192.168.1.1"},
		{"no port", "203.0.113.8", nil, "203.0.113.8"},
	}
	resolver := NewClientIPResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, resolver.ExtractClientIP(r))
		})
	}
}

func TestAddTrustedProxy(t *testing.T) {
	resolver := NewClientIPResolver()
	require.Error(t, resolver.AddTrustedProxy("nope"))
	require.NoError(t, resolver.AddTrustedProxy("203.0.113.0/24"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.1:1"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "198.51.100.1", resolver.ExtractClientIP(r))
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "https://cdn.jsdelivr.net")
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}

func TestCacheMiddlewares(t *testing.T) {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	StaticAssetMiddleware(3600)(noop).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	NoStoreMiddleware(noop).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report.pdf", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
