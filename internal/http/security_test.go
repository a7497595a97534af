package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct", "203.0.113.9:5555", nil, "203.0.113.9"},
		{"untrusted proxy header ignored", "203.0.113.9:5555", map[string]string{"X-Forwarded-For": "198.51.100.1"}, "203.0.113.9"},
		{"trusted proxy forwarded for", "10.0.0.2:80", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"}, "198.51.100.1"},
		{"trusted proxy real ip", "127.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"trusted proxy bad header", "127.0.0.1:80", map[string]string{"X-Forwarded-For": "not-an-ip"}, "127.0.0.1"},
		{"ipv6 loopback proxy", "[::1]:80", map[string]string{"X-Forwarded-For": "2001:db8::1"}, "2001:db8::1"},
		{"no port", "203.0.113.9", nil, "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScreenRequest(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		headers map[string]string
		want    string
	}{
		{"plain listing", http.MethodGet, "/expenses?category=Food", nil, ""},
		{"dotenv path", http.MethodGet, "/.env", nil, reasonPath},
		{"injection in query", http.MethodGet, "/expenses?category=x%27%20UNION%20SELECT", nil, reasonQuery},
		{"scanner agent", http.MethodGet, "/expenses", map[string]string{"User-Agent": "sqlmap/1.7"}, reasonUserAgent},
		{"trace method", http.MethodTrace, "/expenses", nil, reasonMethod},
		{"long url", http.MethodGet, "/expenses?q=" + strings.Repeat("a", maxURLLength), nil, reasonLongURL},
		{"forward chain", http.MethodGet, "/expenses", map[string]string{"X-Forwarded-For": "1.1.1.1,2.2.2.2,3.3.3.3,4.4.4.4,5.5.5.5,6.6.6.6,7.7.7.7"}, reasonForwardChain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := screenRequest(r); got != tt.want {
				t.Errorf("screenRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}
