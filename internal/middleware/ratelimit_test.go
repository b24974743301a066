package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"remote addr with port", "192.0.2.10:54321", "", "192.0.2.10"},
		{"remote addr without port", "192.0.2.10", "", "192.0.2.10"},
		{"forwarded single hop", "10.0.0.1:80", "203.0.113.9", "203.0.113.9"},
		{"forwarded chain keeps first hop", "10.0.0.1:80", "203.0.113.9, 10.0.0.2, 10.0.0.3", "203.0.113.9"},
		{"forwarded with spaces", "10.0.0.1:80", "  203.0.113.9  ", "203.0.113.9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			assert.Equal(t, tc.want, clientIP(r))
		})
	}
}

func TestPerIPWithoutRedisFailsOpen(t *testing.T) {
	rl := NewRateLimit(nil)

	rec := httptest.NewRecorder()
	handler := rl.PerIP("auth", 10, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
