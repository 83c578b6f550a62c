package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "cloudflare header wins",
			headers:    map[string]string{"CF-Connecting-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"},
			remoteAddr: "10.0.0.1:1234",
			want:       "1.2.3.4",
		},
		{
			name:       "first valid forwarded hop",
			headers:    map[string]string{"X-Forwarded-For": "garbage, 9.9.9.9, 8.8.8.8"},
			remoteAddr: "10.0.0.1:1234",
			want:       "9.9.9.9",
		},
		{
			name:       "invalid header falls through to remote addr",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			remoteAddr: "192.168.1.10:5555",
			want:       "192.168.1.10",
		},
		{
			name:       "ipv6 remote addr normalized",
			remoteAddr: "[2001:db8:0:0:0:0:0:1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "172.16.0.5",
			want:       "172.16.0.5",
		},
		{
			name:       "nothing usable",
			remoteAddr: "",
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()

	t.Run("without proxy headers ignores spoofed header", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "203.0.113.7:80"
		r.Header.Set("X-Forwarded-For", "1.1.1.1")

		ip, ok := clientip.New(clientip.WithoutProxyHeaders()).Resolve(r)
		assert.True(t, ok)
		assert.Equal(t, "203.0.113.7", ip)
	})

	t.Run("custom header list", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "203.0.113.7:80"
		r.Header.Set("CF-Connecting-IP", "1.1.1.1")
		r.Header.Set("X-Client-IP", "2.2.2.2")

		ip, ok := clientip.New(clientip.WithHeaders("X-Client-IP")).Resolve(r)
		assert.True(t, ok)
		assert.Equal(t, "2.2.2.2", ip)
	})

	t.Run("reports absence", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "unix-socket"

		ip, ok := clientip.New().Resolve(r)
		assert.False(t, ok)
		assert.Empty(t, ip)
	})
}
