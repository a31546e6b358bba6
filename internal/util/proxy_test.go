package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "http://secure.internal:3128", "claims.internal,.farm.test")

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"http uses http proxy", "http://applications.example.com/api", "http://proxy.internal:3128"},
		{"https uses https proxy", "https://applications.example.com/api", "http://secure.internal:3128"},
		{"no_proxy host", "http://claims.internal/api/claim", ""},
		{"no_proxy domain suffix", "https://events.farm.test/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.url, nil)
			if err != nil {
				t.Fatal(err)
			}
			got, err := proxy(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected direct connection, got %s", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("expected %s, got %v", tt.want, got)
			}
		})
	}
}

func TestNewProxyFuncHTTPSFallsBackToHTTPProxy(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "", "")
	req, _ := http.NewRequest(http.MethodGet, "https://claims.example.com/", nil)

	got, err := proxy(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Host != "proxy.internal:3128" {
		t.Errorf("expected proxy.internal:3128, got %v", got)
	}
}

func TestNewTransport(t *testing.T) {
	transport := NewTransport("http://proxy.internal:3128", "", "")
	if transport.Proxy == nil {
		t.Fatal("expected proxy func on transport")
	}
	if transport == http.DefaultTransport {
		t.Errorf("expected a cloned transport")
	}
}
