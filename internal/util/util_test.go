package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewProxyFunc_Environment(t *testing.T) {
	fn := NewProxyFunc("", "", "")
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if _, err := fn(req); err != nil {
		t.Errorf("Expected no error from environment proxy, got %v", err)
	}
}

func TestNewProxyFunc_SchemeAndNoProxy(t *testing.T) {
	fn := NewProxyFunc("http://proxy.local:3128", "http://secure.local:3129", "internal.example.com")

	tests := []struct {
		rawURL string
		want   string
	}{
		{"http://api.example.com/x", "http://proxy.local:3128"},
		{"https://api.example.com/x", "http://secure.local:3129"},
		{"https://internal.example.com/x", ""},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, tt.rawURL, nil)
		got, err := fn(req)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.rawURL, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("%s: expected proxy %q, got %q", tt.rawURL, tt.want, gotStr)
		}
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(3*time.Second, "", "", "")
	if client.Timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %v", client.Timeout)
	}
	if _, ok := client.Transport.(*http.Transport); !ok {
		t.Errorf("Expected *http.Transport, got %T", client.Transport)
	}
}

func TestRobotsChecker_Allowed(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		hits++
		fmt.Fprint(w, "User-agent: piitier\nDisallow: /private/\n")
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "piitier/0.1")
	ctx := context.Background()

	allowed, err := checker.Allowed(ctx, server.URL+"/docs/kyc.pdf")
	if err != nil || !allowed {
		t.Errorf("Expected /docs allowed, got %v (err %v)", allowed, err)
	}

	allowed, err = checker.Allowed(ctx, server.URL+"/private/aadhaar.pdf")
	if err != nil || allowed {
		t.Errorf("Expected /private disallowed, got %v (err %v)", allowed, err)
	}

	if hits != 1 {
		t.Errorf("Expected robots.txt fetched once, got %d", hits)
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "piitier/0.1")
	allowed, err := checker.Allowed(context.Background(), server.URL+"/anything")
	if err != nil || !allowed {
		t.Errorf("Expected fetch allowed without robots.txt, got %v (err %v)", allowed, err)
	}
}

func TestProductToken(t *testing.T) {
	if got := productToken("piitier/0.1 (+https://example.com)"); got != "piitier" {
		t.Errorf("Expected piitier, got %s", got)
	}
}
