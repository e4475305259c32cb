package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/8.8.8.8/json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "test-token" {
			t.Errorf("expected token query param, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ip": "8.8.8.8",
			"hostname": "dns.google",
			"city": "Mountain View",
			"region": "California",
			"country": "US",
			"loc": "37.4056,-122.0775",
			"org": "AS15169 Google LLC",
			"asn": {"asn": "AS15169", "name": "Google LLC", "type": "hosting"},
			"privacy": {"vpn": false, "proxy": false, "tor": false, "hosting": true}
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-token", time.Second)
	result, err := client.Fetch(context.Background(), "8.8.8.8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.IP != "8.8.8.8" || result.Country != "US" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ASN == nil || result.ASN.ASN != "AS15169" {
		t.Fatalf("expected asn block, got %+v", result.ASN)
	}
	if result.Privacy == nil || !result.Privacy.Hosting || result.Privacy.VPN {
		t.Fatalf("unexpected privacy block: %+v", result.Privacy)
	}
}

func TestHTTPClientFetchNoToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("expected no query, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"country": "US"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	result, err := client.Fetch(context.Background(), "8.8.8.8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IP != "8.8.8.8" {
		t.Fatalf("expected ip to be filled in, got %q", result.IP)
	}
}

func TestHTTPClientFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	result, err := client.Fetch(context.Background(), "8.8.8.8")
	if err == nil {
		t.Fatalf("expected error for non-2xx status")
	}
	if result != nil {
		t.Fatalf("expected nil result on failure, got %+v", result)
	}
}

func TestHTTPClientFetchBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	if _, err := client.Fetch(context.Background(), "8.8.8.8"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestHTTPClientFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewHTTPClient(server.URL, "", 100*time.Millisecond)
	result, err := client.Fetch(context.Background(), "8.8.8.8")
	if err == nil || result != nil {
		t.Fatalf("expected transport error, got %+v err=%v", result, err)
	}
}
