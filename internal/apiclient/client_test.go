package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	creds := &MemoryCredentials{}
	creds.SetTokens("access-123", "refresh-456")
	client := New(srv.URL, creds, zap.NewNop())

	var out map[string]bool
	if err := client.Get(context.Background(), "/products", &out); err != nil {
		t.Fatalf("get: %v", err)
	}

	if gotAuth != "Bearer access-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if !out["ok"] {
		t.Error("response not decoded")
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(srv.URL, &MemoryCredentials{}, zap.NewNop())

	if err := client.Get(context.Background(), "/products", nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no authorization header, got %q", gotAuth)
	}
}

func TestRefreshAndRetryOnce(t *testing.T) {
	var productCalls, refreshCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		productCalls++
		if r.Header.Get("Authorization") != "Bearer fresh-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"name":"Widget"}`))
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["refreshToken"] != "old-refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  "fresh-access",
			"refreshToken": "fresh-refresh",
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &MemoryCredentials{}
	creds.SetTokens("stale-access", "old-refresh")
	client := New(srv.URL, creds, zap.NewNop())

	var out map[string]string
	if err := client.Get(context.Background(), "/products", &out); err != nil {
		t.Fatalf("get: %v", err)
	}

	if out["name"] != "Widget" {
		t.Errorf("unexpected payload: %v", out)
	}
	if productCalls != 2 {
		t.Errorf("expected exactly one retry (2 calls), got %d", productCalls)
	}
	if refreshCalls != 1 {
		t.Errorf("expected one refresh call, got %d", refreshCalls)
	}
	if creds.AccessToken() != "fresh-access" || creds.RefreshToken() != "fresh-refresh" {
		t.Error("stored credentials were not replaced")
	}
}

func TestRetryHappensAtMostOnce(t *testing.T) {
	var productCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		productCalls++
		// Still unauthorized after the refresh
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  "fresh-access",
			"refreshToken": "fresh-refresh",
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &MemoryCredentials{}
	creds.SetTokens("stale", "refresh")
	client := New(srv.URL, creds, zap.NewNop())

	err := client.Get(context.Background(), "/products", nil)
	if err == nil {
		t.Fatal("expected an error for the still-unauthorized response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected the 401 surfaced, got %v", err)
	}
	if productCalls != 2 {
		t.Errorf("expected exactly 2 calls (original + one retry), got %d", productCalls)
	}
}

func TestFailedRefreshClearsCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	expired := false
	creds := &MemoryCredentials{}
	creds.SetTokens("stale", "bad-refresh")
	client := New(srv.URL, creds, zap.NewNop(),
		WithAuthExpiredHandler(func() { expired = true }),
	)

	err := client.Get(context.Background(), "/products", nil)
	if err == nil {
		t.Fatal("expected an authorization expired error")
	}

	if creds.AccessToken() != "" || creds.RefreshToken() != "" {
		t.Error("expected credentials to be cleared after failed refresh")
	}
	if !expired {
		t.Error("expected the auth-expired handler to fire")
	}
}

func TestNoRefreshWithoutRefreshToken(t *testing.T) {
	var refreshCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &MemoryCredentials{}
	creds.SetTokens("stale", "")
	client := New(srv.URL, creds, zap.NewNop())

	err := client.Get(context.Background(), "/products", nil)
	if err == nil {
		t.Fatal("expected an error for the unauthorized response")
	}
	if refreshCalls != 0 {
		t.Errorf("expected no refresh attempt without a refresh token, got %d", refreshCalls)
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, &MemoryCredentials{}, zap.NewNop())

	var out map[string]string
	err := client.Post(context.Background(), "/products", map[string]string{"name": "Widget"}, &out)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if gotBody["name"] != "Widget" {
		t.Errorf("body not sent: %v", gotBody)
	}
	if out["id"] != "1" {
		t.Errorf("response not decoded: %v", out)
	}
}
