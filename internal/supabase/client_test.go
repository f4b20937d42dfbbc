package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, "test-anon-key", 5*time.Second)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, server
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", "key", 0); err == nil {
		t.Error("New() with empty URL returned nil error")
	}
	if _, err := New("https://abc.supabase.co", "", 0); err == nil {
		t.Error("New() with empty anon key returned nil error")
	}

	client, err := New("https://abc.supabase.co/", "key", 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.restURL != "https://abc.supabase.co/rest/v1" {
		t.Errorf("restURL = %q, want trailing slash trimmed", client.restURL)
	}
	if client.authURL != "https://abc.supabase.co/auth/v1" {
		t.Errorf("authURL = %q", client.authURL)
	}
}

func TestClient_SendsAPIKeyHeaders(t *testing.T) {
	var gotAPIKey, gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	var out []struct{}
	if err := client.From("projects").Select("*").ExecuteInto(context.Background(), &out); err != nil {
		t.Fatalf("ExecuteInto() error = %v", err)
	}

	if gotAPIKey != "test-anon-key" {
		t.Errorf("apikey header = %q, want test-anon-key", gotAPIKey)
	}
	if gotAuth != "Bearer test-anon-key" {
		t.Errorf("Authorization header = %q, want anon key bearer", gotAuth)
	}
}

func TestClient_UserTokenOverridesAnonBearer(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":"u1","email":"user@example.com"}`))
	})

	if _, err := client.GetUser(context.Background(), "user-access-token"); err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}

	if gotAuth != "Bearer user-access-token" {
		t.Errorf("Authorization header = %q, want user token bearer", gotAuth)
	}
}
