package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExchangeSessionSendsSessionHeader(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Session-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"maria@example.com","name":"María","picture":"","session_token":"tok_abc"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	data, err := client.ExchangeSession(context.Background(), "sess_123")
	if err != nil {
		t.Fatalf("ExchangeSession: %v", err)
	}
	if gotHeader != "sess_123" {
		t.Fatalf("X-Session-ID = %q", gotHeader)
	}
	if data.Email != "maria@example.com" || data.SessionToken != "tok_abc" {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestExchangeSessionRejectsEmptySessionID(t *testing.T) {
	client, err := NewClient("https://auth.example.com", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.ExchangeSession(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for blank session id")
	}
}

func TestExchangeSessionNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, time.Second)
	if _, err := client.ExchangeSession(context.Background(), "sess_123"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestExchangeSessionMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email":"a@b.com","name":"A"}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, time.Second)
	if _, err := client.ExchangeSession(context.Background(), "sess_123"); err == nil {
		t.Fatalf("expected error for missing session token")
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("   ", time.Second); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
