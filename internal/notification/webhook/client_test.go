package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeliver(t *testing.T) {
	var gotBody []byte
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")
	event := []byte(`{"kind":"event_signup_created","memberId":"m1"}`)
	if err := client.Deliver(context.Background(), event); err != nil {
		t.Fatalf("Deliver() err = %v, want nil", err)
	}
	if string(gotBody) != string(event) {
		t.Errorf("delivered body = %s, want original event", gotBody)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestDeliverRejectsInvalidJSON(t *testing.T) {
	client := NewClient("http://localhost:0", "")
	if err := client.Deliver(context.Background(), []byte("{broken")); err == nil {
		t.Error("Deliver() err = nil, want error for invalid JSON")
	}
}

func TestDeliverFailsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	if err := client.Deliver(context.Background(), []byte(`{}`)); err == nil {
		t.Error("Deliver() err = nil, want error for 502")
	}
}

func TestDeliverRequiresURL(t *testing.T) {
	client := NewClient("", "")
	if err := client.Deliver(context.Background(), []byte(`{}`)); err == nil {
		t.Error("Deliver() err = nil, want error for empty URL")
	}
}
