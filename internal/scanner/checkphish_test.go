package scanner

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Submit_WireShapeAndJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/neo/scan" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if req["apiKey"] != "secret" || req["scanType"] != "full" {
			t.Fatalf("unexpected body: %s", body)
		}
		ui, _ := req["urlInfo"].(map[string]any)
		if ui["url"] != "https://sus.example.com" {
			t.Fatalf("unexpected urlInfo: %v", req["urlInfo"])
		}
		_, _ = w.Write([]byte(`{"jobID":"abc123","timestamp":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	jobID, err := c.Submit(context.Background(), "https://sus.example.com")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if jobID != "abc123" {
		t.Fatalf("jobID = %q", jobID)
	}
}

func TestClient_Submit_Errors(t *testing.T) {
	t.Run("missing job id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()
		c := NewClient(srv.URL, "k", time.Second)
		if _, err := c.Submit(context.Background(), "u"); err == nil || !strings.Contains(err.Error(), "no job id") {
			t.Fatalf("expected no-job-id error, got %v", err)
		}
	})

	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		c := NewClient(srv.URL, "k", time.Second)
		if _, err := c.Submit(context.Background(), "u"); err == nil || !strings.Contains(err.Error(), "401") {
			t.Fatalf("expected status error, got %v", err)
		}
	})
}

func TestClient_Status_CarriesRawPayload(t *testing.T) {
	raw := `{"status":"DONE","job_id":"j1","disposition":"phish","insights":"https://x"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/neo/scan/status" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(body, &req)
		if req["apiKey"] != "k" || req["jobID"] != "j1" || req["insights"] != true {
			t.Fatalf("unexpected body: %s", body)
		}
		_, _ = w.Write([]byte(raw))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	st, err := c.Status(context.Background(), "j1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Status != StatusDone || !st.Terminal() {
		t.Fatalf("status = %+v", st)
	}
	if string(st.Payload) != raw {
		t.Fatalf("payload must be verbatim: %s", st.Payload)
	}
}

func TestClient_Status_PendingNotTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"PENDING"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	st, err := c.Status(context.Background(), "j1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Terminal() {
		t.Fatalf("PENDING must not be terminal")
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(srv.URL, "k", 30*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Submit(ctx, "u"); err == nil {
		t.Fatalf("expected context deadline error")
	}
}
