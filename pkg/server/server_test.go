package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/directives"
	"github.com/dotsetgreg/leadpilot/pkg/engine"
	"github.com/dotsetgreg/leadpilot/pkg/normalize"
	"github.com/dotsetgreg/leadpilot/pkg/profile"
	"github.com/dotsetgreg/leadpilot/pkg/providers"
	"github.com/dotsetgreg/leadpilot/pkg/signals"
)

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) Chat(_ context.Context, _ []providers.Message, _ string, _ map[string]interface{}) (*providers.LLMResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &providers.LLMResponse{Content: s.reply}, nil
}

func (s *stubProvider) GetDefaultModel() string { return "test-model" }

type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, _ string) (collab.Classification, error) {
	return collab.Classification{Sentiment: "neutral", Engagement: 50, Urgency: "low"}, nil
}

func newTestServer(t *testing.T, provider providers.LLMProvider) (*httptest.Server, *profile.Store) {
	t.Helper()
	store := profile.NewStore(profile.StoreOptions{})
	eng := engine.New(store,
		normalize.NewNormalizer(nil, nil, nil),
		signals.NewExtractor(stubClassifier{}),
		nil, nil, provider,
		directives.NewDispatcher(nil, nil, nil),
		engine.Options{Model: "test-model"})

	srv := New("127.0.0.1", 0, eng, store)
	ts := httptest.NewServer(srv.http.Handler)
	t.Cleanup(ts.Close)
	return ts, store
}

func postChat(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/chat", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandleChat_Success(t *testing.T) {
	ts, _ := newTestServer(t, &stubProvider{reply: "Happy to help!"})

	resp := postChat(t, ts, `{"messages":[{"role":"user","content":"Hi"}],"sessionId":"s1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body engine.TurnResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Reply != "Happy to help!" || body.SessionID != "s1" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestHandleChat_InvalidJSON(t *testing.T) {
	ts, _ := newTestServer(t, &stubProvider{reply: "ok"})

	resp := postChat(t, ts, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleChat_EmptyMessages(t *testing.T) {
	ts, _ := newTestServer(t, &stubProvider{reply: "ok"})

	resp := postChat(t, ts, `{"messages":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleChat_ModelFailureReturnsFallbackWithErrorField(t *testing.T) {
	ts, _ := newTestServer(t, &stubProvider{err: fmt.Errorf("rate limited")})

	resp := postChat(t, ts, `{"messages":[{"role":"user","content":"Hi"}],"sessionId":"s1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with fallback, got %d", resp.StatusCode)
	}

	var body struct {
		Reply string `json:"reply"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "assistant temporarily unavailable" {
		t.Fatalf("expected error field, got %+v", body)
	}
	if body.Reply == "" {
		t.Fatal("expected fallback reply")
	}
}

func TestHandleHealth(t *testing.T) {
	ts, store := newTestServer(t, &stubProvider{reply: "ok"})
	store.Upsert("s1", profile.NewClientProfile("s1"))

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Sessions != 1 {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestHandleChat_MethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t, &stubProvider{reply: "ok"})

	resp, err := http.Get(ts.URL + "/api/chat")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
