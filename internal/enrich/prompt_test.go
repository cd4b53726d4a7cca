package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRenderPrompt(t *testing.T) {
	prompt, err := renderPrompt(Input{
		Title:         "Fast Serving",
		Abstract:      "We serve models quickly.",
		FirstPageText: "1 Introduction text",
	})
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	for _, want := range []string{
		"Title: Fast Serving",
		"Abstract: We serve models quickly.",
		"First Page Content: 1 Introduction text",
		"tag1: <tag1>",
		"```mermaid",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestDeepSeekBackendComplete(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"tag1: mlsys"}}]}`))
	}))
	defer server.Close()

	oldURL := chatAPIURL
	chatAPIURL = server.URL
	defer func() { chatAPIURL = oldURL }()

	b := &DeepSeekBackend{APIKey: "test-key", Model: "deepseek-chat", Client: server.Client()}
	reply, err := b.Complete(context.Background(), Input{Title: "T", Abstract: "A"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "tag1: mlsys" {
		t.Errorf("reply = %q", reply)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "deepseek-chat" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("messages = %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" {
		t.Errorf("first message role = %q", gotReq.Messages[0].Role)
	}
	if gotReq.Messages[1].Role != "user" || !strings.Contains(gotReq.Messages[1].Content, "Title: T") {
		t.Errorf("user message = %+v", gotReq.Messages[1])
	}
	if gotReq.Stream {
		t.Error("stream should be false")
	}
}

func TestDeepSeekBackendCompleteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer server.Close()

	oldURL := chatAPIURL
	chatAPIURL = server.URL
	defer func() { chatAPIURL = oldURL }()

	b := &DeepSeekBackend{APIKey: "k", Model: "m", Client: server.Client()}
	_, err := b.Complete(context.Background(), Input{Title: "T"})
	if err == nil {
		t.Fatal("expected error on HTTP 500")
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("error = %v", err)
	}
}

type stubBackend struct {
	reply string
	err   error
}

func (s *stubBackend) Complete(ctx context.Context, in Input) (string, error) {
	return s.reply, s.err
}

func TestEnrichDegradesOnBackendError(t *testing.T) {
	wantErr := errors.New("model unavailable")
	e, err := Enrich(context.Background(), &stubBackend{err: wantErr}, Input{Title: "T"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
	if e.Tag1 != "" || e.Summary != "" {
		t.Errorf("expected zero enrichment, got %+v", e)
	}
}

func TestEnrichParsesReply(t *testing.T) {
	e, err := Enrich(context.Background(), &stubBackend{reply: "tag1: sys\nsummary: About storage."}, Input{})
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if e.Tag1 != "sys" || e.Summary != "About storage." {
		t.Errorf("enrichment = %+v", e)
	}
}
