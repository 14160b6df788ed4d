package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/couchtalk/backend/internal/model/conversation"
	"github.com/couchtalk/backend/internal/model/persona"
	conversationservice "github.com/couchtalk/backend/internal/service/conversation"
	"github.com/couchtalk/backend/internal/service/pipeline"
)

type fakeTranscriber struct{ text string }

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, nil
}

type fakeGenerator struct{ reply string }

func (f *fakeGenerator) GenerateReply(_ context.Context, _ *persona.Persona, _ []conversation.Message, _ string) (string, error) {
	return f.reply, nil
}

type fakeSynthesizer struct{ audio []byte }

func (f *fakeSynthesizer) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	return f.audio, nil
}

func setupServer(t *testing.T) (http.Handler, *conversationservice.Service) {
	t.Helper()
	store := persona.NewMemoryStore(persona.Seed())
	conversations := conversationservice.NewService()
	pipe := pipeline.NewService(
		store,
		conversations,
		&fakeTranscriber{text: "Hello there"},
		&fakeGenerator{reply: "How you doin'?"},
		&fakeSynthesizer{audio: []byte("mp3-bytes")},
	)
	return NewRouter(store, pipe, nil), conversations
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHealth(t *testing.T) {
	r, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestListPersonasExposesPublicFieldsOnly(t *testing.T) {
	r, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/personas", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var personas []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &personas); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(personas) == 0 {
		t.Fatal("expected a non-empty roster")
	}
	first := personas[0]
	for _, key := range []string{"id", "name", "source", "greeting"} {
		if _, ok := first[key]; !ok {
			t.Fatalf("missing %q in persona listing", key)
		}
	}
	if _, ok := first["instruction"]; ok {
		t.Fatal("instruction must not be exposed to clients")
	}
}

func TestFullTurnScenario(t *testing.T) {
	r, conversations := setupServer(t)
	ctx := context.Background()

	// Stage 1: transcribe.
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("audio", "recording.webm")
	_, _ = part.Write([]byte("audio-bytes"))
	_ = writer.WriteField("personaId", "joey")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("transcribe: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var transcribeBody map[string]string
	_ = json.Unmarshal(resp.Body.Bytes(), &transcribeBody)
	if transcribeBody["transcript"] != "Hello there" {
		t.Fatalf("unexpected transcript: %q", transcribeBody["transcript"])
	}

	// Stage 2: respond.
	resp = postJSON(r, "/api/respond", map[string]string{"userMessage": "Hello there", "personaId": "joey"})
	if resp.Code != http.StatusOK {
		t.Fatalf("respond: expected 200, got %d", resp.Code)
	}
	var respondBody map[string]string
	_ = json.Unmarshal(resp.Body.Bytes(), &respondBody)
	if respondBody["response"] == "" {
		t.Fatal("expected a non-empty response")
	}

	got := conversations.Snapshot(ctx, "joey")
	if len(got) != 2 {
		t.Fatalf("expected [user, assistant] in store, got %d messages", len(got))
	}
	if got[0].Role != conversation.RoleUser || got[0].Text != "Hello there" {
		t.Fatalf("unexpected user message: %+v", got[0])
	}
	if got[1].Role != conversation.RoleAssistant || got[1].Text != respondBody["response"] {
		t.Fatalf("unexpected assistant message: %+v", got[1])
	}

	// Stage 3: speak.
	resp = postJSON(r, "/api/speak", map[string]string{"text": respondBody["response"], "personaId": "joey"})
	if resp.Code != http.StatusOK {
		t.Fatalf("speak: expected 200, got %d", resp.Code)
	}
	var speakBody map[string]string
	_ = json.Unmarshal(resp.Body.Bytes(), &speakBody)
	if speakBody["audio"] == "" {
		t.Fatal("expected non-empty base64 audio")
	}

	// Reset leaves the log empty.
	resp = postJSON(r, "/api/reset", map[string]string{"personaId": "joey"})
	if resp.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", resp.Code)
	}
	if len(conversations.Snapshot(ctx, "joey")) != 0 {
		t.Fatal("expected empty log after reset")
	}
}

func TestRespondUnknownPersonaDoesNotMutateStore(t *testing.T) {
	r, conversations := setupServer(t)

	resp := postJSON(r, "/api/respond", map[string]string{"userMessage": "hi", "personaId": "unknown"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(conversations.Snapshot(context.Background(), "unknown")) != 0 {
		t.Fatal("store must not be mutated for an unknown persona")
	}
}
