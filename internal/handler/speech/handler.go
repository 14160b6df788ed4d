package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/couchtalk/backend/internal/fault"
	"github.com/couchtalk/backend/pkg/utils"
)

// TurnPipeline covers the audio stages of a turn. Kept as an interface so
// handler tests can substitute a fake pipeline.
type TurnPipeline interface {
	Transcribe(ctx context.Context, personaID string, audio []byte, filename string) (string, error)
	Speak(ctx context.Context, personaID, text string) ([]byte, error)
}

// Handler serves the transcription and synthesis endpoints.
type Handler struct {
	pipeline TurnPipeline
}

// New creates the speech handler.
func New(pipeline TurnPipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

// RegisterRoutes registers the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/transcribe", h.handleTranscribe)
	r.Post("/speak", h.handleSpeak)
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio payload")
		return
	}

	personaID := strings.TrimSpace(r.FormValue("personaId"))
	if personaID == "" {
		utils.RespondError(w, http.StatusBadRequest, "personaId is required")
		return
	}

	transcript, err := h.pipeline.Transcribe(r.Context(), personaID, audio, header.Filename)
	if err != nil {
		respondPipelineError(w, err, "speech recognition failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"transcript": transcript})
}

func (h *Handler) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text      string `json:"text"`
		PersonaID string `json:"personaId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := h.pipeline.Speak(r.Context(), payload.PersonaID, payload.Text)
	if err != nil {
		respondPipelineError(w, err, "speech synthesis failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"audio": base64.StdEncoding.EncodeToString(audio),
	})
}

// respondPipelineError maps taxonomy errors to status codes. Client errors
// carry their own message; collaborator and configuration failures are
// logged in full and surfaced as a short status message.
func respondPipelineError(w http.ResponseWriter, err error, collaboratorMsg string) {
	status := fault.HTTPStatus(err)
	if status == http.StatusBadRequest {
		utils.RespondError(w, status, err.Error())
		return
	}

	log.Printf("[speech] %v", err)
	if errors.Is(err, fault.ErrNotConfigured) {
		utils.RespondError(w, status, "speech service is not configured")
		return
	}
	utils.RespondError(w, status, collaboratorMsg)
}
