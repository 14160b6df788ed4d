package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/couchtalk/backend/internal/fault"
	"github.com/couchtalk/backend/internal/model/conversation"
	"github.com/couchtalk/backend/pkg/utils"
)

// TurnPipeline covers the text stages of a turn plus conversation state
// access. Kept as an interface so handler tests can substitute a fake.
type TurnPipeline interface {
	Respond(ctx context.Context, personaID, userMessage string) (string, error)
	Reset(ctx context.Context, personaID string) error
	History(ctx context.Context, personaID string) ([]conversation.Message, error)
}

// Handler serves the reply, reset and history endpoints.
type Handler struct {
	pipeline TurnPipeline
}

// New creates the conversation handler.
func New(pipeline TurnPipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

// RegisterRoutes registers the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/respond", h.handleRespond)
	r.Post("/reset", h.handleReset)
	r.Get("/history/{personaID}", h.handleHistory)
}

func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserMessage string `json:"userMessage"`
		PersonaID   string `json:"personaId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.UserMessage) == "" {
		utils.RespondError(w, http.StatusBadRequest, "userMessage is required")
		return
	}

	reply, err := h.pipeline.Respond(r.Context(), payload.PersonaID, payload.UserMessage)
	if err != nil {
		respondPipelineError(w, err, "reply generation failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonaID string `json:"personaId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.pipeline.Reset(r.Context(), payload.PersonaID); err != nil {
		respondPipelineError(w, err, "reset failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	personaID := chi.URLParam(r, "personaID")

	messages, err := h.pipeline.History(r.Context(), personaID)
	if err != nil {
		respondPipelineError(w, err, "failed to load history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

func respondPipelineError(w http.ResponseWriter, err error, collaboratorMsg string) {
	status := fault.HTTPStatus(err)
	if status == http.StatusBadRequest {
		utils.RespondError(w, status, err.Error())
		return
	}

	log.Printf("[conversation] %v", err)
	if errors.Is(err, fault.ErrNotConfigured) {
		utils.RespondError(w, status, "ai service is not configured")
		return
	}
	utils.RespondError(w, status, collaboratorMsg)
}
