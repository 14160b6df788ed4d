// Package pipeline sequences the three collaborator stages of one user turn
// (transcribe, generate, synthesize) and commits conversation state on the
// success boundary of each stage. The pipeline performs no retries; a stage
// failure surfaces immediately as a typed error and the caller decides.
package pipeline

import (
	"context"
	"encoding/base64"
	"log"
	"strings"

	"github.com/couchtalk/backend/internal/fault"
	"github.com/couchtalk/backend/internal/model/conversation"
	"github.com/couchtalk/backend/internal/model/persona"
	conversationsvc "github.com/couchtalk/backend/internal/service/conversation"
)

// Transcriber converts an audio payload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Generator produces a persona reply from the prior history and the new
// user message.
type Generator interface {
	GenerateReply(ctx context.Context, p *persona.Persona, history []conversation.Message, userMessage string) (string, error)
}

// Synthesizer renders reply text as audio in the persona's voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Service orchestrates one turn across the three collaborators and the
// conversation store.
type Service struct {
	personas      persona.Store
	conversations *conversationsvc.Service
	transcriber   Transcriber
	generator     Generator
	synthesizer   Synthesizer
}

// NewService wires the pipeline. Collaborator dependencies may be nil when
// the credential is absent; the corresponding stage then fails with a
// configuration error instead of attempting a call.
func NewService(personas persona.Store, conversations *conversationsvc.Service, transcriber Transcriber, generator Generator, synthesizer Synthesizer) *Service {
	return &Service{
		personas:      personas,
		conversations: conversations,
		transcriber:   transcriber,
		generator:     generator,
		synthesizer:   synthesizer,
	}
}

// Transcribe runs the first stage. On success the user message is committed
// to the persona's log immediately, so the utterance survives a later
// generation or synthesis failure.
func (s *Service) Transcribe(ctx context.Context, personaID string, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", fault.ErrInvalidInput
	}
	if _, err := s.resolvePersona(personaID); err != nil {
		return "", err
	}
	if s.transcriber == nil {
		return "", fault.ErrNotConfigured
	}

	text, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return "", fault.NewStageError(fault.StageTranscribe, err)
	}

	if err := s.conversations.Append(ctx, personaID, conversation.Message{
		Role: conversation.RoleUser,
		Text: text,
	}); err != nil {
		log.Printf("[pipeline] failed to commit user message: %v", err)
	}

	return text, nil
}

// Respond runs the second stage. The generation context is the persona
// instruction, the prior history in order, then the new user message. A
// trailing user message already committed by Transcribe is not duplicated.
// On success the user message (unless already committed) and the reply are
// appended in that order; on failure a committed user message is retained so
// the caller can retry generation against the stored transcript.
func (s *Service) Respond(ctx context.Context, personaID, userMessage string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", fault.ErrInvalidInput
	}
	p, err := s.resolvePersona(personaID)
	if err != nil {
		return "", err
	}
	if s.generator == nil {
		return "", fault.ErrNotConfigured
	}

	snapshot := s.conversations.Snapshot(ctx, personaID)
	history := snapshot
	committed := false
	if last := len(snapshot) - 1; last >= 0 &&
		snapshot[last].Role == conversation.RoleUser &&
		snapshot[last].Text == userMessage {
		history = snapshot[:last]
		committed = true
	}

	reply, err := s.generator.GenerateReply(ctx, &p, history, userMessage)
	if err != nil {
		return "", fault.NewStageError(fault.StageGenerate, err)
	}

	if !committed {
		if err := s.conversations.Append(ctx, personaID, conversation.Message{
			Role: conversation.RoleUser,
			Text: userMessage,
		}); err != nil {
			log.Printf("[pipeline] failed to commit user message: %v", err)
		}
	}
	if err := s.conversations.Append(ctx, personaID, conversation.Message{
		Role: conversation.RoleAssistant,
		Text: reply,
	}); err != nil {
		log.Printf("[pipeline] failed to commit assistant message: %v", err)
	}

	return reply, nil
}

// Speak runs the third stage and attaches the audio to the stored assistant
// message. A synthesis failure leaves the reply text valid and visible.
func (s *Service) Speak(ctx context.Context, personaID, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fault.ErrInvalidInput
	}
	p, err := s.resolvePersona(personaID)
	if err != nil {
		return nil, err
	}
	if s.synthesizer == nil {
		return nil, fault.ErrNotConfigured
	}

	audio, err := s.synthesizer.Synthesize(ctx, text, p.VoiceID)
	if err != nil {
		return nil, fault.NewStageError(fault.StageSynthesize, err)
	}

	s.conversations.AttachAudio(ctx, personaID, text, base64.StdEncoding.EncodeToString(audio))

	return audio, nil
}

// Reset clears the persona's conversation log.
func (s *Service) Reset(ctx context.Context, personaID string) error {
	if _, err := s.resolvePersona(personaID); err != nil {
		return err
	}
	s.conversations.Clear(ctx, personaID)
	return nil
}

// History returns the persona's conversation log for client mirroring.
func (s *Service) History(ctx context.Context, personaID string) ([]conversation.Message, error) {
	if _, err := s.resolvePersona(personaID); err != nil {
		return nil, err
	}
	return s.conversations.Snapshot(ctx, personaID), nil
}

func (s *Service) resolvePersona(personaID string) (persona.Persona, error) {
	if strings.TrimSpace(personaID) == "" {
		return persona.Persona{}, fault.ErrInvalidInput
	}
	p, ok := s.personas.FindByID(personaID)
	if !ok {
		return persona.Persona{}, fault.ErrUnknownPersona
	}
	return p, nil
}
