package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/couchtalk/backend/internal/model/conversation"
)

var ErrPersonaRequired = errors.New("persona id is required")

// Service owns the per-persona conversation logs. Single process, single
// writer per persona; concurrent turns against different personas proceed
// independently.
type Service struct {
	mu   sync.RWMutex
	logs map[string][]conversation.Message
}

// NewService bootstraps the in-memory conversation store.
func NewService() *Service {
	return &Service{logs: make(map[string][]conversation.Message)}
}

// Append adds one complete message to the end of the persona's log. The log
// is created lazily on first append.
func (s *Service) Append(_ context.Context, personaID string, message conversation.Message) error {
	if personaID == "" {
		return ErrPersonaRequired
	}

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.logs[personaID] = append(s.logs[personaID], message)
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the persona's log in insertion order.
func (s *Service) Snapshot(_ context.Context, personaID string) []conversation.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.logs[personaID]
	copied := make([]conversation.Message, len(messages))
	copy(copied, messages)
	return copied
}

// Clear empties the persona's log. Idempotent.
func (s *Service) Clear(_ context.Context, personaID string) {
	s.mu.Lock()
	delete(s.logs, personaID)
	s.mu.Unlock()
}

// AttachAudio marks the most recent assistant message with the given text as
// synthesized, storing the base64 audio alongside it. Returns false when no
// matching message exists.
func (s *Service) AttachAudio(_ context.Context, personaID, text, audio string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.logs[personaID]
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == conversation.RoleAssistant && messages[i].Text == text {
			messages[i].Audio = audio
			return true
		}
	}
	return false
}
