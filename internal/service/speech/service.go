package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/couchtalk/backend/internal/config"
)

var ErrEmptyAudio = errors.New("audio payload is empty")

// Service talks to the transcription and synthesis collaborators. Both share
// the single configured credential; each call carries the configured timeout.
type Service struct {
	client *openai.Client
	cfg    config.OpenAIConfig
}

// NewService creates the speech service from the shared collaborator config.
func NewService(cfg config.OpenAIConfig) *Service {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Transcribe converts an audio payload into text. The filename is only used
// to hint the container format to the collaborator; the payload itself is
// passed through unchanged.
func (s *Service) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if filename == "" {
		filename = "audio.webm"
	}

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.cfg.TranscribeModel,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Language: s.cfg.Language,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	return resp.Text, nil
}

// Synthesize renders text as speech using the persona's voice alias and
// returns the raw mp3 bytes.
func (s *Service) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.cfg.SpeechModel),
		Input:          text,
		Voice:          ResolveVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}

	return audio, nil
}
