package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates all service configuration.
type Config struct {
	Server ServerConfig
	OpenAI OpenAIConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadOpenAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, OpenAI: ai}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// OpenAIConfig describes the single credential and model selection for all
// three collaborators (transcription, generation, synthesis).
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	TranscribeModel string
	SpeechModel     string
	Language        string
	MaxTokens       int
	Temperature     *float64
	HistoryLimit    int
	Timeout         time.Duration
}

// Enabled reports whether the collaborator credential is present.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

// NewChatModel builds the eino chat model used by the generation chain.
func (c OpenAIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	maxTokens := c.MaxTokens

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &openaimodel.ChatModelConfig{
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Model:       c.ChatModel,
		MaxTokens:   &maxTokens,
		Temperature: temperature,
		Timeout:     c.Timeout,
	}

	return openaimodel.NewChatModel(ctx, cfg)
}

func loadOpenAIConfig() (OpenAIConfig, error) {
	temperature, err := parseOptionalFloatEnv("CHAT_TEMPERATURE")
	if err != nil {
		return OpenAIConfig{}, err
	}

	// Replies are kept terse to suit spoken playback.
	maxTokens := 120
	if override, err := parseOptionalIntEnv("CHAT_MAX_TOKENS"); err != nil {
		return OpenAIConfig{}, err
	} else if override != nil && *override > 0 {
		maxTokens = *override
	}

	historyLimit := 10
	if override, err := parseOptionalIntEnv("CHAT_HISTORY_LIMIT"); err != nil {
		return OpenAIConfig{}, err
	} else if override != nil && *override >= 1 {
		historyLimit = *override
	}

	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("OPENAI_TIMEOUT"); err != nil {
		return OpenAIConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return OpenAIConfig{
		APIKey:          strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:         strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		ChatModel:       getEnvOrDefault("CHAT_MODEL", "gpt-4o-mini"),
		TranscribeModel: getEnvOrDefault("TRANSCRIBE_MODEL", "whisper-1"),
		SpeechModel:     getEnvOrDefault("SPEECH_MODEL", "tts-1"),
		Language:        getEnvOrDefault("TRANSCRIBE_LANGUAGE", "en"),
		MaxTokens:       maxTokens,
		Temperature:     temperature,
		HistoryLimit:    historyLimit,
		Timeout:         time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
