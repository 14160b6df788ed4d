package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/couchtalk/backend/internal/config"
	"github.com/couchtalk/backend/internal/model/conversation"
	"github.com/couchtalk/backend/internal/model/persona"
)

// Service generates persona-voiced replies through a compiled prompt chain.
type Service struct {
	chatModel    model.ChatModel
	cfg          config.OpenAIConfig
	historyLimit int
	chain        compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the generation service and compiles the chat chain.
func NewService(ctx context.Context, cfg config.OpenAIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	// Fixed message shape: persona instruction first, prior history in
	// order, then the new user message.
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	historyLimit := cfg.HistoryLimit
	if historyLimit < 1 {
		historyLimit = 10
	}

	return &Service{
		chatModel:    chatModel,
		cfg:          cfg,
		historyLimit: historyLimit,
		chain:        runnable,
	}, nil
}

// GenerateReply produces one reply for the persona given the prior history
// and the new user message.
func (s *Service) GenerateReply(ctx context.Context, p *persona.Persona, history []conversation.Message, userMessage string) (string, error) {
	input := map[string]any{
		"system":  BuildSystemPrompt(p),
		"history": s.buildHistoryMessages(history),
		"query":   userMessage,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	log.Printf("[ai] generated reply for persona=%s, length=%d", p.ID, len(response.Content))
	return response.Content, nil
}

// buildHistoryMessages converts the stored log into chain history, capped to
// the most recent messages so context cost stays bounded as turns accumulate.
func (s *Service) buildHistoryMessages(messages []conversation.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > s.historyLimit {
		startIdx = len(messages) - s.historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case conversation.RoleUser:
			history = append(history, schema.UserMessage(msg.Text))
		case conversation.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}

	return history
}
