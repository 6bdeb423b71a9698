// Package ai generates assistant replies for the stub server, either
// through an Ark-backed eino chain or a canned fallback when no model
// credentials are configured.
package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/config"
	chatmodel "github.com/alamin17ui/onimo-chat-auth-core/internal/model/chat"
)

const systemPrompt = "You are Onimo, a friendly and concise chat assistant. " +
	"Answer the user's question directly, using the conversation history for context."

// Service answers through a compiled eino chain.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the reply chain from the Ark configuration.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

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
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// Reply runs the chain over the conversation history and the new message.
func (s *Service) Reply(ctx context.Context, history []chatmodel.Exchange, message string) (string, error) {
	response, err := s.chain.Invoke(ctx, map[string]any{
		"system":  systemPrompt,
		"history": buildHistoryMessages(history),
		"query":   message,
	})
	if err != nil {
		return "", fmt.Errorf("run reply chain: %w", err)
	}

	log.Printf("[ai] generated reply, length=%d", len(response.Content))
	return response.Content, nil
}

// buildHistoryMessages flattens exchanges into alternating user/assistant
// turns. History arrives newest first; the model wants oldest first.
func buildHistoryMessages(history []chatmodel.Exchange) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)*2)
	for i := len(history) - 1; i >= 0; i-- {
		messages = append(messages,
			schema.UserMessage(history[i].Message),
			schema.AssistantMessage(history[i].Answer, nil),
		)
	}
	return messages
}

// Canned is the fallback responder used when no model is configured.
type Canned struct{}

// Reply returns a deterministic acknowledgement.
func (Canned) Reply(_ context.Context, history []chatmodel.Exchange, message string) (string, error) {
	return fmt.Sprintf("You said: %q. This is exchange #%d; configure an Ark model for real answers.",
		message, len(history)+1), nil
}
