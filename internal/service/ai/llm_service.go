package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// EinoGenerator runs a finished prompt through an eino chain (template + chat model).
type EinoGenerator struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewEinoGenerator compiles the single-turn chain over an injected chat model.
func NewEinoGenerator(ctx context.Context, chatModel model.ChatModel) (*EinoGenerator, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &EinoGenerator{chatModel: chatModel, chain: runnable}, nil
}

// Generate invokes the chain once and returns the assistant content.
func (g *EinoGenerator) Generate(ctx context.Context, text string) (string, error) {
	response, err := g.chain.Invoke(ctx, map[string]any{"prompt": text})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil {
		return "", fmt.Errorf("AI chain returned no message")
	}
	return response.Content, nil
}

// ChatModel 返回底层的聊天模型
func (g *EinoGenerator) ChatModel() model.ChatModel {
	return g.chatModel
}
