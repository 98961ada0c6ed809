package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/avelar/chatvault-be/internal/models"
)

// Completer produces the next assistant turn for a conversation.
type Completer interface {
	Complete(ctx context.Context, turns []models.Turn) (models.Turn, error)
}

// Client calls an OpenAI-compatible chat completion API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a completion client. organization may be empty.
func NewClient(apiKey, organization, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.OrgID = organization
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Complete sends the full turn history and returns the first choice of the
// response as an assistant turn.
func (c *Client) Complete(ctx context.Context, turns []models.Turn) (models.Turn, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return models.Turn{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Turn{}, errors.New("chat completion returned no choices")
	}

	msg := resp.Choices[0].Message
	return models.Turn{
		ID:      uuid.New().String(),
		Role:    models.Role(msg.Role),
		Content: msg.Content,
	}, nil
}
