// Package social drafts social media posts from templates with OpenAI.
package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"crmdash/internal/model"
	"crmdash/internal/util"
)

// MaxPostWidth caps generated posts.
const MaxPostWidth = 280

var (
	// ErrDisabled is returned when no API key is configured.
	ErrDisabled = errors.New("social post generation is disabled: no OpenAI API key")

	// ErrNotSocial is returned for templates of another kind.
	ErrNotSocial = errors.New("template is not a social template")
)

const systemPrompt = "You write short, friendly social media posts for a small business. " +
	"Reply with the post text only, no hashtags unless the draft has them, at most 280 characters."

// Config configures the generator.
type Config struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"OPENAI_BASE_URL"`
}

// Generator wraps the OpenAI chat completion API. A nil *Generator is
// valid and always returns ErrDisabled.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator returns nil when cfg has no API key.
func NewGenerator(cfg Config) *Generator {
	if cfg.APIKey == "" {
		return nil
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	return &Generator{client: openai.NewClientWithConfig(oc), model: m}
}

// Enabled reports whether posts can be generated.
func (g *Generator) Enabled() bool { return g != nil }

// Generate turns the draft in t into a post signed by senderName.
func (g *Generator) Generate(ctx context.Context, t model.Template, senderName string) (string, error) {
	if g == nil {
		return "", ErrDisabled
	}
	if t.Kind != model.KindSocial {
		return "", ErrNotSocial
	}

	var prompt strings.Builder
	if t.Subject != "" {
		fmt.Fprintf(&prompt, "Topic: %s\n", t.Subject)
	}
	fmt.Fprintf(&prompt, "Draft:\n%s\n", strings.TrimSpace(t.Body))
	if senderName != "" {
		fmt.Fprintf(&prompt, "Posted by: %s\n", senderName)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate social post: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no chat choices returned")
	}
	post := strings.TrimSpace(resp.Choices[0].Message.Content)
	return util.TruncateString(post, MaxPostWidth), nil
}
