package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/newswire/classify"
	"github.com/poiesic/newswire/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Classifier implements classify.Classifier using OpenAI-compatible chat APIs.
type Classifier struct {
	client llms.Model
	config *classify.Config
	logger *slog.Logger
}

// newClassifier is an internal constructor that returns the concrete type.
func newClassifier(config *classify.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		client: client,
		config: config,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a remote classifier using the provided configuration.
//
// Returns classify.Classifier interface (not *Classifier) to enforce
// abstraction and prevent coupling to OpenAI-specific implementation details.
func NewClassifier(config *classify.Config) (classify.Classifier, error) {
	return newClassifier(config)
}

// Classify submits a bounded prefix of text to the model and validates the
// answer against the fixed label set. The call is wrapped in the configured
// timeout so one slow request cannot stall the caller indefinitely.
func (c *Classifier) Classify(ctx context.Context, text string) (core.Category, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	text = truncate(text, c.config.MaxInputChars)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(c.config.MaxTokens))
	if err != nil {
		c.logger.Debug("chat completion failed", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		return "", classify.ErrEmptyResponse
	}

	label := scrubLabel(response.Choices[0].Content)
	category, ok := core.ParseCategory(label)
	if !ok {
		return "", fmt.Errorf("%w: %q", classify.ErrUnexpectedLabel, label)
	}

	return category, nil
}

// truncate bounds text to at most n bytes without touching shorter inputs.
// The cut backs off to a rune boundary so the prompt stays valid UTF-8.
func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}

// scrubLabel strips quoting, fencing, and terminal punctuation that chat
// models like to wrap one-word answers in.
func scrubLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`\"'.,!")
	return strings.TrimSpace(s)
}
