// Package draft turns raw source content into a podcast script through a
// language model.
package draft

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/sirupsen/logrus"

	"podcraft/internal/domain/script"
	"podcraft/internal/domain/studio"
)

// Drafter writes an episode script from source content and the show's
// speaker roster.
type Drafter interface {
	Draft(ctx context.Context, content string, cfg *studio.Config) (*script.Script, error)
}

// OpenAIDrafter drafts scripts through the OpenAI chat completions API.
// The client reads OPENAI_API_KEY from the environment.
type OpenAIDrafter struct {
	client openai.Client
	model  string
	log    logrus.FieldLogger
}

// NewOpenAIDrafter builds a drafter for the given chat model.
func NewOpenAIDrafter(model string, log logrus.FieldLogger) *OpenAIDrafter {
	return &OpenAIDrafter{
		client: openai.NewClient(),
		model:  model,
		log:    log,
	}
}

// Draft asks the model for a full script as JSON and parses it.
func (d *OpenAIDrafter) Draft(ctx context.Context, content string, cfg *studio.Config) (*script.Script, error) {
	prompt, err := renderPrompt(cfg)
	if err != nil {
		return nil, err
	}

	d.log.WithField("model", d.model).Info("💬  Drafting podcast script")

	resp, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(d.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage(content),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to draft script: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("failed to draft script: model returned no choices")
	}

	scr, err := script.Parse([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		return nil, fmt.Errorf("model returned an unusable script: %w", err)
	}
	if err := scr.Validate(cfg.HasSpeaker); err != nil {
		return nil, fmt.Errorf("model returned an unusable script: %w", err)
	}
	return scr, nil
}
