package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

// Generator calls the OpenAI Responses API.
type Generator struct {
	client openai.Client
}

// New builds a generator. SDK retries are disabled: a failed call is
// reported to the caller as is.
func New(apiKey, baseURL string, opts ...option.RequestOption) *Generator {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &Generator{client: openai.NewClient(reqOpts...)}
}

func (g *Generator) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai responses request: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		if resp.Status == "incomplete" {
			return "", fmt.Errorf("openai response is incomplete (reason = %s)", resp.IncompleteDetails.Reason)
		}
		return "", errors.New("openai response has no output text (status = " + string(resp.Status) + ")")
	}
	return text, nil
}
