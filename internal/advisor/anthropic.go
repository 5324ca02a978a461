package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/simonbystrom/flowview/internal/telemetry"
)

// ErrAPIKeyRequired is returned by every call of a generator built without a key.
var ErrAPIKeyRequired = errors.New("API key required")

// AnthropicGenerator implements Generator with the Anthropic Messages API.
// Requests are sent once; the SDK's automatic retries are disabled.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	hasKey    bool
}

// NewAnthropicGenerator builds a generator. An empty apiKey still yields a
// usable value whose calls fail with ErrAPIKeyRequired. Extra options are
// applied after the defaults.
func NewAnthropicGenerator(apiKey, model string, maxTokens int64, opts ...option.RequestOption) *AnthropicGenerator {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &AnthropicGenerator{
		client:    anthropic.NewClient(append(base, opts...)...),
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
		hasKey:    apiKey != "",
	}
}

// GenerateStructured forces a single call of a tool whose input schema is
// schema and returns the tool input as JSON.
func (g *AnthropicGenerator) GenerateStructured(ctx context.Context, prompt string, schema Schema) (string, error) {
	tool := anthropic.ToolParam{
		Name:        schema.Name,
		Description: anthropic.String(schema.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: schema.Properties,
			Required:   schema.Required,
		},
	}
	params := g.params(prompt)
	params.Tools = []anthropic.ToolUnionParam{{OfTool: &tool}}
	params.ToolChoice = anthropic.ToolChoiceParamOfTool(schema.Name)

	message, err := g.send(ctx, "structured", params)
	if err != nil {
		return "", err
	}
	for _, block := range message.Content {
		if block.Type == "tool_use" && block.Name == schema.Name {
			return string(block.Input), nil
		}
	}
	return "", fmt.Errorf("unexpected response format: no %s tool call", schema.Name)
}

// GenerateText returns the concatenated text blocks of the reply.
func (g *AnthropicGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	message, err := g.send(ctx, "text", g.params(prompt))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

func (g *AnthropicGenerator) params(prompt string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}

func (g *AnthropicGenerator) send(ctx context.Context, kind string, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	if !g.hasKey {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrAPIKeyRequired)
	}

	ctx, span := telemetry.Tracer(scope).Start(ctx, "anthropic.messages.new")
	defer span.End()
	span.SetAttributes(
		attribute.String("flowview.ai.model", string(g.model)),
		attribute.String("flowview.ai.kind", kind),
	)

	t0 := time.Now()
	message, err := g.client.Messages.New(ctx, params)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("anthropic request: %w", err)
	}

	recordUsage(span, message, time.Since(t0))
	return message, nil
}

func recordUsage(span trace.Span, message *anthropic.Message, elapsed time.Duration) {
	span.SetAttributes(
		attribute.Int64("flowview.ai.input_tokens", message.Usage.InputTokens),
		attribute.Int64("flowview.ai.output_tokens", message.Usage.OutputTokens),
		attribute.Int64("flowview.ai.elapsed_ms", elapsed.Milliseconds()),
	)
}
