// Package anthropic provides a model.Model backed by the Anthropic Messages
// API. Streaming maps text deltas onto the content accumulator and extended
// thinking deltas onto the reasoning accumulator.
package anthropic

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/model"
	"github.com/Ying-Kai-Liao/hot-seat/stream"
)

const provider = "anthropic"

// jsonDirective is appended to the system prompt for structured requests;
// the Messages API has no JSON response mode.
const jsonDirective = "\n\nRespond with a single JSON object and nothing else."

// Options configures the Anthropic model adapter. Extend via functional
// options to preserve stability.
type Options struct {
	Model anthropic.Model
	// Temperature is omitted when nil. Extended thinking requires it unset.
	Temperature *float64
	MaxTokens   int64
	// ThinkingBudget enables extended thinking when positive.
	ThinkingBudget int64
	// APIKey overrides the ANTHROPIC_API_KEY environment variable.
	APIKey  string
	BaseURL string
	// RequestOptions are appended to the client options.
	RequestOptions []option.RequestOption
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
	hasKey bool
}

func defaultOptions() Options {
	return Options{
		Model:     anthropic.ModelClaudeSonnet4_20250514,
		MaxTokens: 4096,
	}
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.APIKey == "" {
		opts.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	clientOpts = append(clientOpts, opts.RequestOptions...)

	client := anthropic.NewClient(clientOpts...)
	return &Model{client: &client, opts: opts, hasKey: opts.APIKey != ""}
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts, hasKey: true}
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		if !m.hasKey {
			errCh <- &core.AuthenticationError{Provider: provider}
			return
		}

		params := m.buildParams(req)
		if req.Stream {
			m.handleStreaming(ctx, params, out, errCh)
			return
		}
		m.handleNonStreaming(ctx, params, out, errCh)
	}()

	return out, errCh
}

func (m *Model) buildParams(req model.Request) anthropic.MessageNewParams {
	system := req.Instructions
	if req.JSON {
		system += jsonDirective
	}
	params := anthropic.MessageNewParams{
		Model:     m.opts.Model,
		MaxTokens: m.opts.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Input)),
		},
	}
	if strings.TrimSpace(system) != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if m.opts.Temperature != nil {
		params.Temperature = anthropic.Float(*m.opts.Temperature)
	}
	if m.opts.ThinkingBudget > 0 {
		params.Thinking = anthropic.ThinkingConfigParamUnion{
			OfEnabled: &anthropic.ThinkingConfigEnabledParam{BudgetTokens: m.opts.ThinkingBudget},
		}
	}
	return params
}

func (m *Model) handleStreaming(
	ctx context.Context,
	params anthropic.MessageNewParams,
	out chan<- model.Response,
	errCh chan<- error,
) {
	events := m.client.Messages.NewStreaming(ctx, params)
	defer events.Close()

	var (
		acc        stream.Accumulator
		stopReason string
	)
	for events.Next() {
		switch ev := events.Current().AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			var d stream.Delta
			switch delta := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				d = stream.Delta{Kind: core.EventContent, Text: delta.Text}
			case anthropic.ThinkingDelta:
				d = stream.Delta{Kind: core.EventReasoning, Text: delta.Thinking}
			default:
				continue
			}
			if update, ok := acc.Apply(d); ok {
				model.Send(ctx, out, model.Response{Partial: true, Event: update})
			}
		case anthropic.MessageDeltaEvent:
			stopReason = string(ev.Delta.StopReason)
		}
	}
	if err := events.Err(); err != nil {
		errCh <- wrapError(err)
		return
	}
	if !model.Send(ctx, out, model.Response{Completion: acc.Result(), FinishReason: stopReason}) {
		errCh <- ctx.Err()
	}
}

func (m *Model) handleNonStreaming(
	ctx context.Context,
	params anthropic.MessageNewParams,
	out chan<- model.Response,
	errCh chan<- error,
) {
	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		errCh <- wrapError(err)
		return
	}

	var content, reasoning strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			content.WriteString(block.AsText().Text)
		case "thinking":
			reasoning.WriteString(block.AsThinking().Thinking)
		}
	}

	final := model.Response{
		Completion:   core.Completion{Content: content.String(), Reasoning: reasoning.String()},
		FinishReason: string(resp.StopReason),
		Usage: &model.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}
	if !model.Send(ctx, out, final) {
		errCh <- ctx.Err()
	}
}

func wrapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &core.RequestError{
			Provider:   provider,
			StatusCode: apiErr.StatusCode,
			Message:    errorMessage(apiErr),
			Err:        err,
		}
	}
	return &core.RequestError{Provider: provider, Message: err.Error(), Err: err}
}

// errorMessage extracts error.message from the response body, if any.
func errorMessage(apiErr *anthropic.Error) string {
	if apiErr.Response == nil || apiErr.Response.Body == nil {
		return ""
	}
	body, err := io.ReadAll(apiErr.Response.Body)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(body, "error.message").String()
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     string(m.opts.Model),
		Provider: provider,
	}
}
