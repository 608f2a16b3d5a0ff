// Package openai provides an implementation of model.Model for OpenAI and
// OpenAI-compatible Chat Completions endpoints.
//
// Requests are built with the official SDK's typed parameters and sent
// through the SDK client so authentication, retries and error decoding stay
// in one place. Responses are read raw: reasoning models stream a
// `reasoning_content` field the typed chunk does not expose, so the body is
// handed to stream.Aggregate.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/model"
	"github.com/Ying-Kai-Liao/hot-seat/stream"
)

const (
	provider       = "openai"
	completionPath = "chat/completions"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-5-mini:low"
)

// Options configure the OpenAI model adapter.
type Options struct {
	// Model is a "name[:effort]" identifier, e.g. "gpt-5-mini:low".
	Model string
	// APIKey overrides the OPENAI_API_KEY environment variable.
	APIKey string
	// BaseURL targets an OpenAI-compatible endpoint.
	BaseURL string
	// Temperature is omitted when nil. Reasoning models reject it.
	Temperature *float64
	// MaxCompletionTokens is omitted when zero.
	MaxCompletionTokens int64
	// HTTPClient replaces the SDK's default client.
	HTTPClient *http.Client
}

// Model wraps the Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
	spec   model.Spec
	hasKey bool
}

// NewModel creates a new OpenAI model using the official client. The key is
// taken from Options.APIKey or, when empty, from OPENAI_API_KEY. A missing key
// is reported by Generate as a core.AuthenticationError.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.APIKey == "" {
		opts.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	var reqOpts []option.RequestOption
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	client := openai.NewClient(reqOpts...)

	return &Model{client: &client, opts: opts, spec: model.ParseSpec(opts.Model), hasKey: opts.APIKey != ""}
}

// NewModelFromClient creates a new OpenAI model from an existing client. The
// client is assumed to carry its own credentials.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts, spec: model.ParseSpec(opts.Model), hasKey: true}
}

func defaultOptions() Options {
	return Options{Model: DefaultModel}
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

// buildParams assembles the request: one system and one user message plus
// the optional effort and JSON-object output settings.
func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: m.spec.Name,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instructions),
			openai.UserMessage(req.Input),
		},
	}
	if m.spec.ReasoningEffort != "" {
		params.ReasoningEffort = shared.ReasoningEffort(m.spec.ReasoningEffort)
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	if m.opts.Temperature != nil {
		params.Temperature = openai.Float(*m.opts.Temperature)
	}
	if m.opts.MaxCompletionTokens > 0 {
		params.MaxCompletionTokens = openai.Int(m.opts.MaxCompletionTokens)
	}
	return params
}

// handleStreaming posts with stream=true and aggregates the raw event body.
func (m *Model) handleStreaming(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- model.Response,
	errCh chan<- error,
) {
	var raw *http.Response
	if err := m.client.Post(ctx, completionPath, params, &raw, option.WithJSONSet("stream", true)); err != nil {
		errCh <- wrapError(err)
		return
	}
	defer raw.Body.Close()

	completion, err := stream.Aggregate(ctx, raw.Body, func(ev core.StreamEvent) {
		model.Send(ctx, out, model.Response{Partial: true, Event: ev})
	})
	if err != nil {
		errCh <- wrapError(err)
		return
	}
	if !model.Send(ctx, out, model.Response{Completion: completion, FinishReason: "stop"}) {
		errCh <- ctx.Err()
	}
}

// chatCompletion is the subset of a non-streaming response that is read.
type chatCompletion struct {
	Choices []struct {
		Message struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
			Reasoning        string `json:"reasoning"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *model.TokenUsage `json:"usage"`
}

// handleNonStreaming processes a normal (non-streaming) completion.
func (m *Model) handleNonStreaming(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- model.Response,
	errCh chan<- error,
) {
	var resp chatCompletion
	if err := m.client.Post(ctx, completionPath, params, &resp); err != nil {
		errCh <- wrapError(err)
		return
	}
	if len(resp.Choices) == 0 {
		errCh <- &core.RequestError{Provider: provider, Message: "no choices returned"}
		return
	}
	ch0 := resp.Choices[0]
	reasoning := ch0.Message.ReasoningContent
	if reasoning == "" {
		reasoning = ch0.Message.Reasoning
	}
	final := model.Response{
		Completion:   core.Completion{Content: ch0.Message.Content, Reasoning: reasoning},
		FinishReason: ch0.FinishReason,
		Usage:        resp.Usage,
	}
	if !model.Send(ctx, out, final) {
		errCh <- ctx.Err()
	}
}

// wrapError maps SDK failures onto core.RequestError, keeping the provider
// message when the API supplied one. Cancellation passes through untouched.
func wrapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &core.RequestError{
			Provider:   provider,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return &core.RequestError{Provider: provider, Message: fmt.Sprintf("transport: %v", err), Err: err}
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:            m.spec.Name,
		Provider:        provider,
		ReasoningEffort: m.spec.ReasoningEffort,
	}
}
