// Package eino adapts any Eino chat model to model.Model. NewArk builds one
// backed by Volcengine Ark, the OpenAI-compatible endpoint most Eino
// deployments use.
package eino

import (
	"context"
	"errors"
	"io"

	"github.com/cloudwego/eino-ext/components/model/ark"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/model"
	"github.com/Ying-Kai-Liao/hot-seat/stream"
)

const jsonDirective = "\n\nRespond with a single JSON object and nothing else."

// Options configure the adapter.
type Options struct {
	// Name is reported by Info.
	Name string
	// Provider is reported by Info and used in RequestError.
	Provider string
}

// Model wraps an Eino chat model.
type Model struct {
	chat einomodel.BaseChatModel
	opts Options
}

// New wraps chat.
func New(chat einomodel.BaseChatModel, optFns ...func(o *Options)) *Model {
	opts := Options{Name: "eino", Provider: "eino"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{chat: chat, opts: opts}
}

// ArkOptions configure NewArk. Either APIKey or an AccessKey/SecretKey pair
// is required.
type ArkOptions struct {
	Model       string
	APIKey      string
	AccessKey   string
	SecretKey   string
	BaseURL     string
	Region      string
	Temperature *float32
	MaxTokens   *int
}

// NewArk creates an Ark chat model and wraps it. Missing credentials are
// reported as core.AuthenticationError without contacting the service.
func NewArk(ctx context.Context, optFns ...func(o *ArkOptions)) (*Model, error) {
	opts := ArkOptions{
		BaseURL: "https://ark.cn-beijing.volces.com/api/v3",
		Region:  "cn-beijing",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.APIKey == "" && (opts.AccessKey == "" || opts.SecretKey == "") {
		return nil, &core.AuthenticationError{Provider: "ark"}
	}

	chat, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     opts.BaseURL,
		Region:      opts.Region,
		APIKey:      opts.APIKey,
		AccessKey:   opts.AccessKey,
		SecretKey:   opts.SecretKey,
		Model:       opts.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return New(chat, func(o *Options) {
		o.Name = opts.Model
		o.Provider = "ark"
	}), nil
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)

		msgs := buildMessages(req)
		if req.Stream {
			m.handleStreaming(ctx, msgs, out, errCh)
			return
		}
		m.handleNonStreaming(ctx, msgs, out, errCh)
	}()
	return out, errCh
}

func buildMessages(req model.Request) []*schema.Message {
	system := req.Instructions
	if req.JSON {
		system += jsonDirective
	}
	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(req.Input),
	}
}

func (m *Model) handleStreaming(ctx context.Context, msgs []*schema.Message, out chan<- model.Response, errCh chan<- error) {
	sr, err := m.chat.Stream(ctx, msgs)
	if err != nil {
		errCh <- m.wrapError(err)
		return
	}
	defer sr.Close()

	var acc stream.Accumulator
	for {
		chunk, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errCh <- m.wrapError(err)
			return
		}
		if chunk == nil {
			continue
		}
		for _, d := range []stream.Delta{
			{Kind: core.EventReasoning, Text: chunk.ReasoningContent},
			{Kind: core.EventContent, Text: chunk.Content},
		} {
			if ev, ok := acc.Apply(d); ok {
				model.Send(ctx, out, model.Response{Partial: true, Event: ev})
			}
		}
	}
	if !model.Send(ctx, out, model.Response{Completion: acc.Result(), FinishReason: "stop"}) {
		errCh <- ctx.Err()
	}
}

func (m *Model) handleNonStreaming(ctx context.Context, msgs []*schema.Message, out chan<- model.Response, errCh chan<- error) {
	msg, err := m.chat.Generate(ctx, msgs)
	if err != nil {
		errCh <- m.wrapError(err)
		return
	}
	resp := model.Response{
		Completion:   core.Completion{Content: msg.Content, Reasoning: msg.ReasoningContent},
		FinishReason: "stop",
	}
	if msg.ResponseMeta != nil {
		resp.FinishReason = msg.ResponseMeta.FinishReason
		if u := msg.ResponseMeta.Usage; u != nil {
			resp.Usage = &model.TokenUsage{
				PromptTokens:     u.PromptTokens,
				CompletionTokens: u.CompletionTokens,
				TotalTokens:      u.TotalTokens,
			}
		}
	}
	if !model.Send(ctx, out, resp) {
		errCh <- ctx.Err()
	}
}

func (m *Model) wrapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &core.RequestError{Provider: m.opts.Provider, Message: err.Error(), Err: err}
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Name, Provider: m.opts.Provider}
}
