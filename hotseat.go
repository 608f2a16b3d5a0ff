// Package hotseat provides a high-level façade over the hot seat building
// blocks: a provider-backed model, the advisor catalog and selector, the
// session store and the orchestrator. Most applications interact with this
// package by:
//  1. Creating a HotSeat via New (from a config.Config or explicit overrides)
//  2. Picking advisors with Prepare, or naming them directly
//  3. Running a session with Run, or hosting sessions with Server
//
// All defaults are safe for local development: sessions are kept in memory
// and logs go to stderr.
package hotseat

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/Ying-Kai-Liao/hot-seat/artifact"
	"github.com/Ying-Kai-Liao/hot-seat/catalog"
	"github.com/Ying-Kai-Liao/hot-seat/config"
	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/logging"
	"github.com/Ying-Kai-Liao/hot-seat/model"
	"github.com/Ying-Kai-Liao/hot-seat/model/anthropic"
	"github.com/Ying-Kai-Liao/hot-seat/model/eino"
	"github.com/Ying-Kai-Liao/hot-seat/model/openai"
	"github.com/Ying-Kai-Liao/hot-seat/orchestrator"
	"github.com/Ying-Kai-Liao/hot-seat/server"
	"github.com/Ying-Kai-Liao/hot-seat/session"
)

// Options configures the HotSeat instance.
type Options struct {
	// Config supplies provider, discussion and logging settings. Defaults to
	// config.Default().
	Config *config.Config
	// Model overrides the provider model built from Config.
	Model model.Model
	// Catalog overrides the catalog loaded from Config.Catalog.Dir.
	Catalog *catalog.Catalog
	// Store defaults to an in-memory store.
	Store core.SessionStore
	// Logger defaults to a SessionLogger built from Config.Logging.
	Logger logging.Logger
	// Archive keeps exports of sessions hosted by Server. Defaults to a
	// DirStore at Config.Server.ArchiveDir, or memory when that is empty.
	Archive artifact.Store
}

// HotSeat aggregates everything needed to run sessions.
type HotSeat struct {
	cfg      *config.Config
	model    model.Model
	catalog  *catalog.Catalog
	selector *catalog.Selector
	store    core.SessionStore
	archive  artifact.Store
	logger   logging.Logger
}

var _ server.Factory = (*HotSeat)(nil)

// New creates a HotSeat. Any unset dependency is built from the config.
func New(ctx context.Context, optFns ...func(o *Options)) (*HotSeat, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	cfg := opts.Config

	if opts.Logger == nil {
		opts.Logger = logging.NewSlogLogger(cfg.LogLevel(), cfg.Logging.Format, false)
	}
	if opts.Store == nil {
		opts.Store = session.NewInMemoryStore()
	}
	if opts.Model == nil {
		m, err := NewModel(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts.Model = m
	}
	if opts.Archive == nil {
		if cfg.Server.ArchiveDir == "" {
			opts.Archive = artifact.NewInMemoryStore()
		} else {
			dir, err := artifact.NewDirStore(cfg.Server.ArchiveDir)
			if err != nil {
				return nil, fmt.Errorf("archive: %w", err)
			}
			opts.Archive = dir
		}
	}
	if opts.Catalog == nil {
		c, err := catalog.Load(cfg.Catalog.Dir, opts.Logger)
		if err != nil {
			return nil, err
		}
		opts.Catalog = c
	}

	return &HotSeat{
		cfg:     cfg,
		model:   opts.Model,
		catalog: opts.Catalog,
		selector: catalog.NewSelector(opts.Model, opts.Catalog, func(o *catalog.SelectorOptions) {
			o.Logger = opts.Logger
		}),
		store:   opts.Store,
		archive: opts.Archive,
		logger:  opts.Logger,
	}, nil
}

// NewModel builds the provider model named by cfg.Provider.
func NewModel(ctx context.Context, cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	case config.ProviderArk:
		m, err := eino.NewArk(ctx, func(o *eino.ArkOptions) {
			o.Model = cfg.Model
			o.APIKey = cfg.APIKey
			o.AccessKey = cfg.Ark.AccessKey
			o.SecretKey = cfg.Ark.SecretKey
			if cfg.Ark.Region != "" {
				o.Region = cfg.Ark.Region
			}
			if cfg.BaseURL != "" {
				o.BaseURL = cfg.BaseURL
			}
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// Model returns the model used for every call.
func (h *HotSeat) Model() model.Model { return h.model }

// Catalog returns the advisor catalog.
func (h *HotSeat) Catalog() *catalog.Catalog { return h.catalog }

// Store implements server.Factory.
func (h *HotSeat) Store() core.SessionStore { return h.store }

// Prepare lets the model pick a panel for idea.
func (h *HotSeat) Prepare(ctx context.Context, idea string) (catalog.Selection, error) {
	return h.selector.Select(ctx, idea)
}

// SelectAdvisors implements server.Factory. Named advisors must exist in
// the catalog; with no names the selector picks the panel.
func (h *HotSeat) SelectAdvisors(ctx context.Context, idea string, names []string) ([]core.Advisor, error) {
	if len(names) == 0 {
		sel, err := h.Prepare(ctx, idea)
		if err != nil {
			return nil, err
		}
		return sel.Advisors, nil
	}
	advisors := make([]core.Advisor, 0, len(names))
	for _, name := range names {
		a, ok := h.catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown advisor %q", name)
		}
		advisors = append(advisors, a)
	}
	return advisors, nil
}

// NewOrchestrator implements server.Factory.
func (h *HotSeat) NewOrchestrator(obs orchestrator.Observer) *orchestrator.Orchestrator {
	d := h.cfg.Discussion
	return orchestrator.New(h.model, func(o *orchestrator.Options) {
		o.MaxRounds = d.MaxRounds
		o.SilenceCap = d.SilenceCap
		o.ModerationWindow = d.ModerationWindow
		o.Interactive = d.Interactive
		o.StreamModeration = d.StreamModeration
		o.Logger = h.logger
		o.Observer = obs
		o.Store = h.store
	})
}

// Run executes one session with the given advisors, blocking until it ends.
// obs may be nil.
func (h *HotSeat) Run(ctx context.Context, idea string, task core.TaskType, advisors []core.Advisor, obs orchestrator.Observer) (*core.SessionState, error) {
	return h.NewOrchestrator(obs).Run(ctx, orchestrator.Setup{Idea: idea, Task: task, Advisors: advisors})
}

// Archive returns the store of finished session exports.
func (h *HotSeat) Archive() artifact.Store { return h.archive }

// Server returns an HTTP host for sessions built by h.
func (h *HotSeat) Server(optFns ...func(o *server.Options)) *server.Server {
	defaults := func(o *server.Options) {
		o.Logger = h.logger
		o.Archive = h.archive
	}
	return server.New(h, append([]func(o *server.Options){defaults}, optFns...)...)
}
