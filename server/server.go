package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sourcegraph/conc"

	"github.com/Ying-Kai-Liao/hot-seat/artifact"
	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/export"
	"github.com/Ying-Kai-Liao/hot-seat/logging"
	"github.com/Ying-Kai-Liao/hot-seat/orchestrator"
	"github.com/Ying-Kai-Liao/hot-seat/session"
)

// Factory builds what a session needs. The façade implements it.
type Factory interface {
	// SelectAdvisors returns the catalog advisors named, or lets the model
	// pick a panel when names is empty.
	SelectAdvisors(ctx context.Context, idea string, names []string) ([]core.Advisor, error)
	// NewOrchestrator creates a runner that reports to obs and persists to
	// Store.
	NewOrchestrator(obs orchestrator.Observer) *orchestrator.Orchestrator
	// Store is where sessions are persisted.
	Store() core.SessionStore
}

// Options configure a Server.
type Options struct {
	Logger logging.Logger
	// PingInterval is the keep-alive period of event streams.
	PingInterval time.Duration
	// Archive, when set, receives the exports of every finished session and
	// serves later downloads of them.
	Archive artifact.Store
	// Retention is how long a finished session keeps its event hub so late
	// subscribers still get the replay. State and exports remain available
	// from the store afterwards.
	Retention time.Duration
}

type liveSession struct {
	orch *orchestrator.Orchestrator
	hub  *Hub
}

// Server hosts sessions. Sessions run on the server's own context, so they
// outlive the request that started them; Close stops them.
type Server struct {
	factory Factory
	opts    Options
	logger  logging.Logger
	router  chi.Router

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	mu   sync.RWMutex
	live map[string]*liveSession
}

// New creates a Server.
func New(factory Factory, optFns ...func(o *Options)) *Server {
	opts := Options{PingInterval: 30 * time.Second, Retention: 5 * time.Minute}
	for _, fn := range optFns {
		fn(&opts)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		factory: factory,
		opts:    opts,
		logger:  logging.Component(opts.Logger, "server"),
		ctx:     ctx,
		cancel:  cancel,
		live:    map[string]*liveSession{},
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Close ends every live session and waits for them to finish.
func (s *Server) Close() {
	s.mu.RLock()
	for _, ls := range s.live {
		ls.orch.End()
	}
	s.mu.RUnlock()
	s.cancel()
	s.wg.Wait()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/sessions", func(api chi.Router) {
		api.Post("/", s.handleStart)
		api.Route("/{id}", func(sr chi.Router) {
			sr.Get("/", s.handleGet)
			sr.Get("/events", s.handleEvents)
			sr.Get("/ws", s.handleWebSocket)
			sr.Post("/input", s.handleInput)
			sr.Post("/end", s.handleEnd)
			sr.Get("/export", s.handleExport)
		})
	})
	return r
}

type startRequest struct {
	Idea     string   `json:"idea"`
	Task     string   `json:"task"`
	Advisors []string `json:"advisors"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.logger, http.StatusBadRequest, "invalid JSON body")
		return
	}
	idea := strings.TrimSpace(req.Idea)
	if idea == "" {
		respondError(w, s.logger, http.StatusBadRequest, "idea is required")
		return
	}
	task, err := core.ParseTaskType(req.Task)
	if err != nil {
		respondError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}

	advisors, err := s.factory.SelectAdvisors(r.Context(), idea, req.Advisors)
	if err != nil {
		status := http.StatusBadGateway
		if core.IsAuthentication(err) {
			status = http.StatusUnauthorized
		}
		respondError(w, s.logger, status, err.Error())
		return
	}

	hub := NewHub(s.logger)
	orch := s.factory.NewOrchestrator(hub)
	setup := orchestrator.Setup{ID: core.NewID(), Idea: idea, Task: task, Advisors: advisors}

	s.mu.Lock()
	s.live[setup.ID] = &liveSession{orch: orch, hub: hub}
	s.mu.Unlock()

	runErr := make(chan error, 1)
	s.wg.Go(func() {
		st, err := orch.Run(s.ctx, setup)
		if err != nil {
			s.logger.Warn("Session ended with error", "session", setup.ID, "error", err)
		}
		s.archive(st)
		runErr <- err
		hub.Close()
		time.AfterFunc(s.opts.Retention, func() { s.forget(setup.ID) })
	})

	var startErr error
	select {
	case <-hub.Started():
	case startErr = <-runErr:
	case <-r.Context().Done():
		return
	}

	// A session rejected before it started was never persisted.
	st, err := s.factory.Store().Get(setup.ID)
	if err != nil {
		s.forget(setup.ID)
		msg := "session could not start"
		if startErr != nil {
			msg = startErr.Error()
		}
		respondError(w, s.logger, http.StatusUnprocessableEntity, msg)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+setup.ID)
	respondJSON(w, s.logger, http.StatusCreated, NewStateView(st, orch.Pending()))
}

func (s *Server) archive(st *core.SessionState) {
	if s.opts.Archive == nil || st == nil {
		return
	}
	err := export.Archive(s.opts.Archive, st, time.Now())
	if err != nil && !errors.Is(err, export.ErrEmpty) {
		s.logger.Warn("Failed to archive session", "session", st.ID, "error", err)
	}
}

// forget drops a finished session's hub and its event history.
func (s *Server) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, id)
}

func (s *Server) session(id string) (*liveSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.live[id]
	return ls, ok
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.factory.Store().Get(id)
	if err != nil {
		s.notFound(w, err)
		return
	}
	var pending *orchestrator.HumanInput
	if ls, ok := s.session(id); ok {
		pending = ls.orch.Pending()
	}
	respondJSON(w, s.logger, http.StatusOK, NewStateView(st, pending))
}

func (s *Server) notFound(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		respondError(w, s.logger, http.StatusNotFound, "session not found")
		return
	}
	respondError(w, s.logger, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.session(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, s.logger, http.StatusNotFound, "session not found")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, s.logger, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, unsubscribe := ls.hub.Subscribe()
	defer unsubscribe()

	setupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSE(w, flusher, ev); err != nil {
				s.logger.Debug("Event stream closed", "error", err)
				return
			}
		}
	}
}

type inputRequest struct {
	// ID optionally pins the prompt being answered.
	ID     string              `json:"id"`
	Action orchestrator.Action `json:"action"`
	Text   string              `json:"text"`
}

// resolveInput applies req to the session's pending prompt and returns the
// HTTP status describing the outcome.
func resolveInput(ls *liveSession, req inputRequest) (int, error) {
	pending := ls.orch.Pending()
	if pending == nil {
		return http.StatusConflict, errors.New("session is not awaiting input")
	}
	if req.ID != "" && req.ID != pending.ID() {
		return http.StatusConflict, errors.New("prompt is no longer pending")
	}

	var err error
	switch req.Action {
	case orchestrator.ActionSubmit:
		err = pending.Submit(req.Text)
	case orchestrator.ActionSkip, "":
		err = pending.Skip()
	case orchestrator.ActionCancel:
		err = pending.Cancel()
	default:
		return http.StatusBadRequest, errors.New("unknown action " + string(req.Action))
	}
	if errors.Is(err, orchestrator.ErrAlreadyResolved) {
		return http.StatusConflict, err
	}
	return http.StatusAccepted, err
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.session(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, s.logger, http.StatusNotFound, "session not found")
		return
	}
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.logger, http.StatusBadRequest, "invalid JSON body")
		return
	}
	status, err := resolveInput(ls, req)
	if err != nil {
		respondError(w, s.logger, status, err.Error())
		return
	}
	respondJSON(w, s.logger, status, map[string]string{"status": "accepted"})
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.session(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, s.logger, http.StatusNotFound, "session not found")
		return
	}
	ls.orch.End()
	respondJSON(w, s.logger, http.StatusAccepted, map[string]string{"status": "ending"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if s.opts.Archive != nil {
		data, ok, err := export.Archived(s.opts.Archive, id, format)
		if err != nil {
			respondError(w, s.logger, http.StatusInternalServerError, err.Error())
			return
		}
		if ok {
			writeDownload(w, format, data)
			return
		}
	}
	st, err := s.factory.Store().Get(id)
	if err != nil {
		s.notFound(w, err)
		return
	}
	data, err := export.Render(st, format, time.Now())
	if errors.Is(err, export.ErrEmpty) {
		respondError(w, s.logger, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondError(w, s.logger, http.StatusInternalServerError, err.Error())
		return
	}
	writeDownload(w, format, data)
}

func writeDownload(w http.ResponseWriter, format export.Format, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
