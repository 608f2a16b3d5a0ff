package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ying-Kai-Liao/hot-seat/artifact"
	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/internal/testutil"
	"github.com/Ying-Kai-Liao/hot-seat/orchestrator"
	"github.com/Ying-Kai-Liao/hot-seat/session"
)

type fakeFactory struct {
	script    *testutil.Script
	store     *session.InMemoryStore
	selectErr error
}

func (f *fakeFactory) SelectAdvisors(_ context.Context, _ string, names []string) ([]core.Advisor, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	if len(names) == 0 {
		names = []string{"A", "B"}
	}
	return testutil.Advisors(names...), nil
}

func (f *fakeFactory) NewOrchestrator(obs orchestrator.Observer) *orchestrator.Orchestrator {
	return orchestrator.New(f.script.Model(), func(o *orchestrator.Options) {
		o.Observer = obs
		o.Store = f.store
	})
}

func (f *fakeFactory) Store() core.SessionStore { return f.store }

func newTestServer(t *testing.T, script *testutil.Script, optFns ...func(o *Options)) (*httptest.Server, *fakeFactory) {
	t.Helper()
	f := &fakeFactory{script: script, store: session.NewInMemoryStore()}
	optFns = append([]func(o *Options){func(o *Options) { o.PingInterval = time.Second }}, optFns...)
	srv := New(f, optFns...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return ts, f
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func start(t *testing.T, ts *httptest.Server, body any) StateView {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/sessions", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view StateView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.NotEmpty(t, view.ID)
	assert.Equal(t, "/api/sessions/"+view.ID, resp.Header.Get("Location"))
	return view
}

func getState(t *testing.T, ts *httptest.Server, id string) StateView {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view StateView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func waitFor(t *testing.T, ts *httptest.Server, id string, cond func(StateView) bool) StateView {
	t.Helper()
	var last StateView
	require.Eventually(t, func() bool {
		last = getState(t, ts, id)
		return cond(last)
	}, 5*time.Second, 10*time.Millisecond)
	return last
}

func terminal(v StateView) bool { return v.Status.Terminal() }

func readSSE(t *testing.T, body io.Reader) []string {
	t.Helper()
	var types []string
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			types = append(types, name)
			if name == EventSessionEnd {
				break
			}
		}
	}
	return types
}

func TestServer_SessionLifecycle(t *testing.T) {
	ts, _ := newTestServer(t, testutil.NewScript())

	view := start(t, ts, map[string]any{"idea": "a todo app for dogs", "task": "brainstorm"})
	assert.Equal(t, core.TaskBrainstorm, view.TaskType)
	require.Len(t, view.Advisors, 2)
	assert.Equal(t, "A", view.Advisors[0].Name)

	resp, err := http.Get(ts.URL + "/api/sessions/" + view.ID + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	types := readSSE(t, resp.Body)
	require.NotEmpty(t, types)
	assert.Equal(t, EventSessionStart, types[0])
	assert.Equal(t, EventSessionEnd, types[len(types)-1])
	assert.Contains(t, types, EventRoundStart)
	assert.Contains(t, types, EventAdvisorDone)
	assert.Contains(t, types, EventRoundComplete)
	assert.Contains(t, types, EventDecision)
	assert.Contains(t, types, EventSummary)

	final := waitFor(t, ts, view.ID, terminal)
	assert.Equal(t, core.StatusCompletedBySilence, final.Status)
	assert.Len(t, final.Discussion, 6)
	require.NotNil(t, final.Summary)
	assert.Equal(t, "summary", *final.Summary)

	md, err := http.Get(ts.URL + "/api/sessions/" + view.ID + "/export?format=md")
	require.NoError(t, err)
	defer md.Body.Close()
	body, _ := io.ReadAll(md.Body)
	assert.Equal(t, http.StatusOK, md.StatusCode)
	assert.Contains(t, md.Header.Get("Content-Disposition"), "hotseat-session.md")
	assert.True(t, strings.HasPrefix(string(body), "# Hot Seat Session"))

	js, err := http.Get(ts.URL + "/api/sessions/" + view.ID + "/export?format=json")
	require.NoError(t, err)
	defer js.Body.Close()
	assert.Equal(t, "application/json", js.Header.Get("Content-Type"))
}

func TestServer_ServesArchivedExport(t *testing.T) {
	archive := artifact.NewInMemoryStore()
	ts, _ := newTestServer(t, testutil.NewScript(), func(o *Options) { o.Archive = archive })

	view := start(t, ts, map[string]any{"idea": "a todo app for dogs"})
	waitFor(t, ts, view.ID, terminal)
	require.Eventually(t, func() bool {
		names, err := archive.List(view.ID)
		return err == nil && len(names) == 2
	}, 5*time.Second, 10*time.Millisecond)

	archived, err := archive.Get(view.ID, "hotseat-session.json")
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/api/sessions/" + view.ID + "/export?format=json")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, archived, body)
}

func TestServer_AnswerQuestion(t *testing.T) {
	ts, _ := newTestServer(t, testutil.NewScript().Decisions(testutil.Ask("What is your target price point?")))
	view := start(t, ts, map[string]any{"idea": "idea", "advisors": []string{"A"}})

	waiting := waitFor(t, ts, view.ID, func(v StateView) bool { return v.Pending != nil })
	assert.Equal(t, core.StatusAwaitingInput, waiting.Status)
	assert.Equal(t, "What is your target price point?", waiting.Pending.Question)
	assert.False(t, waiting.Pending.Interjection)

	inputURL := ts.URL + "/api/sessions/" + view.ID + "/input"
	assert.Equal(t, http.StatusConflict, postJSON(t, inputURL, map[string]string{"id": "stale", "action": "submit", "text": "x"}).StatusCode)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, inputURL, map[string]string{"action": "shout"}).StatusCode)
	assert.Equal(t, http.StatusAccepted, postJSON(t, inputURL, map[string]string{"id": waiting.Pending.ID, "action": "submit", "text": "$10 a month"}).StatusCode)

	final := waitFor(t, ts, view.ID, terminal)
	assert.Equal(t, core.StatusCompletedBySilence, final.Status)
	var founder []core.TranscriptEntry
	for _, e := range final.Discussion {
		if e.Kind == core.EntryFounder {
			founder = append(founder, e)
		}
	}
	require.Len(t, founder, 1)
	assert.Equal(t, "$10 a month", founder[0].Message)

	assert.Equal(t, http.StatusConflict, postJSON(t, inputURL, map[string]string{"action": "skip"}).StatusCode)
}

func TestServer_End(t *testing.T) {
	script := testutil.NewScript()
	gate := script.Gate("A")
	ts, _ := newTestServer(t, script)
	view := start(t, ts, map[string]any{"idea": "idea"})

	resp := postJSON(t, ts.URL+"/api/sessions/"+view.ID+"/end", map[string]string{})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	close(gate)

	final := waitFor(t, ts, view.ID, terminal)
	assert.Equal(t, core.StatusCompletedManually, final.Status)
	assert.Empty(t, final.Discussion)

	exp, err := http.Get(ts.URL + "/api/sessions/" + view.ID + "/export")
	require.NoError(t, err)
	defer exp.Body.Close()
	assert.Equal(t, http.StatusConflict, exp.StatusCode)
}

func TestServer_StartValidation(t *testing.T) {
	ts, f := newTestServer(t, testutil.NewScript())
	url := ts.URL + "/api/sessions"

	resp, err := http.Post(url, "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, http.StatusBadRequest, postJSON(t, url, map[string]string{"idea": "  "}).StatusCode)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, url, map[string]string{"idea": "x", "task": "roast"}).StatusCode)

	f.selectErr = &core.AuthenticationError{Provider: "openai"}
	assert.Equal(t, http.StatusUnauthorized, postJSON(t, url, map[string]string{"idea": "x"}).StatusCode)
}

func TestServer_ForgetsFinishedSessions(t *testing.T) {
	ts, _ := newTestServer(t, testutil.NewScript(), func(o *Options) { o.Retention = 20 * time.Millisecond })

	view := start(t, ts, map[string]any{"idea": "a todo app for dogs"})
	waitFor(t, ts, view.ID, terminal)

	base := ts.URL + "/api/sessions/" + view.ID
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/events")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, http.StatusNotFound, postJSON(t, base+"/end", map[string]string{}).StatusCode)

	final := getState(t, ts, view.ID)
	assert.True(t, final.Status.Terminal())
	assert.Nil(t, final.Pending)

	resp, err := http.Get(base + "/export?format=md")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_NotFound(t *testing.T) {
	ts, _ := newTestServer(t, testutil.NewScript())
	base := ts.URL + "/api/sessions/missing"

	for _, path := range []string{"", "/events", "/export"} {
		resp, err := http.Get(base + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
	assert.Equal(t, http.StatusNotFound, postJSON(t, base+"/input", map[string]string{"action": "skip"}).StatusCode)
	assert.Equal(t, http.StatusNotFound, postJSON(t, base+"/end", map[string]string{}).StatusCode)

	resp, err := http.Get(base + "/export?format=pdf")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_WebSocket(t *testing.T) {
	ts, _ := newTestServer(t, testutil.NewScript().Decisions(testutil.Ask("Who pays?")))
	view := start(t, ts, map[string]any{"idea": "idea", "advisors": []string{"A"}})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + view.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var seen []string
	for {
		var ev struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&ev))
		seen = append(seen, ev.Type)

		if ev.Type == EventAwaitingInput {
			var pending PendingView
			require.NoError(t, json.Unmarshal(ev.Data, &pending))
			assert.Equal(t, "Who pays?", pending.Question)
			require.NoError(t, conn.WriteJSON(map[string]string{"type": "input", "action": "submit", "text": "Dog owners"}))
		}
		if ev.Type == EventSessionEnd {
			break
		}
	}
	assert.Contains(t, seen, EventFounderEntry)

	final := getState(t, ts, view.ID)
	assert.Equal(t, core.StatusCompletedBySilence, final.Status)
}
