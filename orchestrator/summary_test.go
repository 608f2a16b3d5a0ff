package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/internal/testutil"
	"github.com/Ying-Kai-Liao/hot-seat/model"
)

func TestBuildSummaryRequest(t *testing.T) {
	entries := []core.TranscriptEntry{
		testutil.Entry("Skeptic", 1, "Nobody needs this."),
		testutil.Entry(core.FounderSpeaker, 1, "Dogs do."),
	}
	req := BuildSummaryRequest("a todo app for dogs", core.TaskFindPMF, entries)

	assert.Equal(t, SummaryInstructions, req.Instructions)
	assert.Equal(t, "\nProduct: a todo app for dogs\nMode: find-pmf\n\nDiscussion:\nSkeptic: Nobody needs this.\nYOU: Dogs do.", req.Input)
	assert.False(t, req.Stream)
	assert.False(t, req.JSON)

	again := BuildSummaryRequest("a todo app for dogs", core.TaskFindPMF, entries)
	assert.Equal(t, req, again)
}

func TestSummarize(t *testing.T) {
	m := model.NewMockModel("m", func(model.Request) (core.Completion, error) {
		return core.Completion{Content: "## Key insights"}, nil
	})
	c, err := Summarize(context.Background(), m, nil, "idea", core.TaskCritique, nil)
	require.NoError(t, err)
	assert.Equal(t, "## Key insights", c.Content)
	require.Len(t, m.Calls(), 1)
}

func TestSummarize_WrapsError(t *testing.T) {
	boom := errors.New("boom")
	m := model.NewMockModel("m", func(model.Request) (core.Completion, error) {
		return core.Completion{}, boom
	})
	_, err := Summarize(context.Background(), m, nil, "idea", core.TaskCritique, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "summary:")
}
