package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/logging"
	"github.com/Ying-Kai-Liao/hot-seat/model"
)

// SummaryInstructions is the system prompt of the closing summary.
const SummaryInstructions = `Summarize this product feedback session.

Include:
1. Key insights (agreements)
2. Key concerns (disagreements)
3. Recommended next steps

Use markdown. Be specific.`

// BuildSummaryRequest renders the closing summary call. The result depends
// only on its arguments.
func BuildSummaryRequest(idea string, task core.TaskType, entries []core.TranscriptEntry) model.Request {
	input := fmt.Sprintf("\nProduct: %s\nMode: %s\n\nDiscussion:\n%s", idea, task, core.FormatLines(entries))
	return model.Request{Instructions: SummaryInstructions, Input: input}
}

// Summarize makes the single non-streaming summary call for a transcript.
func Summarize(ctx context.Context, m model.Model, logger logging.Logger, idea string, task core.TaskType, entries []core.TranscriptEntry) (core.Completion, error) {
	start := time.Now()
	c, err := model.Collect(ctx, m, BuildSummaryRequest(idea, task, entries), nil)
	logging.LogLLMCall(logging.OrNoop(logger), m.Info().Name, time.Since(start), err)
	if err != nil {
		return core.Completion{}, fmt.Errorf("summary: %w", err)
	}
	return c, nil
}
