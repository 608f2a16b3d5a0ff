// Package export renders a finished session as a JSON document or a
// Markdown report.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Ying-Kai-Liao/hot-seat/core"
)

// ErrEmpty is returned for a session without any discussion.
var ErrEmpty = errors.New("export: session has no discussion")

// Format selects the export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// ParseFormat resolves a format name. An empty name selects Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", s)
	}
}

// Filename is the suggested download name.
func (f Format) Filename() string { return "hotseat-session." + string(f) }

// ContentType is the MIME type of the encoding.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/markdown; charset=utf-8"
}

// Document is the JSON export shape.
type Document struct {
	Timestamp   time.Time              `json:"timestamp"`
	ProductIdea string                 `json:"productIdea"`
	TaskType    core.TaskType          `json:"taskType"`
	Advisors    []string               `json:"advisors"`
	Discussion  []core.TranscriptEntry `json:"discussion"`
	Summary     *string                `json:"summary"`
}

// NewDocument captures st at now.
func NewDocument(st *core.SessionState, now time.Time) Document {
	doc := Document{
		Timestamp:   now.UTC(),
		ProductIdea: st.Idea,
		TaskType:    st.Task,
		Advisors:    st.AdvisorNames(),
		Discussion:  st.Transcript.Entries(),
	}
	if st.Summary != nil {
		summary := st.Summary.Content
		doc.Summary = &summary
	}
	return doc
}

// Render encodes st in format f, stamped with now.
func Render(st *core.SessionState, f Format, now time.Time) ([]byte, error) {
	if st == nil || st.Transcript == nil || st.Transcript.Len() == 0 {
		return nil, ErrEmpty
	}
	switch f {
	case FormatJSON:
		return json.MarshalIndent(NewDocument(st, now), "", "  ")
	case FormatMarkdown:
		return []byte(markdown(st, now)), nil
	default:
		return nil, fmt.Errorf("export: unknown format %q", f)
	}
}

// Write renders st to w stamped with the current time.
func Write(w io.Writer, st *core.SessionState, f Format) error {
	data, err := Render(st, f, time.Now())
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func markdown(st *core.SessionState, now time.Time) string {
	lines := []string{
		"# Hot Seat Session",
		"",
		"**Product:** " + st.Idea,
		"**Mode:** " + string(st.Task),
		"**Date:** " + now.UTC().Format(time.RFC3339),
		"**Advisors:** " + strings.Join(st.AdvisorNames(), ", "),
		"",
		"---",
		"",
		"## Discussion",
		"",
	}

	current := 0
	for _, e := range st.Transcript.Entries() {
		if e.Round != current {
			current = e.Round
			lines = append(lines, fmt.Sprintf("### Round %d", current), "")
		}
		lines = append(lines, fmt.Sprintf("**%s:** %s", e.Speaker, e.Message), "")
	}

	if st.Summary != nil {
		lines = append(lines, "---", "", "## Summary", "", st.Summary.Content)
	}
	return strings.Join(lines, "\n")
}
