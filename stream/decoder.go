package stream

import (
	"bytes"

	"github.com/tidwall/gjson"

	"github.com/Ying-Kai-Liao/hot-seat/core"
)

// DoneMarker is the payload that terminates a chat completion stream.
const DoneMarker = "[DONE]"

var dataPrefix = []byte("data:")

// Decoder splits a server-sent-event body into Deltas. Only `data:` lines
// carry payload; comments, event names and blank separators are ignored.
// Not safe for concurrent use.
type Decoder struct {
	buf     []byte
	done    bool
	dropped int
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Feed appends chunk and returns the Deltas of every line it completed, in
// order. A frame holding both a reasoning and a content fragment yields the
// reasoning Delta first.
func (d *Decoder) Feed(chunk []byte) []Delta {
	if d.done {
		return nil
	}
	d.buf = append(d.buf, chunk...)

	var out []Delta
	for !d.done {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := d.buf[:i]
		d.buf = d.buf[i+1:]
		out = append(out, d.interpret(line)...)
	}
	if d.done {
		d.buf = nil
	}
	return out
}

// Flush interprets a final line that was never newline-terminated. Call it
// once the body is exhausted.
func (d *Decoder) Flush() []Delta {
	if d.done || len(d.buf) == 0 {
		return nil
	}
	line := d.buf
	d.buf = nil
	return d.interpret(line)
}

// Done reports whether the terminal marker has been seen.
func (d *Decoder) Done() bool { return d.done }

// Pending returns the number of buffered bytes not yet forming a line.
func (d *Decoder) Pending() int { return len(d.buf) }

// Dropped returns the number of malformed fragments that were skipped.
func (d *Decoder) Dropped() int { return d.dropped }

func (d *Decoder) interpret(line []byte) []Delta {
	line = bytes.TrimRight(line, "\r")
	if !bytes.HasPrefix(line, dataPrefix) {
		return nil
	}
	payload := bytes.TrimSpace(line[len(dataPrefix):])
	if len(payload) == 0 {
		return nil
	}
	if string(payload) == DoneMarker {
		d.done = true
		return nil
	}
	deltas, err := ParseFragment(payload)
	if err != nil {
		d.dropped++
		return nil
	}
	return deltas
}

// ParseFragment extracts the reasoning and content increments from one chat
// completion chunk. It returns core.ErrMalformedFragment when payload is not
// valid JSON.
func ParseFragment(payload []byte) ([]Delta, error) {
	if !gjson.ValidBytes(payload) {
		return nil, core.ErrMalformedFragment
	}
	delta := gjson.GetBytes(payload, "choices.0.delta")

	var out []Delta
	reasoning := delta.Get("reasoning_content").String()
	if reasoning == "" {
		reasoning = delta.Get("reasoning").String()
	}
	if reasoning != "" {
		out = append(out, Delta{Kind: core.EventReasoning, Text: reasoning})
	}
	if content := delta.Get("content").String(); content != "" {
		out = append(out, Delta{Kind: core.EventContent, Text: content})
	}
	return out, nil
}
