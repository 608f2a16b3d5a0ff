package stream

import (
	"context"
	"errors"
	"io"

	"github.com/Ying-Kai-Liao/hot-seat/core"
)

const readSize = 4096

// Aggregate reads an event-stream body to completion. onEvent, when not nil,
// receives the cumulative value after every non-empty increment. Reading stops
// at the terminal marker or at end of body; a final unterminated line is still
// interpreted.
//
// On a read error or cancellation the partial Completion is returned together
// with the error. Callers decide whether partial text is usable.
func Aggregate(ctx context.Context, r io.Reader, onEvent func(core.StreamEvent)) (core.Completion, error) {
	dec := NewDecoder()
	var acc Accumulator

	emit := func(deltas []Delta) {
		for _, d := range deltas {
			if ev, ok := acc.Apply(d); ok && onEvent != nil {
				onEvent(ev)
			}
		}
	}

	buf := make([]byte, readSize)
	for {
		if err := ctx.Err(); err != nil {
			return acc.Result(), err
		}
		n, err := r.Read(buf)
		if n > 0 {
			emit(dec.Feed(buf[:n]))
			if dec.Done() {
				return acc.Result(), nil
			}
		}
		if errors.Is(err, io.EOF) {
			emit(dec.Flush())
			return acc.Result(), nil
		}
		if err != nil {
			return acc.Result(), err
		}
	}
}
