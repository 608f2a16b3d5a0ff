package export

import (
	"errors"
	"time"

	"github.com/Ying-Kai-Liao/hot-seat/artifact"
	"github.com/Ying-Kai-Liao/hot-seat/core"
)

// Formats lists every supported encoding.
func Formats() []Format { return []Format{FormatJSON, FormatMarkdown} }

// Archive renders a finished session in every format and stores the results
// under the session id, so later downloads carry the end-of-session stamp.
// A session without discussion returns ErrEmpty and stores nothing.
func Archive(store artifact.Store, st *core.SessionState, now time.Time) error {
	for _, f := range Formats() {
		data, err := Render(st, f, now)
		if err != nil {
			return err
		}
		if err := store.Save(st.ID, f.Filename(), data); err != nil {
			return err
		}
	}
	return nil
}

// Archived returns a previously archived rendering. ok is false when the
// session was never archived.
func Archived(store artifact.Store, sessionID string, f Format) (data []byte, ok bool, err error) {
	data, err = store.Get(sessionID, f.Filename())
	if errors.Is(err, artifact.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
