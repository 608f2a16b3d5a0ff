package artifact

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// DirStore keeps artifacts on disk as root/<sessionID>/<name>.
type DirStore struct {
	root string
}

var _ Store = (*DirStore)(nil)

// NewDirStore creates root if needed.
func NewDirStore(root string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{root: root}, nil
}

func (d *DirStore) path(sessionID, name string) (string, error) {
	if !validName(sessionID) || !validName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(d.root, sessionID, name), nil
}

// Save writes data through a temporary file so readers never see a partial
// artifact.
func (d *DirStore) Save(sessionID, name string, data []byte) error {
	p, err := d.path(sessionID, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "."+name+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Get reads the artifact or returns ErrNotFound.
func (d *DirStore) Get(sessionID, name string) ([]byte, error) {
	p, err := d.path(sessionID, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// List returns the artifact names in the session directory. Temporary files
// are skipped.
func (d *DirStore) List(sessionID string) ([]string, error) {
	if !validName(sessionID) {
		return nil, ErrInvalidName
	}
	entries, err := os.ReadDir(filepath.Join(d.root, sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes the artifact or returns ErrNotFound.
func (d *DirStore) Delete(sessionID, name string) error {
	p, err := d.path(sessionID, name)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
