package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/logging"
)

var (
	// ErrMissingFrontMatter indicates an advisor file did not start with a
	// YAML fence.
	ErrMissingFrontMatter = errors.New("catalog: missing frontmatter")
	// ErrIncompleteFrontMatter indicates the frontmatter lacks a name or
	// description.
	ErrIncompleteFrontMatter = errors.New("catalog: frontmatter requires name and description")
)

type frontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Role        string `yaml:"role"`
	Color       string `yaml:"color"`
	Initial     string `yaml:"initial"`
}

// ParseEntry reads an advisor definition: YAML frontmatter between `---`
// fences followed by the persona body.
func ParseEntry(content []byte) (Entry, error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Entry{}, ErrMissingFrontMatter
	}
	parts := bytes.SplitN(normalized[4:], []byte("\n---"), 2)
	if len(parts) < 2 {
		return Entry{}, ErrMissingFrontMatter
	}

	var fm frontMatter
	if err := yaml.Unmarshal(parts[0], &fm); err != nil {
		return Entry{}, fmt.Errorf("catalog: parse frontmatter: %w", err)
	}
	fm.Name = strings.TrimSpace(fm.Name)
	fm.Description = strings.TrimSpace(fm.Description)
	if fm.Name == "" || fm.Description == "" {
		return Entry{}, ErrIncompleteFrontMatter
	}

	body := strings.TrimSpace(strings.TrimPrefix(string(parts[1]), "\n"))
	return Entry{
		Profile: core.Profile{
			Name:    fm.Name,
			Role:    strings.TrimSpace(fm.Role),
			Color:   strings.TrimSpace(fm.Color),
			Initial: strings.TrimSpace(fm.Initial),
		},
		Description: fm.Description,
		Persona:     body,
	}, nil
}

// LoadDir reads every .md file under dir, recursively. Files whose name
// starts with an underscore are templates and are skipped, as are files with
// invalid frontmatter (logged at warn).
func LoadDir(dir string, logger logging.Logger) ([]Entry, error) {
	logger = logging.OrNoop(logger)

	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".md" || strings.HasPrefix(d.Name(), "_") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entry, err := ParseEntry(content)
		if err != nil {
			logger.Warn("Skipping advisor file", "path", path, "error", err)
			return nil
		}
		entry.Path = path
		entries = append(entries, entry)
		logger.Debug("Loaded advisor", "name", entry.Profile.Name, "path", path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", dir, err)
	}
	return entries, nil
}

// Load returns the built-in catalog extended with the advisors under dir.
// An empty dir or a directory that does not exist yields the built-ins only.
func Load(dir string, logger logging.Logger) (*Catalog, error) {
	c := Builtin()
	if strings.TrimSpace(dir) == "" {
		return c, nil
	}
	entries, err := LoadDir(dir, logger)
	if errors.Is(err, fs.ErrNotExist) {
		logging.OrNoop(logger).Warn("Advisor directory not found", "dir", dir)
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		c.Add(e)
	}
	return c, nil
}
