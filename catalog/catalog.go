package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Ying-Kai-Liao/hot-seat/core"
)

// Entry is one advisor the catalog can offer.
type Entry struct {
	Profile core.Profile
	// Description tells the selection model when the advisor fits.
	Description string
	Persona     string
	// Path is the file the entry was loaded from, empty for built-ins.
	Path string
}

// Advisor returns the entry as a fixed advisor.
func (e Entry) Advisor() core.FixedAdvisor {
	return core.NewFixedAdvisor(e.Profile, e.Persona)
}

// Catalog is an ordered set of advisor entries keyed by name. It is safe for
// concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

// New creates a catalog from entries. Later entries replace earlier ones
// with the same name.
func New(entries ...Entry) *Catalog {
	c := &Catalog{entries: map[string]Entry{}}
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add inserts or replaces an entry. Entries without a name are ignored.
func (c *Catalog) Add(e Entry) {
	name := strings.TrimSpace(e.Profile.Name)
	if name == "" {
		return
	}
	e.Profile.Name = name

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[name]; !ok {
		c.order = append(c.order, name)
	}
	c.entries[name] = e
}

// Lookup returns the advisor registered under name.
func (c *Catalog) Lookup(name string) (core.Advisor, bool) {
	e, ok := c.Entry(name)
	if !ok {
		return nil, false
	}
	return e.Advisor(), true
}

// Entry returns the raw entry registered under name.
func (c *Catalog) Entry(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[strings.TrimSpace(name)]
	return e, ok
}

// Names returns entry names in insertion order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Advisors resolves names to advisors, skipping unknown ones.
func (c *Catalog) Advisors(names ...string) []core.Advisor {
	var out []core.Advisor
	for _, n := range names {
		if a, ok := c.Lookup(n); ok {
			out = append(out, a)
		}
	}
	return out
}

// Describe lists the entries one per line for a selection prompt.
func (c *Catalog) Describe() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lines := make([]string, 0, len(c.order))
	for _, name := range c.order {
		e := c.entries[name]
		if e.Description == "" {
			lines = append(lines, "- "+name)
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s (%s)", name, e.Description))
	}
	return strings.Join(lines, "\n")
}
