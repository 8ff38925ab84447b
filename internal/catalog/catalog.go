// Package catalog loads named message templates from YAML files and
// validates them through the template cache.
//
// A catalog file maps event names to raw template strings:
//
//	templates:
//	  user-login: "User {username} from {ip}"
//	  queue-depth: "Queue {queue} at {depth,6} items"
//
// Loading never aborts on a grammar error in one entry; invalid entries are
// kept with their error so tooling can report every problem in one pass.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/mtempl/internal/cache"
	mterrors "github.com/conneroisu/mtempl/internal/errors"
	"github.com/conneroisu/mtempl/internal/template"
)

// Entry is one named template from a catalog file.
type Entry struct {
	// Name is the key the template was registered under.
	Name string
	// Raw is the template source text.
	Raw string
	// File is the catalog file the entry came from.
	File string
	// Template is the parsed template, nil when Err is set.
	Template *template.Template
	// Err is the grammar error for invalid entries.
	Err *mterrors.GrammarError
}

// Valid reports whether the entry parsed cleanly.
func (e Entry) Valid() bool { return e.Err == nil }

// Catalog is a set of named templates loaded from one or more files.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// catalogFile is the YAML document shape.
type catalogFile struct {
	Templates map[string]string `yaml:"templates"`
}

// Load reads one catalog file, parsing every entry through store.
func Load(path string, store *cache.Store) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int)}
	if err := c.loadFile(path, store); err != nil {
		return nil, err
	}
	c.sort()
	return c, nil
}

// LoadPaths reads every catalog file under the given paths. Paths may be
// files or directories; directories are walked for *.yml and *.yaml files,
// skipping any whose base name matches an exclude pattern.
func LoadPaths(paths, excludes []string, store *cache.Store) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int)}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("catalog path %s: %w", path, err)
		}
		if !info.IsDir() {
			if err := c.loadFile(path, store); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsCatalogFile(p) || excluded(p, excludes) {
				return nil
			}
			return c.loadFile(p, store)
		})
		if err != nil {
			return nil, err
		}
	}
	c.sort()
	return c, nil
}

// IsCatalogFile reports whether path names a catalog file by extension.
func IsCatalogFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

func excluded(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func (c *Catalog) loadFile(path string, store *cache.Store) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	for name, raw := range doc.Templates {
		entry := Entry{Name: name, Raw: raw, File: path}
		tmpl, err := store.GetOrParse(raw)
		if err != nil {
			var ge *mterrors.GrammarError
			if !errors.As(err, &ge) {
				return fmt.Errorf("catalog %s entry %s: %w", path, name, err)
			}
			entry.Err = ge
		} else {
			entry.Template = tmpl
		}
		if i, dup := c.byName[name]; dup {
			c.entries[i] = entry
			continue
		}
		c.byName[name] = len(c.entries)
		c.entries = append(c.entries, entry)
	}
	return nil
}

// sort orders entries by name for deterministic listing, rebuilding the
// name index.
func (c *Catalog) sort() {
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Name < c.entries[j].Name })
	for i, e := range c.entries {
		c.byName[e.Name] = i
	}
}

// Get returns the entry registered under name.
func (c *Catalog) Get(name string) (Entry, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns all entries in name order.
func (c *Catalog) Entries() []Entry { return c.entries }

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Invalid returns the entries that failed to parse, as collected
// validation errors.
func (c *Catalog) Invalid() *mterrors.Collector {
	collector := mterrors.NewCollector()
	for _, e := range c.entries {
		if e.Err != nil {
			collector.Add(e.Name, e.File, e.Err)
		}
	}
	return collector
}
