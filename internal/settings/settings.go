// Package settings holds the user's selection of documents and directives
// and persists it between runs.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ezerfernandes/dotmd/internal/directive"
)

// DefaultPath is the settings cache file name.
const DefaultPath = ".dotfiles-md-cache"

// ErrEmptySelection is returned when saving a selection without blocks.
var ErrEmptySelection = errors.New("no directives selected")

// Selection is the caller-owned set of chosen documents and directives.
// Directives are identified by a fingerprint of their content. An empty
// block list selects nothing.
type Selection struct {
	Filter string   `yaml:"filter,omitempty"`
	Files  []string `yaml:"files"`
	Blocks []string `yaml:"blocks"`
}

// NewSelection selects every given directive from files.
func NewSelection(filter string, files []string, directives []*directive.Directive) *Selection {
	s := &Selection{Filter: filter, Files: slices.Clone(files)}

	for _, d := range directives {
		s.Add(d)
	}

	return s
}

// Contains reports whether d is selected.
func (s *Selection) Contains(d *directive.Directive) bool {
	return slices.Contains(s.Blocks, d.Fingerprint())
}

// Add selects d. Directives with the same content are selected once.
func (s *Selection) Add(d *directive.Directive) {
	fp := d.Fingerprint()
	if !slices.Contains(s.Blocks, fp) {
		s.Blocks = append(s.Blocks, fp)
	}
}

// Remove deselects d and every directive with the same content.
func (s *Selection) Remove(d *directive.Directive) {
	fp := d.Fingerprint()
	s.Blocks = slices.DeleteFunc(s.Blocks, func(b string) bool { return b == fp })
}

// Apply returns the selected directives in their original order.
func (s *Selection) Apply(directives []*directive.Directive) []*directive.Directive {
	selected := make([]*directive.Directive, 0, len(directives))

	for _, d := range directives {
		if s.Contains(d) {
			selected = append(selected, d)
		}
	}

	return selected
}

// Covers reports whether every file and block of other is already part of s.
func (s *Selection) Covers(other *Selection) bool {
	for _, f := range other.Files {
		if !slices.Contains(s.Files, f) {
			return false
		}
	}

	for _, b := range other.Blocks {
		if !slices.Contains(s.Blocks, b) {
			return false
		}
	}

	return true
}

// Store reads and writes a Selection as YAML.
type Store struct {
	Path string
}

// Exists reports whether a saved selection is present.
func (s Store) Exists() bool {
	_, err := os.Stat(s.Path)

	return err == nil
}

// Load reads the saved selection.
func (s Store) Load() (*Selection, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}

	var sel Selection

	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}

	return &sel, nil
}

// Save writes sel, replacing any previous selection. A selection without
// blocks is refused.
func (s Store) Save(sel *Selection) error {
	if len(sel.Blocks) == 0 {
		return ErrEmptySelection
	}

	data, err := yaml.Marshal(sel)
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o644)
}

// Remove deletes the saved selection. A missing file is not an error.
func (s Store) Remove() error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}
