// Package envsubst replaces prefixed tokens such as %EMAIL in document text
// with values read from a .env file.
package envsubst

import (
	"errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultPrefix marks a token to substitute.
const DefaultPrefix = "%"

// Replacer substitutes prefixed variable names with their values.
type Replacer struct {
	prefix string
	vars   map[string]string
	r      *strings.Replacer
}

// New returns a Replacer for vars. Longer names are matched first, so %HOME
// and %HOMEBREW do not collide.
func New(vars map[string]string, prefix string) *Replacer {
	names := make([]string, 0, len(vars))
	for name := range vars {
		if len(name) > 0 {
			names = append(names, name)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}

		return names[i] < names[j]
	})

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, prefix+name, vars[name])
	}

	return &Replacer{prefix: prefix, vars: vars, r: strings.NewReplacer(pairs...)}
}

// Load reads a .env file. A missing file yields a Replacer that changes
// nothing.
func Load(path, prefix string) (*Replacer, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(nil, prefix), nil
	}

	if err != nil {
		return nil, err
	}

	return New(vars, prefix), nil
}

// Replace returns src with every known token substituted.
func (r *Replacer) Replace(src []byte) []byte {
	if r == nil || len(r.vars) == 0 {
		return src
	}

	return []byte(r.r.Replace(string(src)))
}

// Len returns the number of known variables.
func (r *Replacer) Len() int {
	if r == nil {
		return 0
	}

	return len(r.vars)
}
