package cmd

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/ezerfernandes/dotmd/internal/directive"
)

type filterFunc func(d *directive.Directive) bool

// filter matches directives whose language and action name match any of the
// given glob patterns. An empty pattern list matches everything.
func filter(langs, actions []string) (filterFunc, error) {
	langGlobs, err := compileGlobs("lang", langs)
	if err != nil {
		return nil, err
	}

	actionGlobs, err := compileGlobs("action", actions)
	if err != nil {
		return nil, err
	}

	return func(d *directive.Directive) bool {
		return matchAny(langGlobs, d.Language) && matchAny(actionGlobs, d.Action.Name)
	}, nil
}

func compileGlobs(flag string, patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s pattern %q: %w", flag, p, err)
		}

		globs = append(globs, g)
	}

	return globs, nil
}

func matchAny(globs []glob.Glob, value string) bool {
	if len(globs) == 0 {
		return true
	}

	for _, g := range globs {
		if g.Match(value) {
			return true
		}
	}

	return false
}
