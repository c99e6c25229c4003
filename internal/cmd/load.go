package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/envsubst"
	"github.com/ezerfernandes/dotmd/internal/logger"
	"github.com/ezerfernandes/dotmd/internal/settings"
	"github.com/ezerfernandes/dotmd/internal/source"
)

// scanned is the outcome of finding and parsing documents.
type scanned struct {
	files []string
	// all holds every directive of the scanned files, before any selection.
	all []*directive.Directive
	// selected holds the directives picked by the saved selection and the
	// command-line filters.
	selected []*directive.Directive
	fromCache bool
}

func (opts *options) store() settings.Store {
	return settings.Store{Path: opts.cfg.CacheFile}
}

// scan resolves the documents to work on and parses them. Explicit file
// arguments win; otherwise the saved selection is used when useCache is set
// and one exists; otherwise documents are discovered below the working
// directory.
func (opts *options) scan(ctx context.Context, args []string, useCache bool) (*scanned, error) {
	log := logger.FromContext(ctx)

	env, err := envsubst.Load(opts.cfg.EnvFile, opts.cfg.EnvPrefix)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", opts.cfg.EnvFile, err)
	}

	log.Debug("loaded environment", "file", opts.cfg.EnvFile, "vars", env.Len())

	res := &scanned{files: args}

	var sel *settings.Selection

	if len(res.files) == 0 && useCache && opts.store().Exists() {
		if sel, err = opts.store().Load(); err != nil {
			return nil, err
		}

		res.files = sel.Files
		res.fromCache = true

		log.Debug("using saved selection", "path", opts.cfg.CacheFile, "files", len(sel.Files), "blocks", len(sel.Blocks))
	}

	if len(res.files) == 0 {
		if res.files, err = opts.discover(); err != nil {
			return nil, err
		}
	}

	parseOpts := directive.DefaultOptions()

	for _, file := range res.files {
		dir, name := filepath.Split(file)
		if len(dir) == 0 {
			dir = "."
		}

		root, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}

		doc, err := source.NewLoader(os.DirFS(root), root, env, parseOpts).Load(ctx, name)
		if err != nil {
			return nil, err
		}

		res.all = append(res.all, doc.Directives...)
	}

	candidates := res.all
	if sel != nil {
		candidates = sel.Apply(candidates)
	}

	for _, d := range directive.Select(candidates, opts.includeDisabled) {
		if opts.filter(d) {
			res.selected = append(res.selected, d)
		}
	}

	return res, nil
}

func (opts *options) discover() ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	names, err := source.NewLoader(os.DirFS(cwd), cwd, nil, directive.Options{}).Discover(opts.cfg.Filter, opts.cfg.Ignore)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		files = append(files, filepath.FromSlash(name))
	}

	return files, nil
}
