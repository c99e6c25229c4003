// Package source finds Markdown documents and turns their code blocks into
// directives.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/adrg/frontmatter"
	"github.com/gobwas/glob"

	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/envsubst"
	"github.com/ezerfernandes/dotmd/internal/logger"
	"github.com/ezerfernandes/dotmd/internal/mdcode"
)

// Document is one scanned Markdown file.
type Document struct {
	// Path is the document's location on disk.
	Path  string
	Title string
	// Blocks counts every fenced code block, with or without an action.
	Blocks     int
	Directives []*directive.Directive
}

// Loader reads documents from FS. Root is the on-disk directory FS is rooted
// at; it anchors document paths and therefore relative target paths.
type Loader struct {
	FS      fs.FS
	Root    string
	Env     *envsubst.Replacer
	Options directive.Options
}

// NewLoader returns a loader for the directory tree at root.
func NewLoader(fsys fs.FS, root string, env *envsubst.Replacer, opts directive.Options) *Loader {
	return &Loader{FS: fsys, Root: root, Env: env, Options: opts}
}

// Discover lists the documents matching pattern, skipping any path matched
// by an ignore pattern. Patterns use "/" separators and "**" for any number
// of directories. Names are returned sorted, relative to the FS root.
func (l *Loader) Discover(pattern string, ignore []string) ([]string, error) {
	include, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
	}

	excludes := make([]glob.Glob, 0, len(ignore))

	for _, p := range ignore {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}

		excludes = append(excludes, g)
	}

	var names []string

	err = fs.WalkDir(l.FS, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if name == "." {
			return nil
		}

		for _, g := range excludes {
			if match(g, name) || (entry.IsDir() && match(g, name+"/")) {
				if entry.IsDir() {
					return fs.SkipDir
				}

				return nil
			}
		}

		if !entry.IsDir() && match(include, name) {
			names = append(names, name)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)

	return names, nil
}

// match also tries the name with a leading "/", so "**/x" matches x at the
// root.
func match(g glob.Glob, name string) bool {
	return g.Match(name) || g.Match("/"+name)
}

// Load scans one document. name is relative to the FS root.
func (l *Loader) Load(ctx context.Context, name string) (*Document, error) {
	src, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return nil, err
	}

	src = l.Env.Replace(src)

	body, title, offset, err := splitFrontmatter(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	blocks, err := mdcode.Unfence(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	doc := &Document{
		Path:   filepath.Join(l.Root, filepath.FromSlash(path.Clean(name))),
		Title:  title,
		Blocks: len(blocks),
	}

	doc.Directives = directive.ParseAll(Nodes(blocks, offset), doc.Path, l.Options)

	logger.FromContext(ctx).Debug("scanned document", "path", doc.Path, "blocks", doc.Blocks, "directives", len(doc.Directives))

	return doc, nil
}

// LoadAll scans documents in order and concatenates their directives.
func (l *Loader) LoadAll(ctx context.Context, names []string) ([]*directive.Directive, error) {
	var all []*directive.Directive

	for _, name := range names {
		doc, err := l.Load(ctx, name)
		if err != nil {
			return nil, err
		}

		all = append(all, doc.Directives...)
	}

	return all, nil
}

// Nodes converts extracted code blocks into parser input. lineOffset is added
// to every block's line number.
func Nodes(blocks mdcode.Blocks, lineOffset int) []directive.Node {
	nodes := make([]directive.Node, 0, len(blocks))

	for _, b := range blocks {
		nodes = append(nodes, directive.Node{
			Language: b.Lang,
			Meta:     b.Info,
			Content:  string(b.Code),
			Line:     b.StartLine + lineOffset,
		})
	}

	return nodes
}

type frontMatter struct {
	Title string `yaml:"title"`
}

// splitFrontmatter removes a leading YAML frontmatter section. It returns the
// remaining body, the document title and the number of lines removed.
func splitFrontmatter(src []byte) ([]byte, string, int, error) {
	var meta frontMatter

	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return nil, "", 0, fmt.Errorf("parse frontmatter: %w", err)
	}

	offset := 0
	if len(body) < len(src) && bytes.HasSuffix(src, body) {
		offset = bytes.Count(src[:len(src)-len(body)], []byte{'\n'})
	}

	return body, meta.Title, offset, nil
}
