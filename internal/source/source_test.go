package source_test

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/envsubst"
	"github.com/ezerfernandes/dotmd/internal/source"
)

var root = filepath.FromSlash("/work/dotfiles")

func newFS(t *testing.T, files map[string]string) *memoryfs.FS {
	t.Helper()

	mfs := memoryfs.New()

	for name, content := range files {
		if dir := filepath.ToSlash(filepath.Dir(name)); dir != "." {
			require.NoError(t, mfs.MkdirAll(dir, 0o755))
		}

		require.NoError(t, mfs.WriteFile(name, []byte(content), 0o644))
	}

	return mfs
}

func newLoader(fsys fs.FS, env *envsubst.Replacer) *source.Loader {
	return source.NewLoader(fsys, root, env, directive.Options{Home: "/home/me", GOOS: "linux"})
}

func TestDiscover(t *testing.T) {
	mfs := newFS(t, map[string]string{
		"README.md":                     "# root",
		"docs/shell.md":                 "# shell",
		"docs/notes.txt":                "not markdown",
		"node_modules/pkg/README.md":    "# ignored",
		"build/2024/links/README.md":    "# ignored",
		"docs/deep/nested/git.md":       "# git",
		"docs/deep/node_modules/old.md": "# ignored",
	})

	names, err := newLoader(mfs, nil).Discover("**/*.md", []string{"**/node_modules/**", "**/build/**"})
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "docs/deep/nested/git.md", "docs/shell.md"}, names)
}

func TestDiscoverInvalidPattern(t *testing.T) {
	_, err := newLoader(newFS(t, nil), nil).Discover("[", nil)

	require.Error(t, err)
}

const dotfiles = `---
title: My dotfiles
---

# Git

` + "```ini ~/.gitconfig action=symlink title=\"Git config\"" + `
[user]
  email = %EMAIL
` + "```" + `

` + "```sh" + `
echo "no action, ignored"
` + "```" + `

` + "```js out/tool.js action=build when=os.darwin" + `
console.log("mac only")
` + "```" + `
`

func TestLoad(t *testing.T) {
	mfs := newFS(t, map[string]string{"docs/dotfiles.md": dotfiles})
	env := envsubst.New(map[string]string{"EMAIL": "me@example.com"}, envsubst.DefaultPrefix)

	doc, err := newLoader(mfs, env).Load(context.Background(), "docs/dotfiles.md")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "docs", "dotfiles.md"), doc.Path)
	assert.Equal(t, "My dotfiles", doc.Title)
	assert.Equal(t, 3, doc.Blocks)
	require.Len(t, doc.Directives, 2)

	git := doc.Directives[0]
	assert.Equal(t, directive.ActionSymlink, git.Action.Kind)
	assert.Equal(t, filepath.FromSlash("/home/me/.gitconfig"), git.TargetPath)
	assert.Equal(t, "[user]\n  email = me@example.com", git.Content)
	assert.Equal(t, doc.Path, git.SourcePath)
	assert.Equal(t, 7, git.Line)
	assert.True(t, git.Eligible())

	tool := doc.Directives[1]
	assert.Equal(t, filepath.Join(root, "docs", "out", "tool.js"), tool.TargetPath)
	assert.Equal(t, "when!=os.darwin", tool.DisabledReason)
}

func TestLoadAll(t *testing.T) {
	mfs := newFS(t, map[string]string{
		"a.md": "```txt a action=build\nA\n```\n",
		"b.md": "```txt b action=build\nB\n```\n\n```sh action=run\necho b\n```\n",
	})

	all, err := newLoader(mfs, nil).LoadAll(context.Background(), []string{"b.md", "a.md"})
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "B", all[0].Content)
	assert.Equal(t, "echo b", all[1].Content)
	assert.Equal(t, "A", all[2].Content)
}

func TestLoadMissing(t *testing.T) {
	_, err := newLoader(newFS(t, nil), nil).Load(context.Background(), "missing.md")

	require.ErrorIs(t, err, fs.ErrNotExist)
}
