package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/settings"
)

const doc = "# Dotfiles\n\n" +
	"```txt out/hello.txt action=build title=Hello\nhello world\n```\n\n" +
	"```txt out/mac.txt action=build title=Mac when=os.darwin disabled=true\nmac only\n```\n\n" +
	"```sh\necho inert\n```\n"

type testEnv struct {
	dir   string
	doc   string
	build string
}

func setupEnv(t *testing.T) testEnv {
	t.Helper()

	color.NoColor = true

	dir := t.TempDir()
	env := testEnv{
		dir:   dir,
		doc:   filepath.Join(dir, "README.md"),
		build: filepath.Join(dir, "build"),
	}

	require.NoError(t, os.WriteFile(env.doc, []byte(doc), 0o644))

	t.Setenv("HOME", dir)
	t.Setenv("DOTMD_CACHE_FILE", filepath.Join(dir, "cache.yaml"))
	t.Setenv("DOTMD_ENV_FILE", filepath.Join(dir, "missing.env"))

	return env
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := rootCmd(newOptions(strings.NewReader(stdin)))
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	env := setupEnv(t)

	out, status, err := run(t, "", "list", env.doc)
	require.NoError(t, err)

	assert.Contains(t, out, "Hello build:txt to "+filepath.Join(env.dir, "out", "hello.txt"))
	assert.NotContains(t, out, "Mac")
	assert.NotContains(t, out, "inert")
	assert.Contains(t, status, "2 directives (1 active, 1 disabled) in 1 files")
}

func TestListIncludeDisabled(t *testing.T) {
	env := setupEnv(t)

	out, _, err := run(t, "", "list", "--include-disabled", env.doc)
	require.NoError(t, err)

	assert.Contains(t, out, "Mac build:txt")
	assert.Contains(t, out, "disabled=true")
}

func TestListInvalidFilter(t *testing.T) {
	env := setupEnv(t)

	_, _, err := run(t, "", "list", "--lang", "[", env.doc)

	require.Error(t, err)
}

func TestApplyAuto(t *testing.T) {
	env := setupEnv(t)

	out, _, err := run(t, "", "apply", "--auto", "--build-dir", env.build, env.doc)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(env.dir, "out", "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	assert.NoFileExists(t, filepath.Join(env.dir, "out", "mac.txt"))
	assert.Contains(t, out, "built "+filepath.Join(env.dir, "out", "hello.txt"))
}

func TestApplyNeverRunsDisabled(t *testing.T) {
	env := setupEnv(t)

	_, _, err := run(t, "", "apply", "--auto", "--include-disabled", "--build-dir", env.build, env.doc)
	require.Error(t, err)

	_, _, err = run(t, "", "apply", "--auto", "--build-dir", env.build, env.doc)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(env.dir, "out", "hello.txt"))
	assert.NoFileExists(t, filepath.Join(env.dir, "out", "mac.txt"))
}

func TestApplyScriptReadsRemainingInput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX sh")
	}

	env := setupEnv(t)
	script := filepath.Join(env.dir, "script.md")
	body := "```sh action=run title=Read\nread line\nprintf '%s' \"$line\" > piped.txt\n```\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o644))

	_, _, err := run(t, "y\ny\npayload\n", "apply", "--build-dir", env.build, script)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(env.dir, "piped.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestApplyCancelled(t *testing.T) {
	env := setupEnv(t)

	out, _, err := run(t, "n\n", "apply", "--build-dir", env.build, env.doc)
	require.NoError(t, err)

	assert.Contains(t, out, "Build 1 directives from 1 files? [y/N]")
	assert.Contains(t, out, "(cancelled)")
	assert.NoFileExists(t, filepath.Join(env.dir, "out", "hello.txt"))
}

func TestApplyConfirmed(t *testing.T) {
	env := setupEnv(t)

	_, _, err := run(t, "yes\n", "apply", "--build-dir", env.build, env.doc)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(env.dir, "out", "hello.txt"))
}

func TestApplySaveThenCache(t *testing.T) {
	env := setupEnv(t)

	_, _, err := run(t, "", "apply", "--auto", "--save", "--build-dir", env.build, env.doc)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(env.dir, "cache.yaml"))

	out, _, err := run(t, "", "cache", "show")
	require.NoError(t, err)
	assert.Contains(t, out, env.doc)
	assert.Contains(t, out, "blocks: 1")

	out, _, err = run(t, "", "cache", "save", env.doc)
	require.NoError(t, err)
	assert.Contains(t, out, "(all blocks already saved)")

	out, _, err = run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello build:txt")

	_, _, err = run(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(env.dir, "cache.yaml"))
}

func TestCacheSaveRefusesEmptySelection(t *testing.T) {
	env := setupEnv(t)

	_, _, err := run(t, "", "cache", "save", "--lang", "nomatch", env.doc)
	require.ErrorIs(t, err, settings.ErrEmptySelection)
	assert.NoFileExists(t, filepath.Join(env.dir, "cache.yaml"))

	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "cache.yaml"),
		[]byte("files:\n  - "+env.doc+"\nblocks: []\n"), 0o644))

	_, _, err = run(t, "", "apply", "--auto", "--build-dir", env.build)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(env.dir, "out", "hello.txt"))
}

func TestHelpNotes(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"list", "--help"}, "`disabled=false` leaves the block enabled"},
		{[]string{"apply", "--help"}, "Disabled directives are never applied"},
		{[]string{"cache", "--help"}, "The cache file is YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			setupEnv(t)

			out, _, err := run(t, "", tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestFilter(t *testing.T) {
	match, err := filter([]string{"sh", "ba*"}, []string{"run"})
	require.NoError(t, err)

	d := func(lang, action string) *directive.Directive {
		return &directive.Directive{Language: lang, Action: directive.ParseAction(action)}
	}

	assert.True(t, match(d("sh", "run")))
	assert.True(t, match(d("bash", "run")))
	assert.False(t, match(d("zsh", "run")))
	assert.False(t, match(d("sh", "build")))

	all, err := filter(nil, nil)
	require.NoError(t, err)
	assert.True(t, all(d("ini", "symlink")))

	_, err = filter([]string{"["}, nil)
	require.Error(t, err)
}

func TestLineConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var prompt bytes.Buffer

			got, err := newLineConfirmer(strings.NewReader(tt.input), &prompt).Confirm(context.Background(), "Proceed?")
			require.NoError(t, err)

			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(prompt.String(), "Proceed? [y/N] "))
		})
	}
}
