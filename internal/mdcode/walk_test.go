package mdcode_test

import (
	"errors"
	"testing"

	"github.com/ezerfernandes/dotmd/internal/mdcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = "# Dotfiles\n" +
	"\n" +
	"```ini ~/.gitconfig action=symlink\n" +
	"[user]\n" +
	"  name = me\n" +
	"```\n" +
	"\n" +
	"Some prose.\n" +
	"\n" +
	"```sh action=run title=\"Install brew\"\n" +
	"echo hi\n" +
	"```\n" +
	"\n" +
	"```\n" +
	"plain\n" +
	"```\n"

func TestUnfence(t *testing.T) {
	blocks, err := mdcode.Unfence([]byte(document))
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, "ini", blocks[0].Lang)
	assert.Equal(t, "~/.gitconfig action=symlink", blocks[0].Info)
	assert.Equal(t, "[user]\n  name = me", string(blocks[0].Code))
	assert.Equal(t, 3, blocks[0].StartLine)

	assert.Equal(t, "sh", blocks[1].Lang)
	assert.Equal(t, `action=run title="Install brew"`, blocks[1].Info)
	assert.Equal(t, "echo hi", string(blocks[1].Code))

	assert.Empty(t, blocks[2].Lang)
	assert.Empty(t, blocks[2].Info)
	assert.Equal(t, "plain", string(blocks[2].Code))
}

func TestUnfenceKeepsContentVerbatim(t *testing.T) {
	src := "```txt out.txt action=build\n\tindented\n  spaced  \n\nlast\n```\n"

	blocks, err := mdcode.Unfence([]byte(src))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	assert.Equal(t, "\tindented\n  spaced  \n\nlast", string(blocks[0].Code))
}

func TestUnfenceBracedInfo(t *testing.T) {
	blocks, err := mdcode.Unfence([]byte("```{action=section title=Shell}\n```\n"))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	assert.Empty(t, blocks[0].Lang)
	assert.Equal(t, "{action=section title=Shell}", blocks[0].Info)
	assert.Empty(t, blocks[0].Code)
}

func TestUnfenceHiddenBlock(t *testing.T) {
	src := "<!-- <script type=\"text/markdown\">\n" +
		"```sh action=run\n" +
		"echo hidden\n" +
		"```\n" +
		"</script> -->\n"

	blocks, err := mdcode.Unfence([]byte(src))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	assert.Equal(t, "sh", blocks[0].Lang)
	assert.Equal(t, "action=run", blocks[0].Info)
	assert.Equal(t, "echo hidden", string(blocks[0].Code))
}

func TestWalkStopsOnError(t *testing.T) {
	errStop := errors.New("stop")
	calls := 0

	err := mdcode.Walk([]byte(document), func(*mdcode.Block) error {
		calls++

		return errStop
	})

	require.ErrorIs(t, err, errStop)
	assert.Equal(t, 1, calls)
}

func TestUnfenceHiddenBlockFenceOnLastLine(t *testing.T) {
	src := "<script type=\"text/markdown\">\n" +
		"```ini ~/.gitconfig action=symlink\n" +
		"[user]\n" +
		"```\n"

	blocks, err := mdcode.Unfence([]byte(src))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	assert.Equal(t, "ini", blocks[0].Lang)
	assert.Equal(t, "~/.gitconfig action=symlink", blocks[0].Info)
	assert.Equal(t, "[user]", string(blocks[0].Code))
}
