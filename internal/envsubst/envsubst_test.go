package envsubst_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ezerfernandes/dotmd/internal/envsubst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplace(t *testing.T) {
	r := envsubst.New(map[string]string{
		"NAME":      "Ada",
		"NAME_FULL": "Ada Lovelace",
		"EMAIL":     "ada@example.com",
	}, envsubst.DefaultPrefix)

	src := "name = %NAME\nfull = %NAME_FULL\nemail = %EMAIL\nkeep = %UNKNOWN 100%"

	assert.Equal(t,
		"name = Ada\nfull = Ada Lovelace\nemail = ada@example.com\nkeep = %UNKNOWN 100%",
		string(r.Replace([]byte(src))))
	assert.Equal(t, 3, r.Len())
}

func TestReplaceCustomPrefix(t *testing.T) {
	r := envsubst.New(map[string]string{"USER": "me"}, "@@")

	assert.Equal(t, "me %USER", string(r.Replace([]byte("@@USER %USER"))))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GIT_EMAIL=me@example.com\n# comment\nQUOTED=\"a b\"\n"), 0o644))

	r, err := envsubst.Load(path, envsubst.DefaultPrefix)
	require.NoError(t, err)

	assert.Equal(t, "email = me@example.com, a b", string(r.Replace([]byte("email = %GIT_EMAIL, %QUOTED"))))
}

func TestLoadMissingFile(t *testing.T) {
	r, err := envsubst.Load(filepath.Join(t.TempDir(), ".env"), envsubst.DefaultPrefix)
	require.NoError(t, err)

	src := []byte("%ANYTHING")
	assert.Equal(t, src, r.Replace(src))
	assert.Zero(t, r.Len())
}

func TestNilReplacer(t *testing.T) {
	var r *envsubst.Replacer

	assert.Equal(t, "x", string(r.Replace([]byte("x"))))
}
