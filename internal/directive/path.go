package directive

import (
	"path/filepath"
	"strings"
)

// homePrefixes are tried in order; "~" takes precedence over "$HOME".
var homePrefixes = []string{"~", "$HOME"}

// ExpandHome replaces a leading "~" or "$HOME" with home. The prefix only
// matches when it is the whole path or is directly followed by a path
// separator, so "~foo" and "$HOMEDIR/x" are returned unchanged.
func ExpandHome(path, home string) string {
	for _, prefix := range homePrefixes {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok {
			continue
		}

		if len(rest) == 0 || rest[0] == '/' || rest[0] == '\\' {
			return home + rest
		}
	}

	return path
}

// ResolvePath normalizes a target path: home shorthand is expanded and
// relative paths are anchored at baseDir. The result is absolute whenever
// baseDir is. An empty path stays empty.
func ResolvePath(path, baseDir, home string) string {
	if len(path) == 0 {
		return ""
	}

	path = ExpandHome(path, home)

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return filepath.Clean(path)
}
