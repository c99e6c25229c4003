package directive

import (
	"os"
	"path/filepath"
	"runtime"
)

// Node is a fenced code block as delivered by the Markdown reader.
type Node struct {
	Language string
	Meta     string
	Content  string
	Line     int
}

// Options carries the host facts the parser depends on.
type Options struct {
	// Home replaces "~" and "$HOME" in target paths.
	Home string
	// GOOS is the host platform used to evaluate "when" predicates.
	GOOS string
}

// DefaultOptions describes the current host.
func DefaultOptions() Options {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}

	return Options{Home: home, GOOS: runtime.GOOS}
}

// Parse builds a directive from a code block of the document at sourcePath.
// Relative target paths resolve against the document's directory.
func Parse(node Node, sourcePath string, opts Options) *Directive {
	d := &Directive{
		Language:   node.Language,
		Content:    node.Content,
		RawMeta:    node.Meta,
		SourcePath: sourcePath,
		Line:       node.Line,
		Options:    make(map[string]string),
	}

	var positional string

	for _, tok := range Tokenize(node.Meta) {
		if !tok.Positional {
			d.Options[tok.Key] = tok.Value

			continue
		}

		if len(positional) == 0 {
			positional = tok.Value
		} else {
			d.Extra = append(d.Extra, tok.Value)
		}
	}

	target, explicit := d.Options[KeyTarget]
	if !explicit {
		target = positional
	}

	d.Action = ParseAction(d.Options[KeyAction])
	d.Title = d.Options[KeyTitle]
	d.When = d.Options[KeyWhen]
	d.Disabled = d.Options[KeyDisabled]
	d.TargetPath = ResolvePath(target, baseDir(sourcePath), opts.Home)
	d.DisabledReason = DisabledReason(d, opts.GOOS)
	d.Label = Label(d.Title, d.RawMeta, d.Action, d.Language, d.TargetPath)

	return d
}

// ParseAll parses every node of one document and drops the blocks that carry
// no action. Disabled directives are kept; see [Select].
func ParseAll(nodes []Node, sourcePath string, opts Options) []*Directive {
	directives := make([]*Directive, 0, len(nodes))

	for _, node := range nodes {
		d := Parse(node, sourcePath, opts)
		if d.Action.Kind == ActionNone {
			continue
		}

		directives = append(directives, d)
	}

	return directives
}

func baseDir(sourcePath string) string {
	dir := filepath.Dir(sourcePath)

	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}

	return dir
}
