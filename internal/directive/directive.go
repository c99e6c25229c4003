package directive

import (
	"crypto/sha256"
	"encoding/hex"
)

// Meta keys recognized in a code block's info string.
const (
	KeyAction   = "action"
	KeyTarget   = "targetPath"
	KeyTitle    = "title"
	KeyWhen     = "when"
	KeyDisabled = "disabled"
)

// Directive is the unit of work extracted from one fenced code block.
// Directives are rebuilt on every scan and never modified after parsing.
type Directive struct {
	Language   string
	Content    string
	RawMeta    string
	SourcePath string
	// Line is the line of the opening fence in the source document.
	Line int

	Action Action
	// TargetPath is absolute, or empty when the block names no target.
	TargetPath string
	Title      string
	When       string
	// Disabled is the raw value of the disabled flag.
	Disabled string

	// DisabledReason is empty when the directive is eligible to run.
	DisabledReason string
	Label          string

	// Options holds every key=value pair, including unknown keys.
	Options map[string]string
	// Extra holds positional tokens after the first one. They are not used.
	Extra []string
}

// Key returns the identity of the directive. Two directives with the same
// content are the same selection unit.
func (d *Directive) Key() string {
	return d.Content
}

// Fingerprint returns a stable hash of the directive's content, suitable for
// persisting a selection.
func (d *Directive) Fingerprint() string {
	return Fingerprint(d.Content)
}

// Fingerprint hashes block content the same way [Directive.Fingerprint] does.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))

	return hex.EncodeToString(sum[:])
}

// Eligible reports whether the directive may be executed.
func (d *Directive) Eligible() bool {
	return len(d.DisabledReason) == 0
}

// Option returns the raw value of a meta key.
func (d *Directive) Option(key string) string {
	return d.Options[key]
}
