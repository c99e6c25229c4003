package engine

import "github.com/ezerfernandes/dotmd/internal/directive"

// Kind classifies the outcome of a directive.
type Kind int

const (
	KindOK Kind = iota
	KindSkipped
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindSkipped:
		return "skipped"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of executing one directive.
type Result struct {
	Directive *directive.Directive
	Index     int
	Kind      Kind
	// Message is a short human-readable summary, or the reason for a skip.
	Message string
	Err     error

	// Target is the path that was written or linked.
	Target string
	// Staging is the staged copy a symlink points at.
	Staging string
	// Backup is the path holding the content that was replaced.
	Backup string
	// Warnings are problems that did not stop the directive.
	Warnings []string

	// Halt asks the caller to stop the batch after this result.
	Halt bool
}

func ok(message string) Result {
	return Result{Kind: KindOK, Message: message}
}

func skipped(reason string) Result {
	return Result{Kind: KindSkipped, Message: reason}
}

func failed(message string, err error) Result {
	return Result{Kind: KindFailed, Message: message, Err: err}
}
