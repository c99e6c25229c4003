// Package engine applies directives to the filesystem: it writes build
// targets, stages and links symlink targets with conflict backups, and runs
// confirmed scripts.
//
// Execute never returns an error for a known action; every outcome is
// reported as a [Result] and the caller decides how to present it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/logger"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

var (
	ErrNoTarget           = errors.New("no targetPath")
	ErrBackupFailed       = errors.New("backup failed")
	ErrDirectoryTarget    = errors.New("target is a directory")
	ErrNotConfirmed       = errors.New("not confirmed")
	ErrUnknownInterpreter = errors.New("no interpreter for language")
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Presenter shows a script to the user before it is confirmed.
type Presenter interface {
	ShowScript(d *directive.Directive, lines []ScriptLine)
}

// Config holds everything an Engine needs for one batch.
type Config struct {
	// BuildDir is the root of the staging tree; symlink content is staged
	// under BuildDir/<Epoch>/links.
	BuildDir string
	// Epoch namespaces staging files and backup suffixes.
	Epoch string
	// StrictBackup fails a symlink directive when the existing target could
	// not be backed up. When false the target is replaced anyway.
	StrictBackup bool

	Confirmer Confirmer
	Presenter Presenter

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// TempDir holds materialized scripts. Empty means os.TempDir.
	TempDir string
}

// Engine executes directives. It keeps no state between calls.
type Engine struct {
	cfg Config
}

// New returns an Engine. A relative BuildDir is resolved against the working
// directory and an empty Epoch is taken from the current time.
func New(cfg Config) *Engine {
	if len(cfg.BuildDir) == 0 {
		cfg.BuildDir = "build"
	}

	if abs, err := filepath.Abs(cfg.BuildDir); err == nil {
		cfg.BuildDir = abs
	}

	if len(cfg.Epoch) == 0 {
		cfg.Epoch = NewEpoch(time.Now())
	}

	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}

	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	return &Engine{cfg: cfg}
}

// NewEpoch formats t as an ISO-8601 UTC timestamp usable in file names on
// every platform (":" is replaced by "-").
func NewEpoch(t time.Time) string {
	return strings.ReplaceAll(t.UTC().Format("2006-01-02T15:04:05.000Z"), ":", "-")
}

// Epoch returns the build epoch of this engine.
func (e *Engine) Epoch() string {
	return e.cfg.Epoch
}

// StagingDir returns the directory holding this epoch's symlink content.
func (e *Engine) StagingDir() string {
	return filepath.Join(e.cfg.BuildDir, e.cfg.Epoch, "links")
}

// Execute applies one directive. index is the directive's position in the
// batch and keeps staging file names unique.
func (e *Engine) Execute(ctx context.Context, d *directive.Directive, index int) Result {
	log := logger.FromContext(ctx).With("index", index, "action", d.Action.Name, "source", d.SourcePath)
	ctx = logger.WithLogger(ctx, log)

	log.Debug("executing directive", "label", d.Label)

	var res Result

	switch d.Action.Kind {
	case directive.ActionSection:
		res = ok(d.Label)
	case directive.ActionNone, directive.ActionUnknown:
		res = e.dispatch(ctx, d, index)
	default:
		if !d.Eligible() {
			log.Debug("directive disabled", "reason", d.DisabledReason)
			res = skipped("disabled: " + d.DisabledReason)

			break
		}

		res = e.dispatch(ctx, d, index)
	}

	res.Directive = d
	res.Index = index

	if res.Err != nil {
		log.Debug("directive failed", "error", res.Err)
	}

	return res
}

// dispatch applies an eligible directive.
func (e *Engine) dispatch(ctx context.Context, d *directive.Directive, index int) Result {
	switch d.Action.Kind {
	case directive.ActionBuild:
		return e.build(ctx, d)
	case directive.ActionSymlink:
		return e.symlink(ctx, d, index)
	case directive.ActionRun:
		return e.run(ctx, d)
	case directive.ActionNone:
		return skipped("no action")
	case directive.ActionUnknown:
		return skipped(fmt.Sprintf("don't know how to %s a '%s' block", d.Action.Name, d.Language))
	default:
		panic(fmt.Sprintf("engine: unhandled action kind %d (%q)", d.Action.Kind, d.Action.Name))
	}
}

// ExecuteAll runs directives in order and passes every result to report.
// The batch stops early only when a result asks to halt.
func (e *Engine) ExecuteAll(ctx context.Context, directives []*directive.Directive, report func(Result)) []Result {
	results := make([]Result, 0, len(directives))

	for i, d := range directives {
		res := e.Execute(ctx, d, i)
		results = append(results, res)

		if report != nil {
			report(res)
		}

		if res.Halt {
			break
		}
	}

	return results
}

func (e *Engine) confirm(ctx context.Context, message string) (bool, error) {
	if e.cfg.Confirmer == nil {
		return false, nil
	}

	return e.cfg.Confirmer.Confirm(ctx, message)
}

// absTarget guarantees an absolute target before touching the filesystem.
func absTarget(d *directive.Directive) (string, error) {
	if len(d.TargetPath) == 0 {
		return "", ErrNoTarget
	}

	return filepath.Abs(d.TargetPath)
}
