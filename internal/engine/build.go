package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/logger"
)

// build writes the directive's content to its target, creating parent
// directories and overwriting whatever is there.
func (e *Engine) build(ctx context.Context, d *directive.Directive) Result {
	target, err := absTarget(d)
	if errors.Is(err, ErrNoTarget) {
		return skipped("no targetPath")
	}

	if err != nil {
		return failed("cannot resolve target", err)
	}

	log := logger.FromContext(ctx)

	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return failed("cannot create parent directory", err)
	}

	if err := os.WriteFile(target, []byte(d.Content), fileMode); err != nil {
		return failed("cannot write "+target, err)
	}

	log.Debug("built file", "target", target, "bytes", len(d.Content))

	res := ok("built " + target)
	res.Target = target

	return res
}
