package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/logger"
	"github.com/ezerfernandes/dotmd/internal/platform"
)

// stagingPath names the staged copy of a symlink directive. The index prefix
// keeps directives whose targets share a base name apart.
func (e *Engine) stagingPath(index int, target string) string {
	return filepath.Join(e.StagingDir(), fmt.Sprintf("%d-%s", index, filepath.Base(target)))
}

// symlink stages the directive's content under the build tree and points the
// target at it, backing up the content it replaces.
func (e *Engine) symlink(ctx context.Context, d *directive.Directive, index int) Result {
	target, err := absTarget(d)
	if errors.Is(err, ErrNoTarget) {
		return skipped("no targetPath")
	}

	if err != nil {
		return failed("cannot resolve target", err)
	}

	log := logger.FromContext(ctx).With("target", target)
	staging := e.stagingPath(index, target)

	for _, dir := range []string{filepath.Dir(staging), filepath.Dir(target)} {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return failed("cannot create directory "+dir, err)
		}
	}

	content := []byte(d.Content)

	if err := e.writeStaging(ctx, staging, content); err != nil {
		return failed("cannot stage "+staging, err)
	}

	res := Result{Kind: KindOK, Target: target, Staging: staging}

	backup, err := e.resolveConflict(ctx, target, content)

	switch {
	case err == nil:
		res.Backup = backup
	case errors.Is(err, ErrDirectoryTarget) || e.cfg.StrictBackup:
		res.Kind, res.Err = KindFailed, err
		res.Message = "target left untouched"

		return res
	default:
		log.Warn("replacing target without backup", "error", err)
		res.Warnings = append(res.Warnings, err.Error())
	}

	if err := platform.RemoveEntry(target); err != nil {
		res.Kind, res.Err = KindFailed, err
		res.Message = "cannot remove existing " + target

		return res
	}

	if err := platform.CreateSymlink(staging, target); err != nil {
		res.Kind, res.Err = KindFailed, err
		res.Message = "failed to create symlink at " + target

		return res
	}

	log.Debug("linked target", "staging", staging, "backup", backup)

	res.Message = fmt.Sprintf("linked %s to %s", target, staging)

	return res
}

// writeStaging writes the staged copy. When the first write fails, whatever
// occupies the staging path is moved aside and the write is retried once.
func (e *Engine) writeStaging(ctx context.Context, staging string, content []byte) error {
	err := os.WriteFile(staging, content, fileMode)
	if err == nil {
		return nil
	}

	aside := e.backupName(staging)

	logger.FromContext(ctx).Warn("staging write failed, retrying", "staging", staging, "aside", aside, "error", err)

	if rerr := os.Rename(staging, aside); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
		return fmt.Errorf("%w (moving aside: %v)", err, rerr)
	}

	return os.WriteFile(staging, content, fileMode)
}
