package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ezerfernandes/dotmd/internal/logger"
	"github.com/ezerfernandes/dotmd/internal/platform"
)

func (e *Engine) backupName(path string) string {
	return path + ".bak-" + e.cfg.Epoch
}

// resolveConflict preserves the content currently reachable at target when
// it differs from content. It returns the backup path, or "" when nothing
// needed saving: the target is missing, is a broken symlink, or already
// holds the same content.
func (e *Engine) resolveConflict(ctx context.Context, target string, content []byte) (string, error) {
	existing, found, err := readExisting(target)
	if err != nil {
		return "", err
	}

	if !found || bytes.Equal(existing, content) {
		return "", nil
	}

	backup := e.backupName(target)

	if err := os.WriteFile(backup, existing, fileMode); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrBackupFailed, backup, err)
	}

	logger.FromContext(ctx).Debug("backup created", "target", target, "backup", backup)

	return backup, nil
}

// readExisting returns the content found at target. Symlinks are followed;
// a broken link counts as not found.
func readExisting(target string) ([]byte, bool, error) {
	info, err := os.Lstat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrBackupFailed, err)
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		data, found, err := platform.ReadLinkedContent(target)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrBackupFailed, err)
		}

		return data, found, nil
	case info.IsDir():
		return nil, false, fmt.Errorf("%w: %s", ErrDirectoryTarget, target)
	default:
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrBackupFailed, err)
		}

		return data, true, nil
	}
}
