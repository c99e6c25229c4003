package platform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const sidecarSuffix = ".target"

// CreateSymlink creates link pointing at target. On Windows it falls back to
// copying target and writing a sidecar when native symlinks are refused.
func CreateSymlink(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}

	if cerr := copyFile(resolveLink(link, target), link); cerr != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", cerr)
	}

	// The copy is usable without the sidecar; only ReadSymlinkTarget loses
	// track of the original target.
	_ = os.WriteFile(link+sidecarSuffix, []byte(target), 0o644) //nolint:gosec

	return nil
}

// ReadSymlinkTarget returns the target of a symlink, consulting the Windows
// sidecar when the link is an emulated copy.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil {
		return target, nil
	}

	if runtime.GOOS != "windows" {
		return "", err
	}

	data, rerr := os.ReadFile(path + sidecarSuffix)
	if rerr != nil {
		return "", fmt.Errorf("readlink failed and no %s sidecar found: %w", sidecarSuffix, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// ReadLinkedContent returns the content a symlink currently points at. The
// bool result is false when the link is broken or does not exist.
func ReadLinkedContent(link string) ([]byte, bool, error) {
	target, err := ReadSymlinkTarget(link)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}

		return nil, false, err
	}

	data, err := os.ReadFile(resolveLink(link, target))
	if err != nil {
		return nil, false, nil
	}

	return data, true, nil
}

// RemoveEntry removes a file or symlink at path along with any sidecar. A
// missing path is not an error. Directories are never removed.
func RemoveEntry(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	if info.IsDir() {
		return fmt.Errorf("refusing to remove directory %s", path)
	}

	if err := os.Remove(path); err != nil {
		return err
	}

	_ = os.Remove(path + sidecarSuffix)

	return nil
}

// IsSymlink reports whether path is a symlink. A missing path is not.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// resolveLink anchors a relative link target at the link's directory.
func resolveLink(link, target string) string {
	if filepath.IsAbs(target) {
		return target
	}

	return filepath.Join(filepath.Dir(link), target)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Close()
}
