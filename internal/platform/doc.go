// Package platform wraps the filesystem calls that differ between hosts:
// creating, reading and removing managed symlinks. On Windows without
// symlink privileges a link is emulated by a copy of the target plus a
// ".target" sidecar that records where it points.
package platform
