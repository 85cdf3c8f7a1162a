package pkg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// destTimestampLayout is the ISO-like filename pattern, with hyphens standing
// in for the colons that most filesystems reject.
const destTimestampLayout = "2006-01-02T15-04-05"

// PlanDestination computes the collision-free destination path for one media
// file. The directory hierarchy is destRoot/[camera]/YYYY/MM/DD/[camera],
// with the camera segment placed before the year in prefix mode or after the
// day otherwise, and omitted entirely when camera is empty. The filename is
// either the original name (keepName) or the capture timestamp plus the
// original extension.
//
// The uniqueness check and the eventual move are not atomic; a concurrent
// writer racing for the same name can still collide. Accepted limitation.
func PlanDestination(destRoot string, ts time.Time, camera string, sourcePath string, keepName, cameraPrefix bool) (string, error) {
	dir := destRoot
	if cameraPrefix && camera != "" {
		dir = filepath.Join(dir, camera)
	}
	dir = filepath.Join(dir, ts.Format("2006"), ts.Format("01"), ts.Format("02"))
	if !cameraPrefix && camera != "" {
		dir = filepath.Join(dir, camera)
	}

	filename, err := destFilename(ts, sourcePath, keepName)
	if err != nil {
		return "", err
	}

	return EnsureUniquePath(filepath.Join(dir, filename)), nil
}

// destFilename picks the destination filename for a planned media file.
func destFilename(ts time.Time, sourcePath string, keepName bool) (string, error) {
	if keepName {
		name := filepath.Base(sourcePath)
		if name == "" || name == "." || name == string(filepath.Separator) {
			// Should not happen for a path that was just read as a file.
			return "", fmt.Errorf("source path %q has no filename component", sourcePath)
		}
		return name, nil
	}

	name := ts.Format(destTimestampLayout)
	if ext := filepath.Ext(sourcePath); ext != "" {
		name += ext
	}
	return name, nil
}

// EnsureUniquePath returns path unchanged if nothing exists there, otherwise
// the first free variant with a _1, _2, ... suffix inserted before the
// extension (or appended, for extensionless names). Only a successful stat
// counts as a collision: when the path cannot be checked at all (for example
// a directory component exists as a regular file), the path is treated as
// free and the underlying problem surfaces when the placement is executed.
func EnsureUniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// UnknownDestination routes a non-media file to the fixed unknown/ directory
// under the destination root, keeping its original name. No date or camera
// grouping and no collision suffixing apply here.
func UnknownDestination(destRoot, sourcePath string) string {
	return filepath.Join(destRoot, "unknown", filepath.Base(sourcePath))
}
