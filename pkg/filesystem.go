package pkg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ScanSourceDirectory recursively collects every regular file under
// sourceDir. Classification happens later, per file; the walk itself does not
// filter by extension. Entries that cannot be read are skipped so one bad
// path does not abort the walk.
func ScanSourceDirectory(sourceDir string) ([]string, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source directory '%s' does not exist", sourceDir)
		}
		return nil, fmt.Errorf("error accessing source directory '%s': %w", sourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path '%s' is not a directory", sourceDir)
	}

	var files []string
	err = filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Returning nil continues the walk
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking through source directory '%s': %w", sourceDir, err)
	}

	if files == nil {
		return []string{}, nil // Return empty slice instead of nil
	}
	return files, nil
}

// ExecutePlacement carries out a planned placement: it creates any missing
// destination directories and then copies or moves the source file.
func ExecutePlacement(p *Placement) error {
	destDir := filepath.Dir(p.Destination)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", destDir, err)
	}

	if p.Copy {
		return CopyFile(p.Source, p.Destination)
	}
	return MoveFile(p.Source, p.Destination)
}

// CopyFile copies a file from srcPath to destPath and syncs the result to
// disk.
func CopyFile(srcPath, destPath string) error {
	sourceFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcPath, err)
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", destPath, err)
	}
	defer destinationFile.Close()

	if _, err := io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy content from %s to %s: %w", srcPath, destPath, err)
	}

	if err := destinationFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination file %s: %w", destPath, err)
	}

	return nil
}

// MoveFile renames srcPath to destPath, falling back to copy-and-remove when
// the rename fails (typically a cross-device move).
func MoveFile(srcPath, destPath string) error {
	if err := os.Rename(srcPath, destPath); err == nil {
		return nil
	}
	if err := CopyFile(srcPath, destPath); err != nil {
		return err
	}
	if err := os.Remove(srcPath); err != nil {
		return fmt.Errorf("failed to remove source file %s after copy: %w", srcPath, err)
	}
	return nil
}

// DeleteEmptyFolders removes empty directories under root, deepest first, so
// a chain of nested empty directories collapses in one pass. The root itself
// is never removed.
func DeleteEmptyFolders(root string) error {
	var dirs []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error walking directory '%s': %w", root, err)
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil {
			continue
		}
		if len(entries) == 0 {
			os.Remove(dirs[i])
		}
	}
	return nil
}
