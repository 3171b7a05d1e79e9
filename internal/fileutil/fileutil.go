// Package fileutil provides file and path utility functions shared by the
// resolver and the asset copy tasks.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CopyFile copies src to dst, creating parent directories as needed.
// Permissions on dst are 0644 regardless of the source mode.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- sources come from resolved resource roots
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	out, err := os.Create(dst) // #nosec G306 -- build artifacts are meant to be readable
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}

// CopyTree copies every regular file under srcRoot into dstRoot, preserving
// relative paths. Missing srcRoot is not an error; the copy is simply empty.
func CopyTree(srcRoot, dstRoot string) error {
	if !DirExists(srcRoot) {
		return nil
	}
	return filepath.WalkDir(srcRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		return CopyFile(path, filepath.Join(dstRoot, rel))
	})
}
