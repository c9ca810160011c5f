package ioutils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// invalidFileNameChars matches characters that are invalid in a file name on
// at least one supported platform: <>:"/\|?* and control characters.
var invalidFileNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeFileName replaces every character that is invalid in a file name
// with an underscore.
//
// The rules are the union of the Windows and POSIX rules, so a name that is
// valid on one platform is valid on all of them. Nothing else about the name
// changes, which makes the function idempotent:
//
//	SanitizeFileName("Song: Part 1/2")                   // "Song_ Part 1_2"
//	SanitizeFileName(SanitizeFileName(s)) == SanitizeFileName(s)
func SanitizeFileName(name string) string {
	return invalidFileNameChars.ReplaceAllString(name, "_")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CreateScoped creates (or truncates) the file at path, hands it to fn and
// always closes it afterwards.
//
// If fn fails, or the file cannot be flushed and closed, the file is removed
// so that no partial output is left behind. The first error is returned.
//
// Example:
//
//	err := CreateScoped(path, func(f *os.File) error {
//	    _, err := io.Copy(f, body)
//	    return err
//	})
func CreateScoped(path string, fn func(f *os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}

	defer func() {
		if syncErr := f.Sync(); syncErr != nil && err == nil {
			err = fmt.Errorf("flush %s: %w", filepath.Base(path), syncErr)
		}
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", filepath.Base(path), closeErr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return fn(f)
}
