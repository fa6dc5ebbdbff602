// Package artifact writes the generated page as a downloadable file.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// Filename of the downloadable page
	Filename = "index.html"

	// MIMEType of the downloadable page
	MIMEType = "text/html"
)

// ErrEmpty is returned when there is no HTML to save
var ErrEmpty = errors.New("no HTML to save")

// Write saves html as dir/index.html, replacing any previous file atomically,
// and returns the path written.
func Write(dir, html string) (string, error) {
	if html == "" {
		return "", ErrEmpty
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, Filename)

	// Write to temp file
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}

	return path, nil
}

// ContentDisposition is the header value that makes browsers download the page
func ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%q", Filename)
}
