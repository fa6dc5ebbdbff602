package terminal

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Input reads lines typed by the user
type Input struct {
	reader *bufio.Reader
}

// NewInput creates an Input reading from r
func NewInput(r io.Reader) *Input {
	return &Input{reader: bufio.NewReader(r)}
}

// ReadUserInput reads a line of input from the user
func (in *Input) ReadUserInput() (string, error) {
	input, err := in.reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}

	// Trim whitespace and newline
	return strings.TrimSpace(input), nil
}

// imageExts are the upload formats the pipeline accepts
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// IsImagePath reports whether path has an accepted image extension
func IsImagePath(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// FindImages searches workingDir for image files whose path matches partial
func FindImages(workingDir string, partial string) []string {
	matches := []string{}

	searchDir := workingDir
	pattern := strings.ToLower(partial)

	if strings.Contains(partial, "/") {
		dir, file := filepath.Split(partial)
		searchDir = filepath.Join(workingDir, dir)
		pattern = strings.ToLower(file)
	}

	_ = filepath.Walk(searchDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		relPath, err := filepath.Rel(workingDir, path)
		if err != nil || relPath == "." {
			return nil
		}

		// Skip hidden files and directories
		if strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() && IsImagePath(path) {
			relPathLower := strings.ToLower(relPath)
			isMatch := partial == "" ||
				strings.Contains(relPathLower, pattern) ||
				strings.Contains(strings.ToLower(info.Name()), pattern)

			if isMatch && len(matches) < 100 {
				matches = append(matches, relPath)
			}
		}

		// Limit depth to avoid scanning too deep
		if info.IsDir() && strings.Count(relPath, string(filepath.Separator)) >= 3 {
			return filepath.SkipDir
		}

		return nil
	})

	return matches
}
