package terminal

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUserInput(t *testing.T) {
	in := NewInput(strings.NewReader("  make it red \n/exit"))

	line, err := in.ReadUserInput()
	require.NoError(t, err)
	assert.Equal(t, "make it red", line)

	line, err = in.ReadUserInput()
	require.NoError(t, err)
	assert.Equal(t, "/exit", line)

	_, err = in.ReadUserInput()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFindImages(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"login.png", "shots/home.JPG", "notes.txt", ".hidden/secret.png"} {
		full := filepath.Join(dir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o600))
	}

	assert.ElementsMatch(t, []string{"login.png", filepath.Join("shots", "home.JPG")}, FindImages(dir, ""))
	assert.Equal(t, []string{"login.png"}, FindImages(dir, "log"))
	assert.Equal(t, []string{filepath.Join("shots", "home.JPG")}, FindImages(dir, "shots/ho"))
}

func TestIsImagePath(t *testing.T) {
	for _, p := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif"} {
		assert.True(t, IsImagePath(p), p)
	}
	for _, p := range []string{"e.webp", "f.txt", "noext"} {
		assert.False(t, IsImagePath(p), p)
	}
}

func TestSpinner_NotTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf)
	s.Start("Generating website")
	s.Stop()
	assert.Contains(t, buf.String(), "Generating website...")
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, 80, Width(&buf, 80))
}
