package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := Write(dir, "<html>A</html>")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.html"), path)

	path, err = Write(dir, "<html>B</html>")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>B</html>", string(data))
	assert.NoFileExists(t, path+".tmp")
}

func TestWrite_Empty(t *testing.T) {
	_, err := Write(t.TempDir(), "")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="index.html"`, ContentDisposition())
}
