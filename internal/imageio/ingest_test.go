package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIngest_TransparentPNGBecomesWhiteJPEG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	// every other pixel stays fully transparent

	img, err := Ingest(bytes.NewReader(encodePNG(t, src)))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)

	decoded, err := jpeg.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 8, decoded.Bounds().Dx())
	assert.Equal(t, 4, decoded.Bounds().Dy())

	r, g, b, _ := decoded.At(7, 3).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestIngest_JPEGPassesThrough(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	img, err := Ingest(&buf)
	require.NoError(t, err)
	_, err = jpeg.Decode(bytes.NewReader(img.Data))
	assert.NoError(t, err)
}

func TestIngest_GIF(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 5, 5), color.Palette{color.White, color.Black})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, src, nil))

	img, err := Ingest(&buf)
	require.NoError(t, err)
	assert.Equal(t, MIMEType, img.MIMEType)
	assert.Contains(t, ErrUnsupportedFormat.Error(), "gif")
}

func TestIngest_RejectsNonImage(t *testing.T) {
	_, err := Ingest(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestIngest_RejectsHugeDimensions(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, MaxImageDimension+1, 1))
	_, err := Ingest(bytes.NewReader(encodePNG(t, src)))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestIngestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, image.NewRGBA(image.Rect(0, 0, 2, 2))), 0o600))

	img, err := IngestFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, img.Data)

	_, err = IngestFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
