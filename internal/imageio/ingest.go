// Package imageio normalizes uploaded screenshots into JPEG blobs that can be
// sent to a model.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"os"

	// registered decoders
	_ "image/gif"
	_ "image/png"

	"screen2html/internal/llm"
)

const (
	// MIMEType of every ingested image
	MIMEType = "image/jpeg"

	// MaxImageDimension is the maximum allowed width or height
	MaxImageDimension = 8192

	// MaxUploadBytes caps the size of an accepted upload
	MaxUploadBytes = 20 << 20

	jpegQuality = 90
)

var (
	// ErrUnsupportedFormat indicates the upload is not a JPEG, PNG or GIF
	ErrUnsupportedFormat = errors.New("unsupported image format (want jpg, jpeg, png or gif)")
	// ErrTooLarge indicates the upload exceeds the size or dimension limits
	ErrTooLarge = errors.New("image too large")
)

// Ingest decodes an uploaded image, drops any alpha channel by compositing
// onto white and re-encodes it as JPEG.
func Ingest(r io.Reader) (llm.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return llm.Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return llm.Image{}, ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return llm.Image{}, ErrUnsupportedFormat
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return llm.Image{}, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooLarge, cfg.Width, cfg.Height, MaxImageDimension)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return llm.Image{}, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flatten(src), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return llm.Image{}, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return llm.Image{MIMEType: MIMEType, Data: buf.Bytes()}, nil
}

// IngestFile ingests the image at path
func IngestFile(path string) (llm.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return llm.Image{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return Ingest(f)
}

// flatten draws src over an opaque white canvas
func flatten(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
