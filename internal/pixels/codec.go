package pixels

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned when uploaded bytes are not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrTooManyPixels is returned when an image's header declares more than
// MaxPixels pixels. Nothing past the header is decoded.
var ErrTooManyPixels = errors.New("image has too many pixels")

// MaxPixels caps width*height of a decoded image.
const MaxPixels = 89_478_485

// AllowedExtensions lists the upload extensions the tools accept.
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
}

// AllowedExtension reports whether filename carries one of AllowedExtensions.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return ext != "" && AllowedExtensions[ext]
}

// Decode reads an uploaded image and returns it with its format name.
// JPEG EXIF orientation is applied so the pixels match what a browser shows.
func Decode(r io.Reader) (Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Image{}, "", fmt.Errorf("failed to read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Image{}, format, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooManyPixels, cfg.Width, cfg.Height, MaxPixels)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, format, fmt.Errorf("failed to decode %s: %w", format, err)
	}

	return FromStd(src), format, nil
}

// Thumbnail shrinks m to fit within maxSize x maxSize, keeping the aspect
// ratio. Images already small enough are returned unchanged.
func Thumbnail(m Image, maxSize int) Image {
	if m.Width <= maxSize && m.Height <= maxSize {
		return m
	}
	out := resize.Thumbnail(uint(maxSize), uint(maxSize), ToStd(m), resize.Lanczos3)
	t := FromStd(out)
	if m.Gray() && !t.Gray() {
		return Luma(t)
	}
	return t
}

// EncodePNG encodes m as PNG.
func EncodePNG(m Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, ToStd(m)); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI encodes m for inline display as data:image/png;base64,...
func DataURI(m Image) (string, error) {
	data, err := EncodePNG(m)
	if err != nil {
		return "", err
	}
	return PNGDataURI(data), nil
}

// PNGDataURI wraps already-encoded PNG bytes.
func PNGDataURI(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}
