package pixels

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Image is a row-major grid of 8-bit samples, interleaved when Channels is 3.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewImage allocates a zeroed image. Channels must be 1 (grayscale) or 3 (RGB).
func NewImage(width, height, channels int) (Image, error) {
	if channels != 1 && channels != 3 {
		return Image{}, fmt.Errorf("unsupported channel count %d: want 1 or 3", channels)
	}
	if width < 0 || height < 0 {
		return Image{}, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	return Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// At returns the sample at column x, row y and channel c.
func (m Image) At(x, y, c int) uint8 {
	return m.Pix[(y*m.Width+x)*m.Channels+c]
}

// Gray reports whether the image has a single channel.
func (m Image) Gray() bool { return m.Channels == 1 }

// Luma projects an RGB image to one channel with 0.2989R + 0.5870G + 0.1140B,
// truncating toward zero. Grayscale images are returned unchanged.
func Luma(m Image) Image {
	if m.Gray() {
		return m
	}
	plane := lumaPlane(m)
	out := Image{Width: m.Width, Height: m.Height, Channels: 1, Pix: make([]uint8, len(plane))}
	for i, v := range plane {
		out.Pix[i] = clampByte(v)
	}
	return out
}

// lumaPlane returns the float brightness of every pixel.
func lumaPlane(m Image) []float64 {
	n := m.Width * m.Height
	plane := make([]float64, n)
	if m.Gray() {
		for i, v := range m.Pix {
			plane[i] = float64(v)
		}
		return plane
	}
	for i := 0; i < n; i++ {
		r := float64(m.Pix[i*3])
		g := float64(m.Pix[i*3+1])
		b := float64(m.Pix[i*3+2])
		plane[i] = 0.2989*r + 0.5870*g + 0.1140*b
	}
	return plane
}

// clampByte clips v into [0, 255] and truncates the fraction.
func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// FromStd converts a decoded image into an Image. 8-bit gray sources keep
// one channel; everything else, 16-bit gray included, becomes RGB with
// alpha dropped.
func FromStd(src image.Image) Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch g := src.(type) {
	case *image.Gray:
		out := Image{Width: w, Height: h, Channels: 1, Pix: make([]uint8, w*h)}
		for y := 0; y < h; y++ {
			row := g.Pix[y*g.Stride : y*g.Stride+w]
			copy(out.Pix[y*w:(y+1)*w], row)
		}
		return out
	}

	out := Image{Width: w, Height: h, Channels: 3, Pix: make([]uint8, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*w + x) * 3
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
		}
	}
	return out
}

// ToStd returns a standard library image sharing no memory with m.
func ToStd(m Image) image.Image {
	rect := image.Rect(0, 0, m.Width, m.Height)
	if m.Gray() {
		g := image.NewGray(rect)
		copy(g.Pix, m.Pix)
		return g
	}
	out := image.NewNRGBA(rect)
	for i := 0; i < m.Width*m.Height; i++ {
		out.Pix[i*4] = m.Pix[i*3]
		out.Pix[i*4+1] = m.Pix[i*3+1]
		out.Pix[i*4+2] = m.Pix[i*3+2]
		out.Pix[i*4+3] = 0xff
	}
	return out
}
