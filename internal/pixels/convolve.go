package pixels

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Convolve projects m to luma and applies k with edge-replication padding.
// Each output sample is the float weighted sum of the k.Size x k.Size
// neighbourhood, clamped to [0, 255] and truncated. The result always has
// one channel and the same width and height as m.
func Convolve(m Image, k Kernel) (Image, error) {
	if k.Size < 1 || k.Size%2 == 0 || len(k.Weights) != k.Size*k.Size {
		return Image{}, fmt.Errorf("invalid kernel: size %d with %d weights", k.Size, len(k.Weights))
	}

	w, h := m.Width, m.Height
	out := Image{Width: w, Height: h, Channels: 1, Pix: make([]uint8, w*h)}
	if w == 0 || h == 0 {
		return out, nil
	}

	plane := lumaPlane(m)
	pad := k.Size / 2

	// Rows are independent, so split them into bands.
	workers := runtime.GOMAXPROCS(0)
	if workers > h {
		workers = h
	}
	band := (h + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < h; start += band {
		end := min(start+band, h)
		g.Go(func() error {
			for y := start; y < end; y++ {
				for x := 0; x < w; x++ {
					var sum float64
					for ky := 0; ky < k.Size; ky++ {
						sy := clampIndex(y+ky-pad, h)
						row := plane[sy*w : (sy+1)*w]
						for kx := 0; kx < k.Size; kx++ {
							sum += row[clampIndex(x+kx-pad, w)] * k.Weights[ky*k.Size+kx]
						}
					}
					out.Pix[y*w+x] = clampByte(sum)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Image{}, err
	}
	return out, nil
}

// clampIndex maps an out-of-range coordinate to the nearest edge.
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
