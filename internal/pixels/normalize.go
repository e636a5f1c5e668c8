package pixels

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Normalized is the result of mean normalization.
type Normalized struct {
	Image Image
	// Means holds the value subtracted from each channel.
	Means []float64
}

// Normalize subtracts each channel's mean, then rescales the whole centred
// array (min and max taken across all channels) into [0, 255]. A constant
// centred array produces an all-zero image.
func Normalize(m Image) Normalized {
	c := m.Channels
	means := make([]float64, c)
	out := Image{Width: m.Width, Height: m.Height, Channels: c, Pix: make([]uint8, len(m.Pix))}
	if len(m.Pix) == 0 {
		return Normalized{Image: out, Means: means}
	}

	planes := channelPlanes(m)
	for ch, p := range planes {
		means[ch] = stat.Mean(p, nil)
		floats.AddConst(-means[ch], p)
	}

	lo, hi := planes[0][0], planes[0][0]
	for _, p := range planes {
		lo = min(lo, floats.Min(p))
		hi = max(hi, floats.Max(p))
	}

	span := hi - lo
	if span > 0 {
		for ch, p := range planes {
			for i, v := range p {
				out.Pix[i*c+ch] = clampByte((v - lo) / span * 255)
			}
		}
	}
	return Normalized{Image: out, Means: means}
}

// ChannelStats are descriptive statistics of one channel.
type ChannelStats struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Describe computes mean, population standard deviation, min and max per channel.
func Describe(m Image) []ChannelStats {
	planes := channelPlanes(m)
	stats := make([]ChannelStats, len(planes))
	for ch, p := range planes {
		if len(p) == 0 {
			continue
		}
		mean, std := stat.PopMeanStdDev(p, nil)
		stats[ch] = ChannelStats{
			Mean: mean,
			Std:  std,
			Min:  floats.Min(p),
			Max:  floats.Max(p),
		}
	}
	return stats
}

// channelPlanes de-interleaves m into one float slice per channel.
func channelPlanes(m Image) [][]float64 {
	n := m.Width * m.Height
	planes := make([][]float64, m.Channels)
	for ch := range planes {
		planes[ch] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for ch := 0; ch < m.Channels; ch++ {
			planes[ch][i] = float64(m.Pix[i*m.Channels+ch])
		}
	}
	return planes
}
