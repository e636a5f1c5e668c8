package pixels

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Kernel is a square matrix of convolution weights stored row-major.
type Kernel struct {
	Size    int
	Weights []float64
}

// NewKernel checks that weights form an odd-sized square.
func NewKernel(size int, weights []float64) (Kernel, error) {
	if size < 1 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("kernel size must be odd and positive, got %d", size)
	}
	if len(weights) != size*size {
		return Kernel{}, fmt.Errorf("kernel of size %d needs %d weights, got %d", size, size*size, len(weights))
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return Kernel{Size: size, Weights: w}, nil
}

// ParseKernel builds a size x size kernel from form values. Missing,
// malformed or non-finite entries become 0.0 instead of failing the request.
func ParseKernel(values []string, size int) Kernel {
	w := make([]float64, size*size)
	for i := range w {
		if i >= len(values) {
			break
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(values[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		w[i] = v
	}
	return Kernel{Size: size, Weights: w}
}

// IdentityKernel has 1 at the centre and 0 elsewhere.
func IdentityKernel(size int) Kernel {
	w := make([]float64, size*size)
	w[size*size/2] = 1
	return Kernel{Size: size, Weights: w}
}

// Matrix exposes the weights as a gonum matrix sharing the same storage.
func (k Kernel) Matrix() *mat.Dense {
	return mat.NewDense(k.Size, k.Size, k.Weights)
}

// Rows returns a copy of the weights one row per slice, for display.
func (k Kernel) Rows() [][]float64 {
	m := k.Matrix()
	rows := make([][]float64, k.Size)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}

// Sum is the total of all weights.
func (k Kernel) Sum() float64 {
	return mat.Sum(k.Matrix())
}

// Presets are the 3x3 kernels offered as quick picks on the filter page.
var Presets = map[string]Kernel{
	"identity": IdentityKernel(3),
	"box_blur": {Size: 3, Weights: []float64{1.0 / 9, 1.0 / 9, 1.0 / 9, 1.0 / 9, 1.0 / 9, 1.0 / 9, 1.0 / 9, 1.0 / 9, 1.0 / 9}},
	"gaussian": {Size: 3, Weights: []float64{1.0 / 16, 2.0 / 16, 1.0 / 16, 2.0 / 16, 4.0 / 16, 2.0 / 16, 1.0 / 16, 2.0 / 16, 1.0 / 16}},
	"sharpen":  {Size: 3, Weights: []float64{0, -1, 0, -1, 5, -1, 0, -1, 0}},
	"edge":     {Size: 3, Weights: []float64{-1, -1, -1, -1, 8, -1, -1, -1, -1}},
	"emboss":   {Size: 3, Weights: []float64{-2, -1, 0, -1, 1, 1, 0, 1, 2}},
	"sobel_x":  {Size: 3, Weights: []float64{-1, 0, 1, -2, 0, 2, -1, 0, 1}},
	"sobel_y":  {Size: 3, Weights: []float64{-1, -2, -1, 0, 0, 0, 1, 2, 1}},
}

// PresetNames returns the preset keys in a stable order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
