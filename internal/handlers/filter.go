package handlers

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/Brownie44l1/ai-dashboard/internal/pixels"
)

const (
	filterIndex = "/image-filter/"
	kernelSize  = 3
)

type kernelCell struct {
	Name  string
	Value float64
}

type filterForm struct {
	Presets []string
	Preset  string
	Rows    [][]kernelCell
}

type filterResult struct {
	Filename string
	Original template.URL
	Filtered template.URL
	Kernel   [][]float64
	Sum      float64
}

// kernelForm lays k out as named cells kernel_0..kernel_8 in row-major order.
func kernelForm(k pixels.Kernel) [][]kernelCell {
	rows := make([][]kernelCell, k.Size)
	for i, row := range k.Rows() {
		for j, v := range row {
			rows[i] = append(rows[i], kernelCell{Name: fmt.Sprintf("kernel_%d", i*k.Size+j), Value: v})
		}
	}
	return rows
}

func (h *Handler) FilterIndex(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("preset")
	k, ok := pixels.Presets[name]
	if !ok {
		name = "identity"
		k = pixels.IdentityKernel(kernelSize)
	}
	h.render(w, r, "filter_index.html", "Image Filter", filterForm{
		Presets: pixels.PresetNames(),
		Preset:  name,
		Rows:    kernelForm(k),
	})
}

func (h *Handler) FilterUpload(w http.ResponseWriter, r *http.Request) {
	up, err := h.readUpload(w, r)
	if err != nil {
		failUpload(w, r, filterIndex, err)
		return
	}

	values := make([]string, kernelSize*kernelSize)
	for i := range values {
		values[i] = r.FormValue(fmt.Sprintf("kernel_%d", i))
	}
	kernel := pixels.ParseKernel(values, kernelSize)

	filtered, err := pixels.Convolve(up.Image, kernel)
	if err != nil {
		failUpload(w, r, filterIndex, err)
		return
	}

	original, err := pixels.DataURI(up.Image)
	if err != nil {
		failUpload(w, r, filterIndex, err)
		return
	}
	result, err := pixels.DataURI(filtered)
	if err != nil {
		failUpload(w, r, filterIndex, err)
		return
	}

	h.render(w, r, "filter_result.html", "Image Filter", filterResult{
		Filename: up.Filename,
		Original: template.URL(original),
		Filtered: template.URL(result),
		Kernel:   kernel.Rows(),
		Sum:      kernel.Sum(),
	})
}
