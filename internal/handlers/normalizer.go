package handlers

import (
	"html/template"
	"net/http"

	"github.com/Brownie44l1/ai-dashboard/internal/pixels"
)

const normalizerIndex = "/image-normalizer/"

type channelRow struct {
	Channel    string
	Subtracted float64
	Original   pixels.ChannelStats
	Normalized pixels.ChannelStats
}

type normalizerResult struct {
	Filename   string
	Original   template.URL
	Normalized template.URL
	Color      bool
	Channels   []channelRow
}

func channelNames(m pixels.Image) []string {
	if m.Gray() {
		return []string{"Gray"}
	}
	return []string{"Red", "Green", "Blue"}
}

func (h *Handler) NormalizerIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "normalizer_index.html", "Image Normalizer", nil)
}

func (h *Handler) NormalizerUpload(w http.ResponseWriter, r *http.Request) {
	up, err := h.readUpload(w, r)
	if err != nil {
		failUpload(w, r, normalizerIndex, err)
		return
	}

	norm := pixels.Normalize(up.Image)
	before := pixels.Describe(up.Image)
	after := pixels.Describe(norm.Image)

	rows := make([]channelRow, 0, len(before))
	for i, name := range channelNames(up.Image) {
		rows = append(rows, channelRow{
			Channel:    name,
			Subtracted: norm.Means[i],
			Original:   before[i],
			Normalized: after[i],
		})
	}

	original, err := pixels.DataURI(up.Image)
	if err != nil {
		failUpload(w, r, normalizerIndex, err)
		return
	}
	normalized, err := pixels.DataURI(norm.Image)
	if err != nil {
		failUpload(w, r, normalizerIndex, err)
		return
	}

	h.render(w, r, "normalizer_result.html", "Image Normalizer", normalizerResult{
		Filename:   up.Filename,
		Original:   template.URL(original),
		Normalized: template.URL(normalized),
		Color:      !up.Image.Gray(),
		Channels:   rows,
	})
}
