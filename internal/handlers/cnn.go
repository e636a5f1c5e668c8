package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/Brownie44l1/ai-dashboard/internal/ai"
	"github.com/Brownie44l1/ai-dashboard/internal/model"
	"github.com/Brownie44l1/ai-dashboard/internal/pixels"
	"github.com/Brownie44l1/ai-dashboard/internal/session"
)

const (
	cnnIndex     = "/cnn-visualizer/"
	cnnThumbnail = 800
)

type cnnForm struct {
	Text  bool
	Image bool
}

type cnnResult struct {
	Filename    string
	Original    template.URL
	Description string
	Blocks      []int
	Image       bool

	// Analysis is empty when no provider described the image.
	Analysis string
}

func (h *Handler) CNNIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "cnn_index.html", "CNN Visualizer", cnnForm{
		Text:  h.server.TextConfigured(),
		Image: h.server.ImageConfigured(),
	})
}

// CNNUpload shrinks the image, asks the text provider to describe it and
// caches the description for later block requests in this session.
func (h *Handler) CNNUpload(w http.ResponseWriter, r *http.Request) {
	up, err := h.readUpload(w, r)
	if err != nil {
		failUpload(w, r, cnnIndex, err)
		return
	}

	thumb := pixels.Thumbnail(up.Image, cnnThumbnail)
	data, err := pixels.EncodePNG(thumb)
	if err != nil {
		failUpload(w, r, cnnIndex, err)
		return
	}

	res := cnnResult{
		Filename:    up.Filename,
		Original:    template.URL(pixels.PNGDataURI(data)),
		Description: ai.UploadNotice,
		Blocks:      make([]int, ai.Blocks),
		Image:       h.server.ImageConfigured(),
	}
	for i := range res.Blocks {
		res.Blocks[i] = i + 1
	}

	id := session.ID(w, r, h.server.Config.SessionTTL)
	if analysis, ok := h.describe(r, data); ok {
		res.Description = analysis
		res.Analysis = analysis
		if err := h.server.Cache.Put(r.Context(), id, analysis); err != nil {
			log.Printf("Failed to cache image analysis: %v", err)
		}
	} else if err := h.server.Cache.Delete(r.Context(), id); err != nil {
		log.Printf("Failed to clear cached image analysis: %v", err)
	}

	h.render(w, r, "cnn_visualize.html", "CNN Visualizer", res)
}

// describe asks the provider for a description of png. It reports false
// when no provider can describe images or the call fails.
func (h *Handler) describe(r *http.Request, png []byte) (string, bool) {
	d, ok := h.server.Generator.(ai.Describer)
	if !ok {
		return "", false
	}
	text, err := d.DescribeImage(r.Context(), png, "image/png")
	if err != nil {
		if !errors.Is(err, ai.ErrNotConfigured) {
			log.Printf("Image analysis error: %v", err)
		}
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

// CNNVisualizeBlock explains what one CNN block would extract from the
// image and can optionally render that as a generated image.
func (h *Handler) CNNVisualizeBlock(w http.ResponseWriter, r *http.Request) {
	var req model.VisualizeBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: noticeBadJSON.Error()})
		return
	}
	if !ai.ValidBlock(req.BlockNumber) {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: noticeBadBlock.Error()})
		return
	}

	description := h.blockDescription(r, req.ImageDescription)

	prompt, err := ai.BlockPrompt(req.BlockNumber, description)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	resp := model.VisualizeBlockResponse{BlockNumber: req.BlockNumber}

	visualization, err := h.server.Generator.GenerateText(r.Context(), prompt)
	if err != nil {
		log.Printf("Block %d visualization error: %v", req.BlockNumber, err)
		resp.Error = aiErrorMessage("Visualization", err)
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Success = true
	resp.Visualization = visualization

	if req.GenerateImage {
		uri, err := h.blockImage(r, req.BlockNumber, description)
		if err != nil {
			log.Printf("Block %d image generation error: %v", req.BlockNumber, err)
			resp.ImageError = aiErrorMessage("Image generation", err)
		} else {
			resp.GeneratedImage = uri
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// blockDescription prefers the client's description, then the session's
// cached analysis, then a generic fallback.
func (h *Handler) blockDescription(r *http.Request, given string) string {
	if given = strings.TrimSpace(given); given != "" {
		return given
	}
	if id, ok := session.Lookup(r); ok {
		cached, err := h.server.Cache.Get(r.Context(), id)
		switch {
		case err == nil && cached != "":
			return cached
		case err != nil && !errors.Is(err, session.ErrNotFound):
			log.Printf("Failed to read cached analysis: %v", err)
		}
	}
	return ai.FallbackDescription
}

// blockImage generates an illustration and re-encodes it as a PNG data URI.
func (h *Handler) blockImage(r *http.Request, block int, description string) (string, error) {
	prompt, err := ai.BlockImagePrompt(block, description)
	if err != nil {
		return "", err
	}
	raw, err := h.server.Generator.GenerateImage(r.Context(), prompt)
	if err != nil {
		return "", err
	}
	img, _, err := pixels.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	return pixels.DataURI(img)
}
