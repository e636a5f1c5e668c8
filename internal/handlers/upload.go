package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Brownie44l1/ai-dashboard/internal/pixels"
)

// notice is an error whose text is shown to the user unchanged.
type notice string

func (n notice) Error() string { return string(n) }

const (
	noticeNoFile    notice = "No file selected"
	noticeBadType   notice = "Invalid file type. Please upload an image file."
	noticeTooLarge  notice = "File is too large. Please upload a smaller image."
	noticeTooBig    notice = "Image dimensions are too large. Please upload a smaller image."
	noticeNoText    notice = "Please enter some text to analyze."
	noticeNoWords   notice = "Please enter some words."
	noticeFewWords  notice = "Please enter at least 2 words."
	noticeBadBlock  notice = "Invalid block number"
	noticeBadJSON   notice = "Invalid JSON"
	noticeEmptyText notice = "Please enter some text."
)

// upload is a decoded image file from a multipart form.
type upload struct {
	Image    pixels.Image
	Filename string
	Format   string
}

// readUpload parses the "file" field of a multipart request. Errors that
// the user can fix are returned as notices.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.server.Config.MaxUploadBytes)

	// Parse multipart form, spilling to disk past 10MB
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return upload{}, noticeTooLarge
		}
		return upload{}, noticeNoFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return upload{}, noticeNoFile
	}
	defer file.Close()

	name := cleanFilename(header.Filename)
	if name == "" {
		return upload{}, noticeNoFile
	}
	if !pixels.AllowedExtension(name) {
		return upload{}, noticeBadType
	}

	log.Printf("Received file: %s, size: %d bytes", name, header.Size)

	img, format, err := pixels.Decode(file)
	if errors.Is(err, pixels.ErrTooManyPixels) {
		log.Printf("Rejected %s: %v", name, err)
		return upload{}, noticeTooBig
	}
	if err != nil {
		return upload{}, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	log.Printf("Image format: %s, dimensions: %dx%d", format, img.Width, img.Height)

	return upload{Image: img, Filename: name, Format: format}, nil
}

// cleanFilename strips any directory components a client sent.
func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// failUpload redirects back to index with a message for err.
func failUpload(w http.ResponseWriter, r *http.Request, index string, err error) {
	var n notice
	if errors.As(err, &n) {
		redirectWithFlash(w, r, index, n.Error())
		return
	}
	log.Printf("Upload processing error: %v", err)
	redirectWithFlash(w, r, index, "Error processing image: "+err.Error())
}
