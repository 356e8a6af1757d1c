package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/ruangkita/reservation-service/internal/domain/providers"
)

// maxImageSize is the upload ceiling for facility images
const maxImageSize = 5 << 20 // 5MB

// UploadHandler handles facility image uploads
type UploadHandler struct {
	storage providers.StorageProvider
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(storage providers.StorageProvider) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// UploadImage handles POST /api/uploads/images. The content type is sniffed
// from the first bytes of the file, never trusted from the request.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "image must be at most 5MB")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		respondWithError(w, http.StatusBadRequest, "failed to read image")
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		respondWithError(w, http.StatusBadRequest, "file must be an image")
		return
	}

	reader := io.MultiReader(bytes.NewReader(head), file)
	url, err := h.storage.Store(r.Context(), header.Filename, contentType, reader)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"url": url,
	})
}
