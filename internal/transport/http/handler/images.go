package handler

import (
	"errors"
	"net/http"

	"github.com/seller-portal-api/internal/application/image"
	"github.com/seller-portal-api/internal/domain"
)

// ImageHandler handles product image uploads.
type ImageHandler struct {
	svc image.Service
}

func NewImageHandler(svc image.Service) *ImageHandler {
	return &ImageHandler{svc: svc}
}

// Upload handles POST /upload-product-image (multipart, field "productImage").
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, UploadEnvelope{Message: "error processing image file"})
		return
	}
	file, header, err := r.FormFile("productImage")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, UploadEnvelope{Message: "no image file uploaded"})
		return
	}
	defer file.Close()

	up, err := h.svc.Upload(r.Context(), image.UploadInput{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		SellerID:    r.FormValue("userId"),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrBadRequest) {
			status = http.StatusBadRequest
		} else if errors.Is(err, domain.ErrExternal) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, UploadEnvelope{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, UploadEnvelope{
		Success:  true,
		ImageURL: up.ImageURL,
		PublicID: up.PublicID,
	})
}
