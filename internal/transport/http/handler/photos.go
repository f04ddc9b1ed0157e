package handler

import (
	"net/http"

	"github.com/dating-api/internal/application/photo"
	"github.com/dating-api/internal/transport/http/middleware"
)

// maxUploadBytes caps multipart photo uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// PhotoHandler handles profile photo endpoints.
type PhotoHandler struct {
	svc photo.Service
}

func NewPhotoHandler(svc photo.Service) *PhotoHandler { return &PhotoHandler{svc: svc} }

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	url, err := h.svc.Upload(r.Context(), claims.UserID, header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeBody(r, &req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url required")
		return
	}
	if err := h.svc.Delete(r.Context(), claims.UserID, req.URL); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "photo deleted"})
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	urls, err := h.svc.SignedURLs(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"photos": urls})
}
