package file

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/filedrop/service/internal/response"
)

// UploadResponse is the body returned by a successful upload.
type UploadResponse struct {
	FilePath    string `json:"file_path"`
	StorageType string `json:"storage_type"`
	Data        File   `json:"data"`
}

// Handler holds the HTTP handlers for the file endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new file Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Accepts a multipart form with a single "file" field, stores the bytes in the configured backend and records metadata.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"File to upload"
//	@Success		200		{object}	UploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		413		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		response.BadRequest(w, "No file provided")
		return
	}
	if err != nil {
		response.BadRequest(w, "Invalid multipart data")
		return
	}
	defer f.Close()

	if header.Filename == "" {
		response.BadRequest(w, "No filename provided")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(w, "Failed to read file data")
		return
	}

	created, err := h.svc.Upload(r.Context(), header.Filename, data)
	switch {
	case errors.Is(err, ErrTooLarge):
		response.PayloadTooLarge(w, "File too large")
		return
	case errors.Is(err, ErrTypeNotAllowed):
		response.BadRequest(w, "File type not allowed")
		return
	case errors.Is(err, ErrStorage):
		response.Internal(w, "Failed to upload file")
		return
	case err != nil:
		response.Internal(w, "Failed to save file metadata")
		return
	}

	response.JSON(w, http.StatusOK, UploadResponse{
		FilePath:    "/files/uploads/" + created.ID,
		StorageType: created.StorageType,
		Data:        created,
	})
}

// Get godoc
//
//	@Summary		Download a file
//	@Description	Streams the stored bytes for a public file record.
//	@Tags			files
//	@Produce		octet-stream
//	@Param			id	path		string	true	"File ID"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/files/uploads/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	f, data, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "File not found")
		return
	}
	if err != nil {
		response.Internal(w, "Database error")
		return
	}

	// Records are immutable after creation, so the id is a valid ETag even
	// though it says nothing about the content.
	w.Header().Set("Content-Type", h.svc.ContentType(f))
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("ETag", `"`+f.ID+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// List godoc
//
//	@Summary		List files
//	@Description	Lists public file records, newest first. limit defaults to 10 and is capped at 500.
//	@Tags			files
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum number of records"
//	@Success		200		{array}		PublicFile
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/files/uploads [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	files, err := h.svc.List(r.Context(), limit)
	if err != nil {
		response.Internal(w, "Failed to fetch files")
		return
	}

	response.JSON(w, http.StatusOK, files)
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Description	Removes the stored object and then the metadata row.
//	@Tags			files
//	@Produce		json
//	@Param			id	path		string	true	"File ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/files/uploads/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.svc.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "File not found")
		return
	case errors.Is(err, ErrStorage):
		response.Internal(w, "Failed to delete file")
		return
	case err != nil:
		response.Internal(w, "Database error")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}
