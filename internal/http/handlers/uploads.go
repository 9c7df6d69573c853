package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"meshforge/internal/storage"
)

type uploadTicketRequest struct {
	Filename string `json:"filename" validate:"required"`
	// ContentType is advisory; the client sets the real header on its PUT.
	ContentType string `json:"content_type"`
}

type uploadTicketResponse struct {
	UploadURL  string `json:"upload_url"`
	ObjectName string `json:"object_name"`
	ExpiresIn  int    `json:"expires_in"`
}

// CreateUploadTicket mints a presigned PUT URL so clients push input images
// straight to object storage. The returned object name is what the client
// then passes as input_path on job creation.
func (a *App) CreateUploadTicket(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req uploadTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "filename required")
		return
	}
	filename := sanitizeFilename(req.Filename)
	if filename == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid filename")
		return
	}

	objectName := "uploads/" + uuid.NewString() + "/" + filename
	url, err := a.Blob.PresignPut(r.Context(), objectName, a.PresignExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrPresignUnsupported) {
			a.error(w, http.StatusNotImplemented, "unsupported", "direct uploads unavailable on this storage backend")
			return
		}
		a.Logger.Error().Err(err).Msg("upload ticket: presign failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not mint upload url")
		return
	}
	a.json(w, http.StatusCreated, uploadTicketResponse{
		UploadURL:  url,
		ObjectName: objectName,
		ExpiresIn:  int(a.PresignExpiry.Seconds()),
	})
}

// sanitizeFilename strips directory components and rejects names that would
// escape the upload prefix.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		return ""
	}
	return name
}
