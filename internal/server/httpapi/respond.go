package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"lockbox/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps service errors onto the HTTP status taxonomy. Anything
// unmatched is a 500 with a generic body; raw internals never leak to the
// client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrDuplicateEmail):
		writeMessage(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, common.ErrVaultRequired):
		writeMessage(w, http.StatusBadRequest, "Vault is required")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, common.ErrVaultNotFound):
		writeMessage(w, http.StatusNotFound, "Vault not found")
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrFileTooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, common.ErrUnsupportedFileType):
		writeMessage(w, http.StatusUnsupportedMediaType, "Unsupported file type")
	case errors.Is(err, common.ErrBlobMissing):
		// Metadata exists but the bytes are gone. A consistency fault, not
		// an ordinary missing resource.
		s.logger.Error(r.Context(), "document blob missing", "path", r.URL.Path)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON decodes a request body strictly: unknown fields are rejected so
// a client cannot smuggle ownership fields into a write.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return common.ErrorValidation
	}
	return nil
}
