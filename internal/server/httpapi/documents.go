package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lockbox/internal/common"
	"lockbox/internal/server/services"
)

func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	docs, err := s.documents.List(r.Context(), p.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": toDocumentDTOs(docs)})
}

func (s *Server) handleDocumentListByVault(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	docs, err := s.documents.ListByVault(r.Context(), p.ID, chi.URLParam(r, "vaultId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": toDocumentDTOs(docs)})
}

func (s *Server) handleDocumentGet(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"), p.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"document": toDocumentDTO(doc)})
}

// handleDocumentUpload accepts a multipart form with a "file" part and a
// "vaultId" field, plus an optional "name" display-name override. The whole
// request body is capped; the per-document ceiling is enforced downstream
// against the actual stream.
func (s *Server) handleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMaxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, common.ErrFileTooLarge)
			return
		}
		writeMessage(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	doc, err := s.documents.Upload(r.Context(), p.ID, services.UploadParams{
		VaultID:      r.FormValue("vaultId"),
		Name:         r.FormValue("name"),
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Document uploaded successfully",
		"document": toDocumentDTO(doc),
	})
}

func (s *Server) handleDocumentDownload(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, "attachment")
}

func (s *Server) handleDocumentPreview(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, "inline")
}

// serveDocument streams the blob with the stored MIME type. The disposition
// decides between download and in-browser preview.
func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, disposition string) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	doc, rc, err := s.documents.Open(r.Context(), chi.URLParam(r, "id"), p.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType(disposition, map[string]string{"filename": doc.OriginalName}))

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are written; nothing left to do but log.
		s.logger.Error(r.Context(), "streaming document", "id", doc.ID, "error", err)
	}
}

func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := s.documents.Delete(r.Context(), chi.URLParam(r, "id"), p.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Document deleted successfully")
}
