package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lockbox/internal/server/services"
)

type credentialRequest struct {
	VaultID  *string `json:"vaultId"`
	Title    string  `json:"title"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	URL      string  `json:"url"`
	Notes    string  `json:"notes"`
}

func (c credentialRequest) params() services.CredentialParams {
	return services.CredentialParams{
		VaultID:  c.VaultID,
		Title:    c.Title,
		Username: c.Username,
		Secret:   c.Password,
		URL:      c.URL,
		Notes:    c.Notes,
	}
}

func (s *Server) handleCredentialList(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	creds, err := s.credentials.List(r.Context(), p.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"credentials": toCredentialDTOs(creds)})
}

func (s *Server) handleCredentialCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req credentialRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cred, err := s.credentials.Create(r.Context(), p.ID, req.params())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Credential created successfully",
		"credential": toCredentialDTO(cred),
	})
}

func (s *Server) handleCredentialGet(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	cred, err := s.credentials.Get(r.Context(), chi.URLParam(r, "id"), p.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"credential": toCredentialDTO(cred)})
}

func (s *Server) handleCredentialUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req credentialRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cred, err := s.credentials.Update(r.Context(), chi.URLParam(r, "id"), p.ID, req.params())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Credential updated successfully",
		"credential": toCredentialDTO(cred),
	})
}

func (s *Server) handleCredentialDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := s.credentials.Delete(r.Context(), chi.URLParam(r, "id"), p.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Credential deleted successfully")
}
