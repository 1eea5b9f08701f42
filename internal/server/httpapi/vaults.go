package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lockbox/internal/server/services"
)

type vaultRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (v vaultRequest) params() services.VaultParams {
	return services.VaultParams{Name: v.Name, Description: v.Description, Color: v.Color}
}

func (s *Server) handleVaultList(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vaults, err := s.vaults.List(r.Context(), p.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vaults": toVaultDTOs(vaults)})
}

func (s *Server) handleVaultCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req vaultRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	vault, err := s.vaults.Create(r.Context(), p.ID, req.params())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Vault created successfully",
		"vault":   toVaultDTO(vault),
	})
}

func (s *Server) handleVaultGet(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vault, err := s.vaults.Get(r.Context(), chi.URLParam(r, "id"), p.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vault": toVaultDTO(vault)})
}

func (s *Server) handleVaultUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req vaultRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	vault, err := s.vaults.Update(r.Context(), chi.URLParam(r, "id"), p.ID, req.params())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Vault updated successfully",
		"vault":   toVaultDTO(vault),
	})
}

func (s *Server) handleVaultDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := s.vaults.Delete(r.Context(), chi.URLParam(r, "id"), p.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Vault deleted successfully")
}
