// Package httpapi exposes the server's functionality over HTTP/JSON. All
// resource routes sit behind a bearer-token guard; the verified principal is
// the only source of ownership downstream.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"lockbox/internal/logging"
	"lockbox/internal/server/config"
	"lockbox/internal/server/models"
	"lockbox/internal/server/services"
)

// UserService is the identity surface the transport needs.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GetCurrentUser(ctx context.Context, id string) (*models.User, error)
}

type VaultService interface {
	List(ctx context.Context, ownerID string) ([]*models.Vault, error)
	Get(ctx context.Context, id, ownerID string) (*models.Vault, error)
	Create(ctx context.Context, ownerID string, p services.VaultParams) (*models.Vault, error)
	Update(ctx context.Context, id, ownerID string, p services.VaultParams) (*models.Vault, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type CredentialService interface {
	List(ctx context.Context, ownerID string) ([]*models.Credential, error)
	Get(ctx context.Context, id, ownerID string) (*models.Credential, error)
	Create(ctx context.Context, ownerID string, p services.CredentialParams) (*models.Credential, error)
	Update(ctx context.Context, id, ownerID string, p services.CredentialParams) (*models.Credential, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type DocumentService interface {
	List(ctx context.Context, ownerID string) ([]*models.Document, error)
	ListByVault(ctx context.Context, ownerID, vaultID string) ([]*models.Document, error)
	Get(ctx context.Context, id, ownerID string) (*models.Document, error)
	Upload(ctx context.Context, ownerID string, p services.UploadParams) (*models.Document, error)
	Open(ctx context.Context, id, ownerID string) (*models.Document, io.ReadCloser, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type Server struct {
	address        string
	logger         logging.Logger
	jwtSecret      []byte
	uploadMaxBytes int64
	corsOrigins    []string

	users       UserService
	vaults      VaultService
	credentials CredentialService
	documents   DocumentService
}

func NewServer(cfg *config.Config, l logging.Logger,
	us UserService, vs VaultService, cs CredentialService, ds DocumentService) *Server {
	return &Server{
		address:        cfg.EndpointAddr,
		logger:         l.With("module", "http_server"),
		jwtSecret:      []byte(cfg.SecretKey),
		uploadMaxBytes: cfg.UploadMaxBytes,
		corsOrigins:    cfg.CORSAllowedOrigins,
		users:          us,
		vaults:         vs,
		credentials:    cs,
		documents:      ds,
	}
}

// Handler assembles the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/me", s.handleMe)
			r.Post("/logout", s.handleLogout)
		})
	})

	r.Route("/api/vaults", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleVaultList)
		r.Post("/", s.handleVaultCreate)
		r.Get("/{id}", s.handleVaultGet)
		r.Put("/{id}", s.handleVaultUpdate)
		r.Delete("/{id}", s.handleVaultDelete)
	})

	r.Route("/api/credentials", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleCredentialList)
		r.Post("/", s.handleCredentialCreate)
		r.Get("/{id}", s.handleCredentialGet)
		r.Put("/{id}", s.handleCredentialUpdate)
		r.Delete("/{id}", s.handleCredentialDelete)
	})

	r.Route("/api/documents", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleDocumentList)
		r.Post("/", s.handleDocumentUpload)
		r.Get("/vault/{vaultId}", s.handleDocumentListByVault)
		r.Get("/{id}", s.handleDocumentGet)
		r.Get("/{id}/download", s.handleDocumentDownload)
		r.Get("/{id}/preview", s.handleDocumentPreview)
		r.Delete("/{id}", s.handleDocumentDelete)
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
