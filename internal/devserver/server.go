package devserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/R0CKSAM/drive-cli/internal/auth"
	"github.com/R0CKSAM/drive-cli/internal/config"
	"github.com/R0CKSAM/drive-cli/internal/models"
	"github.com/R0CKSAM/drive-cli/internal/websocket"
)

type Server struct {
	cfg   config.ServeConfig
	store *memStore
	blobs *BlobStore
	hub   *websocket.Hub
	log   *zap.Logger
}

// New builds a ready-to-serve dev server and seeds the single configured
// user account.
func New(cfg config.ServeConfig, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	store, err := newMemStore()
	if err != nil {
		return nil, err
	}
	blobs, err := NewBlobStore(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(cfg.UserPass)
	if err != nil {
		return nil, err
	}
	store.CreateUser(cfg.UserEmail, hash)

	s := &Server{
		cfg:   cfg,
		store: store,
		blobs: blobs,
		hub:   websocket.NewHub(log),
		log:   log,
	}
	go s.hub.Run()
	return s, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(s.requestLogger)
	r.Use(metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", s.loginHandler)
	r.Get("/ws", s.serveWsHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/auth/me", s.meHandler)

		r.Get("/folders", s.listFoldersHandler)
		r.Post("/folders", s.createFolderHandler)
		r.Patch("/folders/{folderID}", s.renameFolderHandler)
		r.Patch("/folders/{folderID}/move", s.moveFolderHandler)
		r.Delete("/folders/{folderID}", s.trashFolderHandler)
		r.Delete("/folders/{folderID}/hard", s.purgeFolderHandler)
		r.Get("/folders/{folderID}/files", s.listFilesHandler)

		r.Post("/files/upload", s.uploadFileHandler)
		r.Patch("/files/{fileID}", s.renameFileHandler)
		r.Patch("/files/{fileID}/move", s.moveFileHandler)
		r.Delete("/files/{fileID}", s.trashFileHandler)
		r.Delete("/files/{fileID}/hard", s.purgeFileHandler)
		r.Get("/files/{fileID}/download", s.downloadURLHandler)
		r.Get("/files/{fileID}/content", s.fileContentHandler)

		r.Get("/trash", s.trashListHandler)
		r.Post("/restore/folder/{folderID}", s.restoreFolderHandler)
		r.Post("/restore/file/{fileID}", s.restoreFileHandler)
	})

	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.cfg.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.CORSOrigins
}

func (s *Server) publish(eventType, entity, id, name string) {
	s.hub.PublishEvent(models.ChangeEvent{
		EventType: eventType,
		Entity:    entity,
		ID:        id,
		Name:      name,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError emits the machine-readable error envelope the client maps back
// onto its sentinel errors.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

// writeStoreError translates store errors into status codes and stable codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrParentNotFound):
		writeError(w, http.StatusBadRequest, "parent_not_found", err.Error())
	case errors.Is(err, ErrDuplicateName):
		writeError(w, http.StatusConflict, "duplicate_name", err.Error())
	case errors.Is(err, ErrCycle):
		writeError(w, http.StatusConflict, "cycle_detected", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
