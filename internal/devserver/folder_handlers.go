package devserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/R0CKSAM/drive-cli/internal/models"
)

type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type moveFolderRequest struct {
	ParentID *string `json:"parent_id"`
}

func (s *Server) listFoldersHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("all") == "1" {
		writeJSON(w, http.StatusOK, map[string][]models.Folder{"folders": s.store.AllFolders()})
		return
	}

	var parentID *string
	if v := r.URL.Query().Get("parent_id"); v != "" {
		if _, err := s.store.GetFolder(v); err != nil {
			writeStoreError(w, err)
			return
		}
		parentID = &v
	}
	writeJSON(w, http.StatusOK, map[string][]models.Folder{"folders": s.store.ListFolders(parentID)})
}

func (s *Server) createFolderHandler(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "Folder name cannot be empty")
		return
	}

	folder, err := s.store.CreateFolder(req.Name, req.ParentID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(models.EventCreated, "folder", folder.ID, folder.Name)
	writeJSON(w, http.StatusCreated, map[string]*models.Folder{"folder": folder})
}

func (s *Server) renameFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderID")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "Folder name cannot be empty")
		return
	}

	if err := s.store.RenameFolder(folderID, req.Name); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(models.EventRenamed, "folder", folderID, req.Name)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) moveFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderID")

	var req moveFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	if err := s.store.MoveFolder(folderID, req.ParentID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(models.EventMoved, "folder", folderID, "")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) trashFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderID")

	if err := s.store.TrashFolder(folderID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(models.EventTrashed, "folder", folderID, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) purgeFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderID")

	removedFiles, err := s.store.PurgeFolder(folderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	for _, fileID := range removedFiles {
		if err := s.blobs.Remove(fileID); err != nil {
			s.log.Warn("failed to remove blob during purge", zap.String("file_id", fileID), zap.Error(err))
		}
	}

	s.publish(models.EventPurged, "folder", folderID, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) restoreFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderID")

	if err := s.store.RestoreFolder(folderID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(models.EventRestored, "folder", folderID, "")
	w.WriteHeader(http.StatusOK)
}
