package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/R0CKSAM/drive-cli/internal/models"
)

type moveFileRequest struct {
	FolderID *string `json:"folder_id"`
}

func (s *Server) listFilesHandler(w http.ResponseWriter, r *http.Request) {
	var folderID *string
	if seg := chi.URLParam(r, "folderID"); seg != "root" {
		if _, err := s.store.GetFolder(seg); err != nil {
			writeStoreError(w, err)
			return
		}
		folderID = &seg
	}
	writeJSON(w, http.StatusOK, map[string][]models.File{"files": s.store.ListFiles(folderID)})
}

func (s *Server) uploadFileHandler(w http.ResponseWriter, r *http.Request) {
	// 64 MiB in memory before spilling to disk.
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid multipart body")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Missing file part")
		return
	}
	defer part.Close()

	name := header.Filename
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "File name cannot be empty")
		return
	}

	var folderID *string
	if v := r.FormValue("folder_id"); v != "" {
		folderID = &v
	}

	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file, err := s.store.CreateFile(name, mimeType, header.Size, folderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	size, err := s.blobs.Save(file.ID, part)
	if err != nil {
		s.log.Error("failed to persist blob", zap.String("file_id", file.ID), zap.Error(err))
		s.store.PurgeFile(file.ID)
		writeError(w, http.StatusInternalServerError, "internal", "Failed to store file content")
		return
	}
	file.SizeBytes = size

	s.publish(models.EventUploaded, "file", file.ID, file.Name)
	writeJSON(w, http.StatusCreated, map[string]*models.File{"file": file})
}

func (s *Server) renameFileHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "File name cannot be empty")
		return
	}

	if err := s.store.RenameFile(fileID, req.Name); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(models.EventRenamed, "file", fileID, req.Name)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) moveFileHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	var req moveFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	if err := s.store.MoveFile(fileID, req.FolderID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(models.EventMoved, "file", fileID, "")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) trashFileHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	if err := s.store.TrashFile(fileID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(models.EventTrashed, "file", fileID, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) purgeFileHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	if err := s.store.PurgeFile(fileID); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.blobs.Remove(fileID); err != nil {
		s.log.Warn("failed to remove blob", zap.String("file_id", fileID), zap.Error(err))
	}

	s.publish(models.EventPurged, "file", fileID, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) restoreFileHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	if err := s.store.RestoreFile(fileID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(models.EventRestored, "file", fileID, "")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) downloadURLHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	if _, err := s.store.GetFile(fileID); err != nil {
		writeStoreError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/files/%s/content", scheme, r.Host, fileID)
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) fileContentHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	file, err := s.store.GetFile(fileID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	blob, err := s.blobs.Open(fileID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "File content unavailable")
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	if _, err := io.Copy(w, blob); err != nil {
		s.log.Warn("interrupted download", zap.String("file_id", fileID), zap.Error(err))
	}
}
