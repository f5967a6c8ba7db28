package devserver

import (
	"net/http"

	"github.com/R0CKSAM/drive-cli/internal/models"
)

type trashListResponse struct {
	Folders []models.Folder `json:"folders"`
	Files   []models.File   `json:"files"`
}

func (s *Server) trashListHandler(w http.ResponseWriter, r *http.Request) {
	folders, files := s.store.ListTrash()
	if folders == nil {
		folders = []models.Folder{}
	}
	if files == nil {
		files = []models.File{}
	}
	writeJSON(w, http.StatusOK, trashListResponse{Folders: folders, Files: files})
}
