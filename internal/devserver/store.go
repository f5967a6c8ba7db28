// Package devserver hosts an in-memory implementation of the drive store
// API. It backs local development and serves as the remote fixture in tests;
// state lives for the lifetime of the process only.
package devserver

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jaevor/go-nanoid"

	"github.com/R0CKSAM/drive-cli/internal/hierarchy"
	"github.com/R0CKSAM/drive-cli/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrParentNotFound = errors.New("parent folder does not exist")
	ErrDuplicateName  = errors.New("an entry with the same name already exists in this folder")
	ErrCycle          = errors.New("cannot move a folder into itself or its descendants")
)

type memStore struct {
	mu      sync.RWMutex
	folders map[string]*models.Folder
	files   map[string]*models.File
	users   map[string]*models.User
	newID   func() string
}

func newMemStore() (*memStore, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return &memStore{
		folders: make(map[string]*models.Folder),
		files:   make(map[string]*models.File),
		users:   make(map[string]*models.User),
		newID:   generateID,
	}, nil
}

func (s *memStore) CreateUser(email, passwordHash string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[email] = u
	return u
}

func (s *memStore) GetUserByEmail(email string) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[email]
}

// liveFolders returns snapshots of every non-trashed folder.
func (s *memStore) liveFolders() []models.Folder {
	out := make([]models.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		if f.DeletedAt == nil {
			out = append(out, *f)
		}
	}
	return out
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// siblingFolderExists must be called with the lock held.
func (s *memStore) siblingFolderExists(parentID *string, name, excludeID string) bool {
	for _, f := range s.folders {
		if f.ID == excludeID || f.DeletedAt != nil {
			continue
		}
		if f.Name == name && sameParent(f.ParentID, parentID) {
			return true
		}
	}
	return false
}

func (s *memStore) siblingFileExists(folderID *string, name, excludeID string) bool {
	for _, f := range s.files {
		if f.ID == excludeID || f.DeletedAt != nil {
			continue
		}
		if f.Name == name && sameParent(f.FolderID, folderID) {
			return true
		}
	}
	return false
}

// parentIsLive must be called with the lock held.
func (s *memStore) parentIsLive(parentID *string) bool {
	if parentID == nil {
		return true
	}
	p, ok := s.folders[*parentID]
	return ok && p.DeletedAt == nil
}

func (s *memStore) CreateFolder(name string, parentID *string) (*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.parentIsLive(parentID) {
		return nil, ErrParentNotFound
	}
	if s.siblingFolderExists(parentID, name, "") {
		return nil, ErrDuplicateName
	}

	f := &models.Folder{
		ID:        s.newID(),
		Name:      name,
		ParentID:  copyID(parentID),
		CreatedAt: time.Now(),
	}
	s.folders[f.ID] = f
	snapshot := *f
	return &snapshot, nil
}

func (s *memStore) GetFolder(id string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.folders[id]
	if !ok || f.DeletedAt != nil {
		return nil, ErrNotFound
	}
	snapshot := *f
	return &snapshot, nil
}

func (s *memStore) ListFolders(parentID *string) []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Folder
	for _, f := range s.folders {
		if f.DeletedAt == nil && sameParent(f.ParentID, parentID) {
			out = append(out, *f)
		}
	}
	sortFoldersByName(out)
	return out
}

func (s *memStore) AllFolders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.liveFolders()
	sortFoldersByName(out)
	return out
}

func (s *memStore) RenameFolder(id, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok || f.DeletedAt != nil {
		return ErrNotFound
	}
	if s.siblingFolderExists(f.ParentID, newName, id) {
		return ErrDuplicateName
	}
	f.Name = newName
	return nil
}

// MoveFolder re-parents a folder. The cycle check is authoritative here: the
// client's validator is advisory and may have run on a partial tree.
func (s *memStore) MoveFolder(id string, newParentID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok || f.DeletedAt != nil {
		return ErrNotFound
	}
	if !s.parentIsLive(newParentID) {
		return ErrParentNotFound
	}
	if newParentID != nil {
		forbidden := hierarchy.ComputeForbiddenSet(id, s.liveFolders())
		if forbidden.Contains(*newParentID) {
			return ErrCycle
		}
	}
	if s.siblingFolderExists(newParentID, f.Name, id) {
		return ErrDuplicateName
	}

	f.ParentID = copyID(newParentID)
	return nil
}

// TrashFolder soft-deletes a folder together with its descendant closure and
// every file inside. Only the subtree root is detached and remembers its
// original parent; the rest of the subtree keeps its links so a restore
// brings the structure back intact.
func (s *memStore) TrashFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok || f.DeletedAt != nil {
		return ErrNotFound
	}

	now := time.Now()
	closure := hierarchy.ComputeForbiddenSet(id, s.liveFolders())
	for fid := range closure {
		folder := s.folders[fid]
		folder.DeletedAt = &now
	}
	for _, file := range s.files {
		if file.DeletedAt == nil && file.FolderID != nil && closure.Contains(*file.FolderID) {
			file.DeletedAt = &now
		}
	}

	f.OriginalParentID = f.ParentID
	f.ParentID = nil
	return nil
}

func (s *memStore) RestoreFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok || f.DeletedAt == nil || f.ParentID != nil {
		// Only subtree roots sit in the trash; descendants come back with
		// their root.
		return ErrNotFound
	}

	// Fall back to root when the original parent is gone or trashed.
	target := f.OriginalParentID
	if !s.parentIsLive(target) {
		target = nil
	}
	if s.siblingFolderExists(target, f.Name, id) {
		return ErrDuplicateName
	}

	deletedAt := *f.DeletedAt
	for _, folder := range s.folders {
		if folder.DeletedAt != nil && folder.DeletedAt.Equal(deletedAt) && s.inTrashedSubtree(folder, id) {
			folder.DeletedAt = nil
		}
	}
	for _, file := range s.files {
		if file.DeletedAt != nil && file.DeletedAt.Equal(deletedAt) && file.FolderID != nil {
			if owner, ok := s.folders[*file.FolderID]; ok && owner.DeletedAt == nil {
				file.DeletedAt = nil
			}
		}
	}

	f.DeletedAt = nil
	f.ParentID = target
	f.OriginalParentID = nil
	return nil
}

// inTrashedSubtree reports whether folder hangs under rootID through parent
// links, with a visited guard against corrupt state. Lock must be held.
func (s *memStore) inTrashedSubtree(folder *models.Folder, rootID string) bool {
	seen := map[string]bool{}
	cur := folder
	for {
		if cur.ID == rootID {
			return true
		}
		if cur.ParentID == nil || seen[cur.ID] {
			return false
		}
		seen[cur.ID] = true
		next, ok := s.folders[*cur.ParentID]
		if !ok {
			return false
		}
		cur = next
	}
}

// PurgeFolder permanently removes a folder, its descendants and their files.
// It accepts both live and trashed folders and returns the IDs of removed
// files so the caller can drop their blobs.
func (s *memStore) PurgeFolder(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[id]; !ok {
		return nil, ErrNotFound
	}

	all := make([]models.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		all = append(all, *f)
	}
	closure := hierarchy.ComputeForbiddenSet(id, all)

	var removedFiles []string
	for fid := range closure {
		delete(s.folders, fid)
	}
	for _, file := range s.files {
		if file.FolderID != nil && closure.Contains(*file.FolderID) {
			removedFiles = append(removedFiles, file.ID)
			delete(s.files, file.ID)
		}
	}
	return removedFiles, nil
}

func (s *memStore) CreateFile(name, mimeType string, size int64, folderID *string) (*models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.parentIsLive(folderID) {
		return nil, ErrParentNotFound
	}

	f := &models.File{
		ID:        s.newID(),
		Name:      name,
		MimeType:  mimeType,
		SizeBytes: size,
		FolderID:  copyID(folderID),
		CreatedAt: time.Now(),
	}
	s.files[f.ID] = f
	snapshot := *f
	return &snapshot, nil
}

func (s *memStore) GetFile(id string) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[id]
	if !ok || f.DeletedAt != nil {
		return nil, ErrNotFound
	}
	snapshot := *f
	return &snapshot, nil
}

func (s *memStore) ListFiles(folderID *string) []models.File {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.File
	for _, f := range s.files {
		if f.DeletedAt == nil && sameParent(f.FolderID, folderID) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *memStore) RenameFile(id, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok || f.DeletedAt != nil {
		return ErrNotFound
	}
	if s.siblingFileExists(f.FolderID, newName, id) {
		return ErrDuplicateName
	}
	f.Name = newName
	return nil
}

func (s *memStore) MoveFile(id string, folderID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok || f.DeletedAt != nil {
		return ErrNotFound
	}
	if !s.parentIsLive(folderID) {
		return ErrParentNotFound
	}
	if s.siblingFileExists(folderID, f.Name, id) {
		return ErrDuplicateName
	}

	f.FolderID = copyID(folderID)
	return nil
}

func (s *memStore) TrashFile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok || f.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now()
	f.DeletedAt = &now
	f.OriginalFolderID = f.FolderID
	f.FolderID = nil
	return nil
}

func (s *memStore) RestoreFile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok || f.DeletedAt == nil || f.FolderID != nil {
		return ErrNotFound
	}

	target := f.OriginalFolderID
	if !s.parentIsLive(target) {
		target = nil
	}
	if s.siblingFileExists(target, f.Name, id) {
		return ErrDuplicateName
	}

	f.DeletedAt = nil
	f.FolderID = target
	f.OriginalFolderID = nil
	return nil
}

func (s *memStore) PurgeFile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return ErrNotFound
	}
	delete(s.files, id)
	return nil
}

// ListTrash returns trashed subtree roots and directly trashed files,
// newest first, matching what a trash view shows.
func (s *memStore) ListTrash() ([]models.Folder, []models.File) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var folders []models.Folder
	for _, f := range s.folders {
		if f.DeletedAt != nil && f.ParentID == nil {
			folders = append(folders, *f)
		}
	}
	var files []models.File
	for _, f := range s.files {
		if f.DeletedAt != nil && f.FolderID == nil {
			files = append(files, *f)
		}
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].DeletedAt.After(*folders[j].DeletedAt) })
	sort.Slice(files, func(i, j int) bool { return files[i].DeletedAt.After(*files[j].DeletedAt) })
	return folders, files
}

func sortFoldersByName(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
