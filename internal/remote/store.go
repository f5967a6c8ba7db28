// Package remote implements the client side of the drive store API. The
// store is the source of truth for the folder tree; everything in here is a
// thin, stateless wrapper around its REST surface.
package remote

import (
	"context"
	"io"

	"github.com/R0CKSAM/drive-cli/internal/models"
)

// Store is the contract the rest of the client programs against. Client
// implements it over HTTP; tests implement it in memory.
type Store interface {
	ListFolders(ctx context.Context, parentID *string) ([]models.Folder, error)

	// ListAllFolders fetches the full folder universe when the server
	// supports it. complete reports whether the result really is the whole
	// tree; when false the caller got the root level only and validation
	// runs in degraded mode.
	ListAllFolders(ctx context.Context) (folders []models.Folder, complete bool, err error)

	CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error)
	RenameFolder(ctx context.Context, id, newName string) error
	MoveFolder(ctx context.Context, id string, newParentID *string) error
	TrashFolder(ctx context.Context, id string) error
	RestoreFolder(ctx context.Context, id string) error
	PurgeFolder(ctx context.Context, id string) error

	ListFiles(ctx context.Context, folderID *string) ([]models.File, error)
	UploadFile(ctx context.Context, name string, folderID *string, content io.Reader) (*models.File, error)
	RenameFile(ctx context.Context, id, newName string) error
	MoveFile(ctx context.Context, id string, folderID *string) error
	TrashFile(ctx context.Context, id string) error
	RestoreFile(ctx context.Context, id string) error
	PurgeFile(ctx context.Context, id string) error
	DownloadURL(ctx context.Context, id string) (string, error)

	ListTrash(ctx context.Context) ([]models.Folder, []models.File, error)
}
