package models

import "time"

type File struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	MimeType  string     `json:"mime_type"`
	SizeBytes int64      `json:"size_bytes"`
	FolderID  *string    `json:"folder_id"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	OriginalFolderID *string `json:"-"`
}
