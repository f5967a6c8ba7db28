package models

import "time"

// Folder is a read-only snapshot of a remotely stored folder. The server
// owns the record; clients never mutate a snapshot in place.
type Folder struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	ParentID  *string    `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// OriginalParentID remembers where a trashed folder lived so a restore
	// can put it back. Server-side only, never serialized.
	OriginalParentID *string `json:"-"`
}
