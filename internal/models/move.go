package models

type EntityType string

const (
	EntityFolder EntityType = "folder"
	EntityFile   EntityType = "file"
)

// MoveCandidate describes what the user is trying to relocate. It lives for
// the duration of one move interaction and is discarded afterwards.
type MoveCandidate struct {
	Type     EntityType
	ID       string
	Name     string
	ParentID *string
}
