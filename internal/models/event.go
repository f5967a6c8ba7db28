package models

// ChangeEvent is broadcast over the websocket feed after every mutation so
// connected clients can refresh without polling.
type ChangeEvent struct {
	EventType string `json:"event_type"`
	Entity    string `json:"entity"`
	ID        string `json:"id"`
	Name      string `json:"name"`
}

const (
	EventCreated  = "created"
	EventMoved    = "moved"
	EventRenamed  = "renamed"
	EventTrashed  = "trashed"
	EventRestored = "restored"
	EventPurged   = "purged"
	EventUploaded = "uploaded"
)
