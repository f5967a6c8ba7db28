// Package hierarchy keeps the folder tree consistent on the client side: it
// computes which destinations a folder move must never target and backs that
// with a throwaway adjacency index built per call. Nothing here talks to the
// network; callers fetch a folder snapshot first and hand it in.
package hierarchy

import "github.com/R0CKSAM/drive-cli/internal/models"

// rootKey stands in for the nil parent so the index can use plain string keys.
const rootKey = ""

// ChildIndex maps a parent folder ID to its direct children. It is a pure
// function of the folder list it was built from and is discarded after one
// validation or reconstruction pass.
type ChildIndex map[string][]models.Folder

func BuildChildIndex(folders []models.Folder) ChildIndex {
	idx := make(ChildIndex, len(folders))
	for _, f := range folders {
		key := rootKey
		if f.ParentID != nil {
			key = *f.ParentID
		}
		idx[key] = append(idx[key], f)
	}
	return idx
}

// Children returns the direct children of parentID (nil for root).
func (idx ChildIndex) Children(parentID *string) []models.Folder {
	key := rootKey
	if parentID != nil {
		key = *parentID
	}
	return idx[key]
}
