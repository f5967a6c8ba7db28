package hierarchy

import "github.com/R0CKSAM/drive-cli/internal/models"

// ForbiddenSet holds the folder IDs that may not be chosen as a new parent
// for the folder being moved: the folder itself plus its descendant closure.
type ForbiddenSet map[string]struct{}

func (s ForbiddenSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// ComputeForbiddenSet walks the subtree rooted at subjectID over the supplied
// folder list and collects every ID reachable through child links, subject
// included. The list may be partial (degraded mode, root level only); the set
// is then best-effort and the server remains the authority on cycle checks.
//
// A visited guard makes the walk terminate even on corrupt input that
// contains a parent cycle.
func ComputeForbiddenSet(subjectID string, folders []models.Folder) ForbiddenSet {
	forbidden := ForbiddenSet{subjectID: {}}

	idx := BuildChildIndex(folders)

	stack := append([]models.Folder(nil), idx[subjectID]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if forbidden.Contains(cur.ID) {
			continue
		}
		forbidden[cur.ID] = struct{}{}
		stack = append(stack, idx[cur.ID]...)
	}

	return forbidden
}

// IsValidDestination reports whether proposedParentID is an acceptable new
// parent for the move candidate. A destination equal to the candidate's
// current parent is a no-op and is rejected so callers get a clear
// nothing-to-do signal instead of issuing a redundant move.
func IsValidDestination(forbidden ForbiddenSet, subject models.MoveCandidate, proposedParentID *string) bool {
	if sameParent(subject.ParentID, proposedParentID) {
		return false
	}
	if proposedParentID == nil {
		return true
	}
	if subject.Type != models.EntityFolder {
		// Files cannot form cycles; only the no-op rule applies.
		return true
	}
	return !forbidden.Contains(*proposedParentID)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
