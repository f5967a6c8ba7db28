package devserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *memStore {
	t.Helper()
	s, err := newMemStore()
	require.NoError(t, err)
	return s
}

func TestMemStore_MoveFolderCycle(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateFolder("A", nil)
	require.NoError(t, err)
	b, err := s.CreateFolder("B", &a.ID)
	require.NoError(t, err)

	require.ErrorIs(t, s.MoveFolder(a.ID, &a.ID), ErrCycle)
	require.ErrorIs(t, s.MoveFolder(a.ID, &b.ID), ErrCycle)

	// The inverse direction is fine.
	require.NoError(t, s.MoveFolder(b.ID, nil))
}

func TestMemStore_DuplicateNames(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateFolder("Docs", nil)
	require.NoError(t, err)

	_, err = s.CreateFolder("Docs", nil)
	require.ErrorIs(t, err, ErrDuplicateName)

	// Same name under a different parent is allowed.
	other, err := s.CreateFolder("Other", nil)
	require.NoError(t, err)
	_, err = s.CreateFolder("Docs", &other.ID)
	require.NoError(t, err)
}

func TestMemStore_MoveFolderIntoDuplicate(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateFolder("A", nil)
	require.NoError(t, err)
	_, err = s.CreateFolder("Same", &a.ID)
	require.NoError(t, err)
	loose, err := s.CreateFolder("Same", nil)
	require.NoError(t, err)

	require.ErrorIs(t, s.MoveFolder(loose.ID, &a.ID), ErrDuplicateName)
}

func TestMemStore_RestoreFallsBackToRoot(t *testing.T) {
	s := newTestStore(t)
	parent, err := s.CreateFolder("Parent", nil)
	require.NoError(t, err)
	child, err := s.CreateFolder("Child", &parent.ID)
	require.NoError(t, err)

	require.NoError(t, s.TrashFolder(child.ID))
	_, err = s.PurgeFolder(parent.ID)
	require.NoError(t, err)

	// Original parent is gone, so the child lands at root.
	require.NoError(t, s.RestoreFolder(child.ID))
	restored, err := s.GetFolder(child.ID)
	require.NoError(t, err)
	require.Nil(t, restored.ParentID)
}

func TestMemStore_TrashedDescendantIsNotRestorable(t *testing.T) {
	s := newTestStore(t)
	parent, err := s.CreateFolder("Parent", nil)
	require.NoError(t, err)
	child, err := s.CreateFolder("Child", &parent.ID)
	require.NoError(t, err)

	require.NoError(t, s.TrashFolder(parent.ID))

	// Only the subtree root can be restored directly.
	require.ErrorIs(t, s.RestoreFolder(child.ID), ErrNotFound)
}

func TestMemStore_TrashFileDirectly(t *testing.T) {
	s := newTestStore(t)
	folder, err := s.CreateFolder("F", nil)
	require.NoError(t, err)
	file, err := s.CreateFile("x.txt", "text/plain", 3, &folder.ID)
	require.NoError(t, err)

	require.NoError(t, s.TrashFile(file.ID))
	require.Empty(t, s.ListFiles(&folder.ID))

	_, files := s.ListTrash()
	require.Len(t, files, 1)

	require.NoError(t, s.RestoreFile(file.ID))
	require.Len(t, s.ListFiles(&folder.ID), 1)
}

func TestMemStore_PurgeReturnsFileIDs(t *testing.T) {
	s := newTestStore(t)
	top, err := s.CreateFolder("Top", nil)
	require.NoError(t, err)
	sub, err := s.CreateFolder("Sub", &top.ID)
	require.NoError(t, err)
	f1, err := s.CreateFile("a", "text/plain", 1, &top.ID)
	require.NoError(t, err)
	f2, err := s.CreateFile("b", "text/plain", 1, &sub.ID)
	require.NoError(t, err)

	removed, err := s.PurgeFolder(top.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{f1.ID, f2.ID}, removed)

	_, err = s.GetFolder(sub.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
