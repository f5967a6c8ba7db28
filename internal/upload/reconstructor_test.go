package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/R0CKSAM/drive-cli/internal/models"
)

// fakeStore is an in-memory store that records every call so tests can
// assert on call counts, and whose state persists between runs.
type fakeStore struct {
	nextID      int
	folders     []models.Folder
	uploads     []string // "folderID/name"
	listCalls   int
	createCalls int

	failCreate map[string]error // folder name -> error
	failUpload map[string]error // file name -> error
}

func newFakeStore() *fakeStore {
	return &fakeStore{failCreate: map[string]error{}, failUpload: map[string]error{}}
}

func (s *fakeStore) ListFolders(_ context.Context, parentID *string) ([]models.Folder, error) {
	s.listCalls++
	var out []models.Folder
	for _, f := range s.folders {
		if sameID(f.ParentID, parentID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateFolder(_ context.Context, name string, parentID *string) (*models.Folder, error) {
	s.createCalls++
	if err := s.failCreate[name]; err != nil {
		return nil, err
	}
	s.nextID++
	f := models.Folder{ID: fmt.Sprintf("f%d", s.nextID), Name: name, ParentID: parentID}
	s.folders = append(s.folders, f)
	return &f, nil
}

func (s *fakeStore) UploadFile(_ context.Context, name string, folderID *string, content io.Reader) (*models.File, error) {
	if err := s.failUpload[name]; err != nil {
		return nil, err
	}
	if _, err := io.Copy(io.Discard, content); err != nil {
		return nil, err
	}
	key := "root"
	if folderID != nil {
		key = *folderID
	}
	s.uploads = append(s.uploads, key+"/"+name)
	return &models.File{ID: fmt.Sprintf("file%d", len(s.uploads)), Name: name, FolderID: folderID}, nil
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func textEntry(relPath string) Entry {
	return Entry{
		RelPath: relPath,
		Size:    int64(len(relPath)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("content of " + relPath)), nil
		},
	}
}

func (s *fakeStore) folderByName(t *testing.T, name string) models.Folder {
	t.Helper()
	for _, f := range s.folders {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("folder %q not found", name)
	return models.Folder{}
}

func TestRun_ReconstructsTree(t *testing.T) {
	store := newFakeStore()
	rec := NewReconstructor(store, nil)

	entries := []Entry{
		textEntry("Photos/Trip/IMG1.jpg"),
		textEntry("Photos/Trip/IMG2.jpg"),
		textEntry("Photos/README.txt"),
	}

	var progress []int
	res, err := rec.Run(context.Background(), entries, nil, func(done, total int) {
		require.Equal(t, 3, total)
		progress = append(progress, done)
	})
	require.NoError(t, err)

	// Exactly two folders: "Photos" and "Photos/Trip", each created once
	// even though two files reference Trip.
	require.Equal(t, 2, store.createCalls)
	require.Len(t, store.folders, 2)
	require.Equal(t, 3, res.Completed)
	require.Equal(t, 2, res.CreatedFolders)
	require.Equal(t, []int{1, 2, 3}, progress)

	photos := store.folderByName(t, "Photos")
	trip := store.folderByName(t, "Trip")
	require.Nil(t, photos.ParentID)
	require.Equal(t, photos.ID, *trip.ParentID)

	require.ElementsMatch(t, []string{
		trip.ID + "/IMG1.jpg",
		trip.ID + "/IMG2.jpg",
		photos.ID + "/README.txt",
	}, store.uploads)
}

func TestRun_ReusesExistingRemoteFolders(t *testing.T) {
	store := newFakeStore()
	rec := NewReconstructor(store, nil)
	entries := []Entry{textEntry("Docs/a.txt"), textEntry("Docs/Sub/b.txt")}

	// First run creates Docs and Docs/Sub.
	_, err := rec.Run(context.Background(), entries, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, store.createCalls)

	// Second run against the same store finds both folders by name and
	// creates nothing. File uploads do duplicate; that has no dedup key.
	res, err := rec.Run(context.Background(), entries, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, store.createCalls)
	require.Len(t, store.folders, 2)
	require.Equal(t, 0, res.CreatedFolders)
	require.Len(t, store.uploads, 4)
}

func TestRun_CallMinimization(t *testing.T) {
	store := newFakeStore()
	rec := NewReconstructor(store, nil)

	// 6 files across 3 distinct (parent, name) folder keys.
	entries := []Entry{
		textEntry("Top/Sub/a.txt"),
		textEntry("Top/Sub/b.txt"),
		textEntry("Top/Sub/c.txt"),
		textEntry("Top/Other/d.txt"),
		textEntry("Top/e.txt"),
		textEntry("Top/Other/f.txt"),
	}

	_, err := rec.Run(context.Background(), entries, nil, nil)
	require.NoError(t, err)

	require.Equal(t, 3, store.createCalls)
	// One listing per distinct key as well, never one per file.
	require.Equal(t, 3, store.listCalls)
}

func TestRun_UploadsIntoGivenDestination(t *testing.T) {
	store := newFakeStore()
	dest, err := store.CreateFolder(context.Background(), "Existing", nil)
	require.NoError(t, err)
	store.createCalls = 0
	store.listCalls = 0

	rec := NewReconstructor(store, nil)
	_, err = rec.Run(context.Background(), []Entry{textEntry("New/x.bin")}, &dest.ID, nil)
	require.NoError(t, err)

	created := store.folderByName(t, "New")
	require.Equal(t, dest.ID, *created.ParentID)
	require.Equal(t, []string{created.ID + "/x.bin"}, store.uploads)
}

func TestRun_CaseAndWhitespaceAreSignificant(t *testing.T) {
	store := newFakeStore()
	rec := NewReconstructor(store, nil)

	entries := []Entry{
		textEntry("Top/sub/a.txt"),
		textEntry("Top/Sub/b.txt"),
		textEntry("Top/sub /c.txt"),
	}

	_, err := rec.Run(context.Background(), entries, nil, nil)
	require.NoError(t, err)

	// Top plus three distinct subfolders.
	require.Equal(t, 4, store.createCalls)
}

func TestRun_FolderFailureAbortsOnlyDependentSubtree(t *testing.T) {
	store := newFakeStore()
	boom := errors.New("quota exceeded")
	store.failCreate["Bad"] = boom
	rec := NewReconstructor(store, nil)

	entries := []Entry{
		textEntry("Top/Bad/a.txt"),
		textEntry("Top/Good/b.txt"),
		textEntry("Top/Bad/c.txt"),
	}

	res, err := rec.Run(context.Background(), entries, nil, nil)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Equal(t, "Top/Bad/a.txt", batchErr.FirstPath)
	require.Equal(t, 2, batchErr.Failed)
	require.ErrorIs(t, batchErr, boom)

	// The sibling subtree still went through.
	require.Equal(t, 1, res.Completed)
	require.Len(t, store.uploads, 1)
	require.Contains(t, store.uploads[0], "b.txt")

	// The failed key was attempted once; later entries inherited the
	// cached error instead of re-creating.
	require.Equal(t, 3, store.createCalls) // Top, Bad (failed), Good
}

func TestRun_TopLevelFailureFailsWholeBatch(t *testing.T) {
	store := newFakeStore()
	boom := errors.New("forbidden")
	store.failCreate["Top"] = boom
	rec := NewReconstructor(store, nil)

	entries := []Entry{textEntry("Top/a.txt"), textEntry("Top/b.txt")}
	res, err := rec.Run(context.Background(), entries, nil, nil)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Equal(t, 2, batchErr.Failed)
	require.ErrorIs(t, err, boom)
	require.Zero(t, res.Completed)
	require.Empty(t, store.uploads)
}

func TestRun_UploadFailureIsAttributedToPath(t *testing.T) {
	store := newFakeStore()
	boom := errors.New("connection reset")
	store.failUpload["b.txt"] = boom
	rec := NewReconstructor(store, nil)

	entries := []Entry{
		textEntry("Top/a.txt"),
		textEntry("Top/b.txt"),
		textEntry("Top/c.txt"),
	}

	res, err := rec.Run(context.Background(), entries, nil, nil)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Equal(t, "Top/b.txt", batchErr.FirstPath)
	require.Equal(t, 1, batchErr.Failed)
	require.Equal(t, 2, res.Completed)
}

func TestRun_CancellationBetweenEntries(t *testing.T) {
	store := newFakeStore()
	rec := NewReconstructor(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	entries := []Entry{
		textEntry("Top/a.txt"),
		textEntry("Top/b.txt"),
		textEntry("Top/c.txt"),
	}

	res, err := rec.Run(ctx, entries, nil, func(done, total int) {
		if done == 1 {
			cancel()
		}
	})

	require.ErrorIs(t, err, context.Canceled)
	// The in-flight entry finished, nothing after it started.
	require.Equal(t, 1, res.Completed)
	require.Len(t, store.uploads, 1)
}

func TestRun_EmptyBatch(t *testing.T) {
	store := newFakeStore()
	rec := NewReconstructor(store, nil)

	res, err := rec.Run(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	require.Zero(t, res.Total)
	require.Zero(t, store.listCalls)
}

func TestRun_MalformedPath(t *testing.T) {
	store := newFakeStore()
	rec := NewReconstructor(store, nil)

	entries := []Entry{textEntry("Top/ok.txt"), textEntry("orphan")}
	res, err := rec.Run(context.Background(), entries, nil, nil)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Equal(t, "orphan", batchErr.FirstPath)
	require.Equal(t, 1, res.Completed)
}

func TestRun_MalformedFirstEntryLeavesStoreUntouched(t *testing.T) {
	store := newFakeStore()
	rec := NewReconstructor(store, nil)

	// A bare file name as the first entry must not create a remote folder
	// named after the file during the up-front destination resolve.
	entries := []Entry{textEntry("orphan"), textEntry("Top/ok.txt")}
	res, err := rec.Run(context.Background(), entries, nil, nil)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Equal(t, "orphan", batchErr.FirstPath)
	require.Equal(t, 1, res.Completed)

	for _, f := range store.folders {
		require.NotEqual(t, "orphan", f.Name)
	}
	require.Equal(t, []string{"f1/ok.txt"}, store.uploads)
	require.Equal(t, 1, store.createCalls)
}
