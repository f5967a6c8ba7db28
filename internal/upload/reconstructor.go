// Package upload rebuilds a locally selected directory tree on the remote
// store. Entries arrive as flat slash-delimited paths in arbitrary order; the
// reconstructor materializes each missing folder exactly once and uploads
// every file into its resolved leaf folder.
package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/R0CKSAM/drive-cli/internal/models"
)

// Store is the slice of the remote contract the reconstructor needs.
type Store interface {
	ListFolders(ctx context.Context, parentID *string) ([]models.Folder, error)
	CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error)
	UploadFile(ctx context.Context, name string, folderID *string, content io.Reader) (*models.File, error)
}

// Entry is one file from the selected local directory. RelPath starts with
// the name of the selected directory itself and ends with the file name,
// e.g. "Photos/Trip/IMG1.jpg".
type Entry struct {
	RelPath string
	Size    int64
	Open    func() (io.ReadCloser, error)
}

// Progress is invoked after each entry finishes (resolution plus upload),
// successful or not.
type Progress func(done, total int)

// Result summarizes one batch. Completed counts entries whose file actually
// reached the store; CreatedFolders counts folder-creation calls issued.
type Result struct {
	BatchID        string
	Total          int
	Completed      int
	CreatedFolders int
}

// BatchError reports a partially failed batch. Folders created and files
// uploaded before the failure stay in place; rerunning the batch reuses them
// through the resolve-or-create lookup, so only file uploads can duplicate.
type BatchError struct {
	FirstPath string
	Failed    int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d entries failed, first at %q: %v", e.Failed, e.FirstPath, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

type Reconstructor struct {
	store Store
	log   *zap.Logger
}

func NewReconstructor(store Store, log *zap.Logger) *Reconstructor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconstructor{store: store, log: log}
}

// cacheKey identifies one resolve-or-create lookup. Using a struct key keeps
// folder names containing "/" from colliding with a different nesting, which
// the string-concatenated form could not guarantee. An empty parentID is the
// root sentinel.
type cacheKey struct {
	parentID string
	name     string
}

// batch holds per-run state. Resolved keys are never invalidated within the
// batch; failed keys stay failed so dependent entries inherit the original
// error instead of retrying or falling back to a wrong parent.
type batch struct {
	resolved map[cacheKey]string
	failed   map[cacheKey]error
	created  int
}

func keyFor(parentID *string, name string) cacheKey {
	k := cacheKey{name: name}
	if parentID != nil {
		k.parentID = *parentID
	}
	return k
}

// Run reconstructs the folder hierarchy implied by entries under
// destParentID and uploads every entry. Entries are processed strictly in
// input order so a cache entry written for a shared ancestor is always
// visible before a later entry walks the same prefix. Cancellation is
// honored between entries only; an entry that started is finished so a
// created folder is not left without its file.
func (r *Reconstructor) Run(ctx context.Context, entries []Entry, destParentID *string, onProgress Progress) (Result, error) {
	res := Result{
		BatchID: uuid.NewString(),
		Total:   len(entries),
	}
	if len(entries) == 0 {
		return res, nil
	}

	b := &batch{
		resolved: make(map[cacheKey]string),
		failed:   make(map[cacheKey]error),
	}

	log := r.log.With(zap.String("batch_id", res.BatchID))
	log.Info("starting folder upload", zap.Int("entries", len(entries)))

	// Resolve the top-level directory up front so a batch aimed at a dead
	// destination fails before any per-entry work. A malformed first entry
	// skips the pre-resolve; the per-entry loop rejects it without touching
	// the store.
	if dirs, _, err := splitEntryPath(entries[0].RelPath); err == nil {
		if _, err := r.ensureChildFolder(ctx, b, destParentID, dirs[0]); err != nil {
			return res, &BatchError{FirstPath: entries[0].RelPath, Failed: len(entries), Err: err}
		}
	}

	var firstFail *BatchError
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			res.CreatedFolders = b.created
			return res, err
		}

		if err := r.processEntry(ctx, b, destParentID, entry); err != nil {
			log.Warn("entry failed", zap.String("path", entry.RelPath), zap.Error(err))
			if firstFail == nil {
				firstFail = &BatchError{FirstPath: entry.RelPath, Err: err}
			}
			firstFail.Failed++
		} else {
			res.Completed++
		}

		if onProgress != nil {
			onProgress(i+1, len(entries))
		}
	}

	res.CreatedFolders = b.created
	if firstFail != nil {
		return res, firstFail
	}
	log.Info("folder upload complete",
		zap.Int("uploaded", res.Completed),
		zap.Int("folders_created", b.created))
	return res, nil
}

// splitEntryPath breaks a relative path into its directory segments and file
// name, rejecting paths that do not name at least directory/file.
func splitEntryPath(relPath string) (dirs []string, fileName string, err error) {
	segs := strings.Split(relPath, "/")
	if len(segs) < 2 {
		return nil, "", fmt.Errorf("malformed entry path %q: want at least directory/file", relPath)
	}
	dirs, fileName = segs[:len(segs)-1], segs[len(segs)-1]
	if fileName == "" {
		return nil, "", fmt.Errorf("malformed entry path %q: empty file name", relPath)
	}
	return dirs, fileName, nil
}

func (r *Reconstructor) processEntry(ctx context.Context, b *batch, destParentID *string, entry Entry) error {
	dirs, fileName, err := splitEntryPath(entry.RelPath)
	if err != nil {
		return err
	}

	parentID := destParentID
	for _, seg := range dirs {
		id, err := r.ensureChildFolder(ctx, b, parentID, seg)
		if err != nil {
			return err
		}
		parentID = &id
	}

	content, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open %q: %w", entry.RelPath, err)
	}
	defer content.Close()

	if _, err := r.store.UploadFile(ctx, fileName, parentID, content); err != nil {
		return err
	}
	return nil
}

// ensureChildFolder resolves (parentID, name) to a folder ID, creating the
// folder remotely only when no sibling with that exact name exists. Results
// and failures are both memoized for the batch, so each distinct key costs
// at most one listing and one creation call.
func (r *Reconstructor) ensureChildFolder(ctx context.Context, b *batch, parentID *string, name string) (string, error) {
	key := keyFor(parentID, name)
	if id, ok := b.resolved[key]; ok {
		return id, nil
	}
	if err, ok := b.failed[key]; ok {
		return "", err
	}

	id, created, err := r.resolveOrCreate(ctx, parentID, name)
	if err != nil {
		b.failed[key] = err
		return "", err
	}
	if created {
		b.created++
	}
	b.resolved[key] = id
	return id, nil
}

func (r *Reconstructor) resolveOrCreate(ctx context.Context, parentID *string, name string) (string, bool, error) {
	siblings, err := r.store.ListFolders(ctx, parentID)
	if err != nil {
		return "", false, err
	}
	// Exact match only; case and whitespace are significant.
	for _, f := range siblings {
		if f.Name == name {
			return f.ID, false, nil
		}
	}

	folder, err := r.store.CreateFolder(ctx, name, parentID)
	if err != nil {
		return "", false, err
	}
	return folder.ID, true, nil
}
