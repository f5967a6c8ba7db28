package devserver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BlobStore keeps uploaded file contents on disk, sharded by ID prefix so a
// single directory never holds every blob.
type BlobStore struct {
	basePath string
}

// NewBlobStore roots the store at basePath, or at a fresh temp directory
// when basePath is empty.
func NewBlobStore(basePath string) (*BlobStore, error) {
	if basePath == "" {
		dir, err := os.MkdirTemp("", "drive-blobs")
		if err != nil {
			return nil, err
		}
		basePath = dir
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &BlobStore{basePath: basePath}, nil
}

func (b *BlobStore) pathFor(id string) string {
	shard := id
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(b.basePath, shard, id)
}

// Save writes the blob and reports how many bytes it stored.
func (b *BlobStore) Save(id string, data io.Reader) (int64, error) {
	path := b.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return io.Copy(file, data)
}

func (b *BlobStore) Open(id string) (io.ReadCloser, error) {
	file, err := os.Open(b.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s not found: %w", id, err)
		}
		return nil, err
	}
	return file, nil
}

func (b *BlobStore) Remove(id string) error {
	err := os.Remove(b.pathFor(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
