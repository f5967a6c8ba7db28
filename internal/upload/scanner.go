package upload

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ScanDir walks a local directory and turns every regular file into an
// Entry whose RelPath is prefixed with the directory's own name, matching
// what a browser folder picker would report. Empty directories produce no
// entries and therefore no remote folders.
func ScanDir(root string) ([]Entry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	top := filepath.Base(abs)

	var entries []Entry
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}

		filePath := path
		entries = append(entries, Entry{
			RelPath: top + "/" + filepath.ToSlash(rel),
			Size:    fi.Size(),
			Open: func() (io.ReadCloser, error) {
				return os.Open(filePath)
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
