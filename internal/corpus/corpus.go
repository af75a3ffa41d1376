// Package corpus enumerates and decodes the input documents a build run
// ingests: a directory tree of JSON files, each holding a url and
// (possibly empty) HTML content.
package corpus

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Document is the decoded form of one corpus file.
type Document struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Walk returns the path of every regular file under dir, recursively, in
// the order filepath.WalkDir visits them. Ordering is not significant to
// the indexer beyond being stable within one process run - docid
// assignment follows whatever order this returns.
func Walk(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk corpus dir %s", dir)
	}
	return paths, nil
}

// Load reads and JSON-decodes one corpus file.
func Load(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "read %s", path)
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return Document{}, errors.Wrapf(err, "decode %s", path)
	}
	return doc, nil
}
