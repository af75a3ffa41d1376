package shard

import (
	"os"

	"github.com/pkg/errors"
)

// ReadFile loads and decodes the shard file at path. A missing file is not
// an error: callers use this to distinguish "shard doesn't exist yet" from
// "shard exists but is corrupt".
func ReadFile(path string) (Index, bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read shard %s", path)
	}
	idx, err := DecodeIndex(b)
	if err != nil {
		return nil, false, errors.Wrapf(err, "decode shard %s", path)
	}
	return idx, true, nil
}

// WriteFile encodes idx and writes it to path, replacing any existing
// file.
func WriteFile(path string, idx Index) error {
	b, err := EncodeIndex(idx)
	if err != nil {
		return errors.Wrapf(err, "encode shard %s", path)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrapf(err, "write shard %s", path)
	}
	return nil
}

// MergeInto extends dst's posting lists with the postings from src,
// token-by-token, preserving order and performing no deduplication -
// exactly the disk-merge step spec.md §4.2 describes.
func MergeInto(dst, src Index) {
	for token, postings := range src {
		dst[token] = append(dst[token], postings...)
	}
}

// ReadURLMap loads and decodes the URL map file at path.
func ReadURLMap(path string) (URLMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read url map %s", path)
	}
	m, err := DecodeURLMap(b)
	if err != nil {
		return nil, errors.Wrapf(err, "decode url map %s", path)
	}
	return m, nil
}

// WriteURLMap encodes m and writes it to path.
func WriteURLMap(path string, m URLMap) error {
	b, err := EncodeURLMap(m)
	if err != nil {
		return errors.Wrapf(err, "encode url map %s", path)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrapf(err, "write url map %s", path)
	}
	return nil
}

// Clean removes any pre-existing shard files and the url map file under
// indexDir / at urlMapPath, the equivalent of the Python Indexer's
// clean_index classmethod: build is a clean rebuild, never an incremental
// update.
func Clean(indexDir, urlMapPath string) error {
	for _, key := range Keys {
		path := FileName(indexDir, key)
		if err := removeIfExists(path); err != nil {
			return err
		}
	}
	return removeIfExists(urlMapPath)
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "clean %s", path)
	}
	return nil
}
