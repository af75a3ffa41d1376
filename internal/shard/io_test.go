package shard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index_range_a-f.idx")

	idx := Index{"alpha": Postings{{DocID: 1, Count: 2}}}
	require.NoError(t, WriteFile(path, idx))

	got, found, err := ReadFile(path)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, idx, got)
}

func TestReadFileMissingIsNotError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.idx")

	got, found, err := ReadFile(path)
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, got)
}

func TestMergeIntoExtendsAndPreservesOrder(t *testing.T) {
	dst := Index{"alpha": Postings{{DocID: 1, Count: 1}}}
	src := Index{
		"alpha": Postings{{DocID: 2, Count: 3}},
		"beta":  Postings{{DocID: 1, Count: 1}},
	}

	MergeInto(dst, src)

	require.Equal(t, Postings{{DocID: 1, Count: 1}, {DocID: 2, Count: 3}}, dst["alpha"])
	require.Equal(t, Postings{{DocID: 1, Count: 1}}, dst["beta"])
}

func TestCleanRemovesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	urlMapPath := filepath.Join(dir, "urls.idx")

	for _, key := range Keys {
		require.NoError(t, WriteFile(FileName(dir, key), Index{}))
	}
	require.NoError(t, WriteURLMap(urlMapPath, URLMap{1: "u"}))

	require.NoError(t, Clean(dir, urlMapPath))

	for _, key := range Keys {
		_, err := os.Stat(FileName(dir, key))
		require.True(t, os.IsNotExist(err))
	}
	_, err := os.Stat(urlMapPath)
	require.True(t, os.IsNotExist(err))
}
