package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webcorpus/invidx/internal/shard"
	"github.com/webcorpus/invidx/internal/tokenize"
)

func writeCorpusFile(t *testing.T, dir, name, url, content string) {
	t.Helper()
	body := `{"url":"` + url + `","content":"` + content + `"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestBuildSingleDocument(t *testing.T) {
	corpusDir := t.TempDir()
	indexDir := t.TempDir()
	urlMapPath := filepath.Join(indexDir, "urls.idx")

	writeCorpusFile(t, corpusDir, "doc1.json", "u", `<p>alpha alpha<\/p>`)

	b := New(Config{CorpusDir: corpusDir, IndexDir: indexDir, URLMapPath: urlMapPath}, nil)
	stats, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.DocsIndexed)

	idx, found, err := shard.ReadFile(shard.FileName(indexDir, shard.RangeAF))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, shard.Postings{{DocID: 1, Count: 2}}, idx[tokenize.Stem("alpha")])

	urls, err := shard.ReadURLMap(urlMapPath)
	require.NoError(t, err)
	require.Equal(t, shard.URLMap{1: "u"}, urls)
}

func TestBuildSkipsNearDuplicate(t *testing.T) {
	corpusDir := t.TempDir()
	indexDir := t.TempDir()
	urlMapPath := filepath.Join(indexDir, "urls.idx")

	writeCorpusFile(t, corpusDir, "doc1.json", "u1", `<p>alpha alpha<\/p>`)
	writeCorpusFile(t, corpusDir, "doc2.json", "u2", `<p>alpha alpha<\/p>`)

	b := New(Config{CorpusDir: corpusDir, IndexDir: indexDir, URLMapPath: urlMapPath}, nil)
	stats, err := b.Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, stats.DocsWalked)
	require.Equal(t, 1, stats.DocsIndexed)
	require.Equal(t, 1, stats.DocsDuplicate)

	urls, err := shard.ReadURLMap(urlMapPath)
	require.NoError(t, err)
	require.Equal(t, shard.URLMap{1: "u1"}, urls)
}

func TestBuildEmptyCorpus(t *testing.T) {
	corpusDir := t.TempDir()
	indexDir := t.TempDir()
	urlMapPath := filepath.Join(indexDir, "urls.idx")

	b := New(Config{CorpusDir: corpusDir, IndexDir: indexDir, URLMapPath: urlMapPath}, nil)
	stats, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, stats.DocsWalked)

	for _, key := range shard.Keys {
		_, found, err := shard.ReadFile(shard.FileName(indexDir, key))
		require.NoError(t, err)
		require.False(t, found)
	}

	urls, err := shard.ReadURLMap(urlMapPath)
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestBuildSkipsEmptyContent(t *testing.T) {
	corpusDir := t.TempDir()
	indexDir := t.TempDir()
	urlMapPath := filepath.Join(indexDir, "urls.idx")

	writeCorpusFile(t, corpusDir, "doc1.json", "u", "")

	b := New(Config{CorpusDir: corpusDir, IndexDir: indexDir, URLMapPath: urlMapPath}, nil)
	stats, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.DocsWalked)
	require.Equal(t, 1, stats.DocsEmpty)
	require.Equal(t, 0, stats.DocsIndexed)

	urls, err := shard.ReadURLMap(urlMapPath)
	require.NoError(t, err)
	require.Empty(t, urls)
}
