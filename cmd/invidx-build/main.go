// Command invidx-build builds an inverted index over a corpus directory
// of JSON documents, in the style of sourcegraph-zoekt's cmd/zoekt-index:
// a thin flag-parsing main that drives the library build and logs a
// summary on completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/webcorpus/invidx/internal/indexer"
	"github.com/webcorpus/invidx/log"
)

func main() {
	corpusDir := flag.String("corpus", "", "path to the corpus directory (required)")
	indexDir := flag.String("index_dir", "./index", "directory to write shard files to")
	urlMapPath := flag.String("url_map", "", "path to write the docid->url map to (default <index_dir>/urls.idx)")
	maxOffloadWorkers := flag.Int("max_offload_workers", indexer.DefaultMaxOffloadWorkers, "parallelism of per-shard disk merges")
	maxPostings := flag.Int("max_postings", indexer.DefaultMaxPostings, "in-memory posting count that triggers an offload")
	flag.Parse()

	if *corpusDir == "" {
		fmt.Fprintln(os.Stderr, "invidx-build: -corpus is required")
		os.Exit(2)
	}
	if *urlMapPath == "" {
		*urlMapPath = filepath.Join(*indexDir, "urls.idx")
	}

	sync := log.Init()
	defer sync() //nolint:errcheck
	logger := log.Get()

	b := indexer.New(indexer.Config{
		CorpusDir:         *corpusDir,
		IndexDir:          *indexDir,
		URLMapPath:        *urlMapPath,
		MaxOffloadWorkers: *maxOffloadWorkers,
		MaxPostings:       *maxPostings,
	}, logger)

	stats, err := b.Build(context.Background())
	if err != nil {
		logger.Fatal("build failed", zap.Error(err))
	}

	logger.Info("indexed corpus",
		zap.Int("docs_walked", stats.DocsWalked),
		zap.Int("docs_indexed", stats.DocsIndexed),
		zap.Int("docs_duplicate", stats.DocsDuplicate),
		zap.Int("docs_empty", stats.DocsEmpty),
		zap.Int("docs_failed", stats.DocsFailed),
		zap.Int("unique_tokens", stats.UniqueTokens),
		zap.Duration("elapsed", stats.Elapsed),
	)

	fmt.Printf("indexed %s documents (%s duplicates, %s empty, %s failed) in %s\n",
		humanize.Comma(int64(stats.DocsIndexed)),
		humanize.Comma(int64(stats.DocsDuplicate)),
		humanize.Comma(int64(stats.DocsEmpty)),
		humanize.Comma(int64(stats.DocsFailed)),
		stats.Elapsed.Round(1e6),
	)
}
