// Package indexer implements the streaming, memory-bounded inverted-index
// builder: a producer goroutine that parses documents and updates an
// in-memory shard map, and a single offloader goroutine that drains that
// map to disk without blocking the producer.
package indexer

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pkg/errors"

	"github.com/webcorpus/invidx/internal/corpus"
	"github.com/webcorpus/invidx/internal/dedup"
	"github.com/webcorpus/invidx/internal/shard"
	"github.com/webcorpus/invidx/internal/tokenize"
)

const (
	// DefaultMaxOffloadWorkers is the default parallelism of per-shard
	// disk merges (spec's MAX_OFFLOAD_WORKERS).
	DefaultMaxOffloadWorkers = 5
	// DefaultMaxPostings is the default in-memory posting count that
	// triggers an offload (spec's MAX_POSTINGS).
	DefaultMaxPostings = 1_000_000
)

// Config configures a build run.
type Config struct {
	CorpusDir  string
	IndexDir   string
	URLMapPath string

	// MaxOffloadWorkers bounds the offloader's per-shard merge
	// parallelism. Zero means DefaultMaxOffloadWorkers.
	MaxOffloadWorkers int
	// MaxPostings is the in-memory posting count that triggers an
	// offload. Zero means DefaultMaxPostings.
	MaxPostings int
}

func (c Config) withDefaults() Config {
	if c.MaxOffloadWorkers <= 0 {
		c.MaxOffloadWorkers = DefaultMaxOffloadWorkers
	}
	if c.MaxPostings <= 0 {
		c.MaxPostings = DefaultMaxPostings
	}
	return c
}

// Stats summarizes a completed build, supplementing the distilled spec's
// contract with the kind of report the original Python Indexer.print_report
// provided (see SPEC_FULL.md §12).
type Stats struct {
	DocsWalked    int
	DocsIndexed   int
	DocsDuplicate int
	DocsEmpty     int
	DocsFailed    int
	UniqueTokens  int
	Elapsed       time.Duration
}

// Builder owns the shared mutable state of a build run: the in-memory
// shard map and the postings counter. The mutex protects exactly these
// two fields, held only for the duration of a per-document merge or an
// offload swap.
type Builder struct {
	cfg    Config
	logger *zap.Logger

	mu            sync.Mutex
	inMemory      map[shard.RangeKey]shard.Index
	postingsCount int
}

// New constructs a Builder. logger may be nil, in which case the Builder
// logs nothing (callers typically pass log.Get()).
func New(cfg Config, logger *zap.Logger) *Builder {
	return &Builder{
		cfg:      cfg.withDefaults(),
		logger:   logger,
		inMemory: make(map[shard.RangeKey]shard.Index),
	}
}

// Build enumerates corpus_dir, builds shard files under index_dir, and
// writes the docid->URL map to url_map_path. It deletes any pre-existing
// shard files and URL map first (a clean build never reuses a prior
// index), and returns once the offloader has drained - matching the
// spec's "signals completion by returning control" contract.
func (b *Builder) Build(ctx context.Context) (Stats, error) {
	start := time.Now()

	if err := shard.Clean(b.cfg.IndexDir, b.cfg.URLMapPath); err != nil {
		return Stats{}, errors.Wrap(err, "clean previous index")
	}
	if err := os.MkdirAll(b.cfg.IndexDir, 0o755); err != nil {
		return Stats{}, errors.Wrap(err, "create index dir")
	}

	paths, err := corpus.Walk(b.cfg.CorpusDir)
	if err != nil {
		return Stats{}, err
	}

	urlMap := make(shard.URLMap)
	detector := dedup.NewDetector()
	events := make(chan struct{}, 1)
	var running atomic.Bool
	running.Store(true)

	offloadErr := make(chan error, 1)
	offloadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		offloadErr <- b.offloadLoop(offloadCtx, events, &running)
	}()

	stats := b.processDocuments(paths, events, &running, urlMap, detector)

	if err := <-offloadErr; err != nil {
		return stats, errors.Wrap(err, "offload")
	}

	if err := shard.WriteURLMap(b.cfg.URLMapPath, urlMap); err != nil {
		return stats, errors.Wrap(err, "write url map")
	}

	// Every token lives in exactly one shard, so the sum of the on-disk
	// shards' key counts is the number of distinct tokens indexed.
	for _, key := range shard.Keys {
		idx, _, err := shard.ReadFile(shard.FileName(b.cfg.IndexDir, key))
		if err != nil {
			return stats, errors.Wrap(err, "count unique tokens")
		}
		stats.UniqueTokens += len(idx)
	}

	stats.Elapsed = time.Since(start)
	if b.logger != nil {
		b.logger.Info("build complete",
			zap.Int("docs_walked", stats.DocsWalked),
			zap.Int("docs_indexed", stats.DocsIndexed),
			zap.Int("docs_duplicate", stats.DocsDuplicate),
			zap.Duration("elapsed", stats.Elapsed),
		)
	}
	return stats, nil
}

// mergeDocument folds one document's token tally into the in-memory
// shard map under the shared mutex - the only critical section the
// producer enters per document.
func (b *Builder) mergeDocument(docid int, counts map[string]int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for token, count := range counts {
		first, _ := utf8.DecodeRuneInString(token)
		key := shard.Partition(first)
		idx, ok := b.inMemory[key]
		if !ok {
			idx = shard.Index{}
			b.inMemory[key] = idx
		}
		idx[token] = append(idx[token], shard.Posting{
			DocID: uint32(docid),
			Count: uint32(count),
		})
		b.postingsCount++
	}
}

// postingsAtOrAboveThreshold reports whether the in-memory postings
// counter has reached MaxPostings, under the shared mutex.
func (b *Builder) postingsAtOrAboveThreshold() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.postingsCount >= b.cfg.MaxPostings
}

// hasPendingPostings reports whether the in-memory shard map holds any
// postings not yet offloaded to disk, under the shared mutex.
func (b *Builder) hasPendingPostings() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.postingsCount > 0
}

func trySignal(events chan struct{}) {
	select {
	case events <- struct{}{}:
	default:
	}
}
