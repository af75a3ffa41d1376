package indexer

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/webcorpus/invidx/internal/corpus"
	"github.com/webcorpus/invidx/internal/dedup"
	"github.com/webcorpus/invidx/internal/shard"
	"github.com/webcorpus/invidx/internal/tokenize"
)

// processDocuments is the producer: it assigns docids sequentially,
// parses and tokenizes each document, merges its tokens into the
// in-memory shard map, and signals the offloader when the postings
// threshold is crossed. It never blocks on disk I/O beyond opening the
// document file itself, and no per-document error escapes this loop.
func (b *Builder) processDocuments(paths []string, events chan struct{}, running *atomic.Bool, urlMap shard.URLMap, detector *dedup.Detector) Stats {
	var stats Stats
	docid := 1
	for _, path := range paths {
		b.processOne(path, docid, urlMap, detector, &stats)
		docid++
		stats.DocsWalked++

		if b.postingsAtOrAboveThreshold() {
			trySignal(events)
		}
	}

	// Mark the producer stopped before the final signal: offloadLoop's
	// receive on events synchronizes with this send, so by the time it
	// observes the signal, running.Load() is guaranteed to see false and
	// exit after this last drain instead of blocking on a signal that
	// will never come.
	running.Store(false)
	trySignal(events)
	return stats
}

// processOne implements spec.md §4.1's per-document ingestion algorithm.
// docid is consumed regardless of outcome; only url-map and posting
// effects are conditional on success.
func (b *Builder) processOne(path string, docid int, urlMap shard.URLMap, detector *dedup.Detector, stats *Stats) {
	doc, err := corpus.Load(path)
	if err != nil {
		stats.DocsFailed++
		if b.logger != nil {
			b.logger.Debug("skipping unreadable document", zap.String("path", path), zap.Error(err))
		}
		return
	}

	if doc.Content == "" {
		stats.DocsEmpty++
		return
	}

	parsed := tokenize.Parse(doc.Content)

	if detector.IsNearDuplicate(parsed.Text, docid) {
		stats.DocsDuplicate++
		if b.logger != nil {
			b.logger.Debug("skipping near-duplicate document", zap.Int("docid", docid))
		}
		return
	}

	urlMap[uint32(docid)] = doc.URL
	stats.DocsIndexed++

	if len(parsed.Counts) > 0 {
		b.mergeDocument(docid, parsed.Counts)
	}
}
