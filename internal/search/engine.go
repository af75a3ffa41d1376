// Package search implements ranked retrieval over the shard files an
// indexer.Builder produces: conjunctive term matching followed by
// TF·IDF cosine scoring.
package search

import (
	"sort"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/webcorpus/invidx/internal/shard"
	"github.com/webcorpus/invidx/internal/tokenize"
)

// DefaultLimit is the result count used when a caller passes limit <= 0,
// matching the documented search(query_string, limit=20) contract.
const DefaultLimit = 20

// ErrIndexNotCreated is returned by Search when construction could not
// load a complete index - the documented "index not created" case.
var ErrIndexNotCreated = errors.New("index not created")

// Result is one ranked hit.
type Result struct {
	URL   string
	Score float64
}

// Engine is a loaded search index. Construction loads the URL map and
// verifies every shard file is present; if anything is missing, the
// engine is left in a failed status and Search returns ErrIndexNotCreated
// without opening any file.
type Engine struct {
	indexDir string
	logger   *zap.Logger

	status string // "success" or "fail", mirroring the documented status flag
	urlMap shard.URLMap
	cache  map[shard.RangeKey]shard.Index
}

// New loads the engine rooted at indexDir, with the URL map at
// urlMapPath.
func New(indexDir, urlMapPath string, logger *zap.Logger) *Engine {
	e := &Engine{
		indexDir: indexDir,
		logger:   logger,
		cache:    make(map[shard.RangeKey]shard.Index),
	}

	if err := e.load(urlMapPath); err != nil {
		e.status = "fail"
		if logger != nil {
			logger.Warn("index not created", zap.Error(err))
		}
		return e
	}
	e.status = "success"
	return e
}

func (e *Engine) load(urlMapPath string) error {
	for _, key := range shard.Keys {
		path := shard.FileName(e.indexDir, key)
		_, found, err := shard.ReadFile(path)
		if err != nil {
			return err
		}
		if !found {
			return errors.Errorf("missing shard file %s", path)
		}
	}

	m, err := shard.ReadURLMap(urlMapPath)
	if err != nil {
		return err
	}
	e.urlMap = m
	return nil
}

// Status reports "success" or "fail", the construction-time status flag
// the front-end uses to decide whether to present "index not created".
func (e *Engine) Status() string {
	return e.status
}

// Ready reports whether the engine loaded successfully.
func (e *Engine) Ready() bool {
	return e.status == "success"
}

// Search tokenizes and stems query, conjunctively matches against the
// loaded shards, scores candidates by TF·IDF cosine similarity, and
// returns up to limit results in descending score order. An empty query,
// a query with zero tokens, or a query whose terms have no common
// document returns an empty (nil) result list, not an error.
func (e *Engine) Search(query string, limit int) ([]Result, error) {
	if !e.Ready() {
		return nil, ErrIndexNotCreated
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	stemmedQuery := stemQuery(query)
	if len(stemmedQuery) == 0 {
		return nil, nil
	}

	termPostings := make(map[string]shard.Postings)
	for _, token := range stemmedQuery {
		if _, ok := termPostings[token]; ok {
			continue
		}
		postings, err := e.postingsFor(token)
		if err != nil {
			return nil, err
		}
		termPostings[token] = postings
		if len(postings) == 0 {
			// Any query term with an empty posting list makes the
			// conjunctive result empty.
			return nil, nil
		}
	}

	candidates := intersectDocIDs(termPostings)
	if candidates.IsEmpty() {
		return nil, nil
	}

	numDocs := len(e.urlMap)
	idf := make(map[string]float64, len(termPostings))
	for token, postings := range termPostings {
		idf[token] = idfOf(numDocs, len(postings))
	}

	queryVec := make(map[string]float64, len(termPostings))
	for token := range termPostings {
		qtf := countOccurrences(stemmedQuery, token)
		queryVec[token] = tfWeight(float64(qtf)) * idf[token]
	}
	queryNorm := vectorNorm(queryVec)

	type scoredDoc struct {
		docid uint32
		score float64
	}
	results := make([]scoredDoc, 0, candidates.GetCardinality())

	it := candidates.Iterator()
	for it.HasNext() {
		docid := it.Next()

		docVec := make(map[string]float64, len(termPostings))
		for token, postings := range termPostings {
			if count := countForDoc(postings, docid); count > 0 {
				docVec[token] = tfWeight(float64(count)) * idf[token]
			}
		}
		docNorm := vectorNorm(docVec)

		score := 0.0
		if queryNorm != 0 && docNorm != 0 {
			var dot float64
			for token, qv := range queryVec {
				dot += qv * docVec[token]
			}
			score = dot / (queryNorm * docNorm)
		}
		results = append(results, scoredDoc{docid: docid, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].docid < results[j].docid
	})

	if len(results) > limit {
		results = results[:limit]
	}

	out := make([]Result, len(results))
	for i, r := range results {
		url, ok := e.urlMap[r.docid]
		if !ok {
			return nil, errors.Errorf("invariant violation: docid %d has postings but no url map entry", r.docid)
		}
		out[i] = Result{URL: url, Score: r.score}
	}
	return out, nil
}

// postingsFor fetches the posting list for token, loading its shard
// file lazily and caching it for the lifetime of this Engine.
func (e *Engine) postingsFor(token string) (shard.Postings, error) {
	idx, err := e.shardIndex(shard.Partition(firstRune(token)))
	if err != nil {
		return nil, err
	}
	return idx[token], nil
}

func (e *Engine) shardIndex(key shard.RangeKey) (shard.Index, error) {
	if idx, ok := e.cache[key]; ok {
		return idx, nil
	}
	idx, found, err := shard.ReadFile(shard.FileName(e.indexDir, key))
	if err != nil {
		return nil, err
	}
	if !found {
		idx = shard.Index{}
	}
	e.cache[key] = idx
	return idx, nil
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func stemQuery(query string) []string {
	words := tokenize.Words(query)
	tokens := make([]string, len(words))
	for i, w := range words {
		tokens[i] = tokenize.Stem(w)
	}
	return tokens
}

func countOccurrences(tokens []string, target string) int {
	n := 0
	for _, t := range tokens {
		if t == target {
			n++
		}
	}
	return n
}

func countForDoc(postings shard.Postings, docid uint32) int {
	total := 0
	for _, p := range postings {
		if p.DocID == docid {
			total += int(p.Count)
		}
	}
	return total
}

func intersectDocIDs(termPostings map[string]shard.Postings) *roaring.Bitmap {
	var result *roaring.Bitmap
	for _, postings := range termPostings {
		bm := roaring.New()
		for _, p := range postings {
			bm.Add(p.DocID)
		}
		if result == nil {
			result = bm
			continue
		}
		result.And(bm)
	}
	if result == nil {
		return roaring.New()
	}
	return result
}
