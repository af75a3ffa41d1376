package indexer

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/webcorpus/invidx/internal/shard"
)

// offloadLoop is the single long-lived offloader worker: it waits on the
// event channel, drains the in-memory shard map, and exits once it
// observes the producer has stopped running - one last iteration after
// the final flush, per spec.md §4.2 item 5.
//
// running going false only means the producer has finished walking the
// corpus, not that the in-memory map is empty: a merge can cross the
// postings threshold and signal a second time while a prior offloadOnce
// is still writing the first batch to disk, and that second signal can
// still be sitting in the buffered events channel by the time running
// flips. So the exit decision is based on the map itself, not on a race
// between running and events.
func (b *Builder) offloadLoop(ctx context.Context, events <-chan struct{}, running *atomic.Bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-events:
		}

		if err := b.offloadOnce(ctx); err != nil {
			return err
		}

		if !running.Load() {
			for b.hasPendingPostings() {
				if err := b.offloadOnce(ctx); err != nil {
					return err
				}
			}
			return nil
		}
	}
}

// offloadOnce performs one drain: swap the in-memory shard map out under
// the mutex (the offloader's only critical section), then merge each
// range key's shard into its on-disk file, in parallel, bounded to
// MaxOffloadWorkers concurrent jobs. Because range keys are disjoint, no
// two jobs ever write the same file.
func (b *Builder) offloadOnce(ctx context.Context) error {
	localCopy := b.swapOut()
	if len(localCopy) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(b.cfg.MaxOffloadWorkers))

	for key, idx := range localCopy {
		key, idx := key, idx
		if err := sem.Acquire(gctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			return b.mergeShardToDisk(key, idx)
		})
	}

	return g.Wait()
}

// swapOut moves the in-memory shard map into a local copy, owned
// exclusively by the offloader from this point on, and clears the
// in-memory state. This is the offloader's only critical section.
func (b *Builder) swapOut() map[shard.RangeKey]shard.Index {
	b.mu.Lock()
	defer b.mu.Unlock()
	localCopy := b.inMemory
	b.inMemory = make(map[shard.RangeKey]shard.Index)
	b.postingsCount = 0
	return localCopy
}

// mergeShardToDisk merges idx into the on-disk shard file for key,
// extending existing posting lists rather than deduplicating, or writes
// idx as-is if no shard file exists yet.
func (b *Builder) mergeShardToDisk(key shard.RangeKey, idx shard.Index) error {
	path := shard.FileName(b.cfg.IndexDir, key)

	existing, found, err := shard.ReadFile(path)
	if err != nil {
		return err
	}
	if !found {
		return shard.WriteFile(path, idx)
	}

	shard.MergeInto(existing, idx)
	return shard.WriteFile(path, existing)
}
