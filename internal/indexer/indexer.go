package indexer

import (
	"context"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/adamchandra/ensime/internal/actor"
)

// writerMailboxCapacity bounds the producer/consumer pipeline's mailbox.
const writerMailboxCapacity = 4096

// initializeTimeout is the generous upper bound spec.md §5 calls for on
// Initialize: exceeding it fails that attempt but is not fatal to the
// process.
const initializeTimeout = 3 * time.Hour

// ReadyEvent is emitted once Initialize has rebuilt the index and refreshed
// the document snapshot. It is not emitted when Initialize finds the index
// up to date and skips the rebuild, nor by Commit.
type ReadyEvent struct{}

// Indexer is the actor owning the on-disk index directory exclusively.
// All reader state lives only while this actor is alive.
type Indexer struct {
	mailbox *actor.Mailbox
	log     *slog.Logger

	mu    sync.RWMutex // guards store + cached docs snapshot
	store *Store
	docs  []IndexDocument // refreshed on Commit, used for read queries

	events chan any
}

// New constructs an Indexer actor backed by the sqlite index at dir.
func New(dir string, log *slog.Logger) (*Indexer, error) {
	store, err := Open(dir)
	if err != nil {
		return nil, err
	}
	return &Indexer{
		mailbox: actor.NewMailbox(256),
		log:     log,
		store:   store,
		events:  make(chan any, 16),
	}, nil
}

// Run starts the actor's mailbox loop; call in its own goroutine.
func (ix *Indexer) Run(ctx context.Context) { ix.mailbox.Run(ctx) }

// Events returns the channel the Project router drains for indexer-ready
// and similar asynchronous notifications.
func (ix *Indexer) Events() <-chan any { return ix.events }

// ClasspathSpec bundles the inputs Initialize needs to decide whether to
// rebuild and then, if so, to walk.
type ClasspathSpec struct {
	Entries  []string
	Includes []*regexp.Regexp
	Excludes []*regexp.Regexp
}

// Initialize decides whether to re-index per spec.md §4.2's conservative
// rule, and if so tears down the on-disk directory and rebuilds via the
// writer pipeline, committing user metadata atomically on completion.
// The call blocks the caller until done or initializeTimeout elapses.
func (ix *Indexer) Initialize(ctx context.Context, spec ClasspathSpec) error {
	result := make(chan error, 1)
	ix.mailbox.Post(ctx, func() {
		result <- ix.doInitialize(ctx, spec)
	})

	timeoutCtx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()
	select {
	case err := <-result:
		return err
	case <-timeoutCtx.Done():
		return timeoutCtx.Err()
	}
}

func (ix *Indexer) doInitialize(ctx context.Context, spec ClasspathSpec) error {
	proposed, err := hashClasspathSources(spec.Entries)
	if err != nil {
		ix.log.Warn("failed hashing classpath entries", "error", err)
	}

	meta, err := ix.store.LoadMetadata()
	if err != nil {
		return err
	}

	if !ShouldReindex(meta.IndexVersion, meta.FileHashes, proposed) {
		ix.log.Info("index up to date, skipping rebuild")
		return ix.refreshUnlocked()
	}

	ix.log.Info("rebuilding index", "entries", len(spec.Entries))
	if err := ix.store.Reset(); err != nil {
		return err
	}

	writer := newWriterActor(ix.store, writerMailboxCapacity)
	writerDone := make(chan struct{})
	go func() {
		writer.run(ctx)
		close(writerDone)
	}()

	if err := walkClasspath(ctx, spec.Entries, spec.Includes, spec.Excludes, writer); err != nil {
		return err
	}
	writer.Stop(ctx)

	if err := ix.store.CommitMetadata(UserMetadata{IndexVersion: IndexVersion, FileHashes: proposed}); err != nil {
		return err
	}

	if err := ix.refreshUnlocked(); err != nil {
		return err
	}
	ix.emit(ReadyEvent{})
	return nil
}

func hashClasspathSources(entries []string) (map[string]string, error) {
	hashes := make(map[string]string, len(entries))
	for _, e := range entries {
		h, err := HashFile(e)
		if err != nil {
			continue // directories and unreadable entries contribute no hash
		}
		hashes[e] = h
	}
	return hashes, nil
}

// Insert upserts a single result, used by incremental re-indexing as the
// analyzer reports newly compiled symbols.
func (ix *Indexer) Insert(ctx context.Context, r SymbolResult) error {
	result := make(chan error, 1)
	ix.mailbox.Post(ctx, func() {
		result <- ix.store.Insert(r)
	})
	return <-result
}

// Remove deletes a document by exact name.
func (ix *Indexer) Remove(ctx context.Context, name string) error {
	result := make(chan error, 1)
	ix.mailbox.Post(ctx, func() {
		result <- ix.store.Remove(name)
	})
	return <-result
}

// Commit flushes outstanding writes and refreshes the cached read snapshot.
func (ix *Indexer) Commit(ctx context.Context) error {
	result := make(chan error, 1)
	ix.mailbox.Post(ctx, func() {
		result <- ix.refreshUnlocked()
	})
	return <-result
}

func (ix *Indexer) refreshUnlocked() error {
	docs, err := ix.store.All(false)
	if err != nil {
		return err
	}
	ix.mu.Lock()
	ix.docs = docs
	ix.mu.Unlock()
	return nil
}

// KeywordSearch is a read-only query; it does not need the mailbox because
// it only touches the immutable snapshot refreshed on Commit.
func (ix *Indexer) KeywordSearch(keywords []string, limit int, typesOnly bool) []SymbolResult {
	ix.mu.RLock()
	docs := ix.docs
	ix.mu.RUnlock()
	return KeywordSearch(docs, keywords, limit, typesOnly, false)
}

// KeywordSearchFuzzy is KeywordSearch with fuzzy term matching.
func (ix *Indexer) KeywordSearchFuzzy(keywords []string, limit int, typesOnly bool) []SymbolResult {
	ix.mu.RLock()
	docs := ix.docs
	ix.mu.RUnlock()
	return KeywordSearch(docs, keywords, limit, typesOnly, true)
}

// ImportSuggestions forwards to the package-level ranking function using
// the current read snapshot.
func (ix *Indexer) ImportSuggestions(typeNames []string, limit int) map[string][]ImportSuggestion {
	ix.mu.RLock()
	docs := ix.docs
	ix.mu.RUnlock()
	return ImportSuggestions(docs, typeNames, limit)
}

// Close releases the underlying store.
func (ix *Indexer) Close() error { return ix.store.Close() }

func (ix *Indexer) emit(ev any) {
	select {
	case ix.events <- ev:
	default:
		ix.log.Warn("indexer event channel full, dropping", "event", ev)
	}
}
