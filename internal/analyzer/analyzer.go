package analyzer

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/adamchandra/ensime/internal/actor"
	"github.com/adamchandra/ensime/internal/indexer"
	"github.com/adamchandra/ensime/internal/protocol"
)

// FullTypeCheckCompleteEvent fires once the initial background compile
// finishes, immediately followed by AnalyzerReadyEvent once the gate opens.
type FullTypeCheckCompleteEvent struct{}

// AnalyzerReadyEvent flips the readiness gate; any RPC the Analyzer
// rejected with analyzer-not-ready up to this point can now be retried.
type AnalyzerReadyEvent struct{}

// Analyzer is the façade actor in front of the presentation compiler and
// java compiler. Every request runs on its mailbox goroutine except the
// initial compile, which runs on a background task per spec.md §5.
type Analyzer struct {
	mailbox *actor.Mailbox
	log     *slog.Logger

	pc  PresentationCompiler
	jc  JavaCompiler
	idx *indexer.Indexer

	ready  atomic.Bool
	events chan any
}

// New constructs an Analyzer not yet ready to serve requests.
func New(pc PresentationCompiler, jc JavaCompiler, idx *indexer.Indexer, log *slog.Logger) *Analyzer {
	return &Analyzer{
		mailbox: actor.NewMailbox(256),
		log:     log,
		pc:      pc,
		jc:      jc,
		idx:     idx,
		events:  make(chan any, 16),
	}
}

// Run starts the actor's mailbox loop; call in its own goroutine.
func (a *Analyzer) Run(ctx context.Context) { a.mailbox.Run(ctx) }

// Events returns the channel the Project router drains for analyzer
// readiness and type-check notifications.
func (a *Analyzer) Events() <-chan any { return a.events }

func (a *Analyzer) emit(ev any) {
	select {
	case a.events <- ev:
	default:
		a.log.Warn("analyzer event channel full, dropping", "event", ev)
	}
}

// StartInitialCompile kicks the first full type-check on a background task.
// On completion it emits FullTypeCheckCompleteEvent, opens the readiness
// gate, emits AnalyzerReadyEvent, and asks the indexer to commit its
// incrementally-updated writes.
func (a *Analyzer) StartInitialCompile(ctx context.Context) {
	go func() {
		if err := a.pc.Run(ctx); err != nil {
			a.log.Error("initial compile failed", "error", err)
			return
		}
		a.emit(FullTypeCheckCompleteEvent{})
		a.ready.Store(true)
		a.emit(AnalyzerReadyEvent{})
		if a.idx != nil {
			if err := a.idx.Commit(ctx); err != nil {
				a.log.Warn("post-compile indexer commit failed", "error", err)
			}
		}
	}()
}

// notReady is the gate every request helper below checks first.
func (a *Analyzer) notReady() error {
	if a.ready.Load() {
		return nil
	}
	return protocol.Abort(protocol.ErrAnalyzerNotReady, "analyzer initializing")
}

// post runs fn on the actor's mailbox and waits for its result, wrapping
// any error fn returns (other than an *protocol.AbortError it raised
// itself) as analyzer-exception per spec.md §4.3.
func post[T any](ctx context.Context, a *Analyzer, fn func() (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	result := make(chan outcome, 1)
	a.mailbox.Post(ctx, func() {
		v, err := fn()
		if err != nil {
			if _, ok := err.(*protocol.AbortError); !ok {
				err = protocol.Abort(protocol.ErrAnalyzerException, err.Error())
			}
		}
		result <- outcome{v, err}
	})
	r := <-result
	return r.v, r.err
}
