package config

import (
	"log/slog"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadDelta is what changed between the previously loaded config and the
// one a file-change event just produced. Config hot-reload only matters to
// this backend insofar as it feeds spec.md §4.2/§4.3's re-index and
// re-compile decisions, so the watcher computes the delta itself rather
// than handing callers a bare *Config to diff themselves.
type ReloadDelta struct {
	Config *Config

	// ClasspathChanged is true when any entry the indexer's ClasspathSpec
	// is built from (compile/runtime jars, include/exclude patterns)
	// differs from the last loaded config, per spec.md §4.2's Initialize.
	ClasspathChanged bool

	// SourceRootsChanged is true when the analyzer's source or reference
	// source roots differ, meaning a full reload is warranted.
	SourceRootsChanged bool
}

// ChangeHandler is called with the reload delta whenever the config file
// changes and reparses successfully.
type ChangeHandler func(delta ReloadDelta)

// Watcher watches a config file for changes and reloads it, diffing each
// reload against the last-known config so handlers only re-index or
// re-compile when the fields that feed those operations actually moved.
// Changes are debounced (300ms) to avoid rapid reloads.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	handlers []ChangeHandler
	debounce time.Duration
	stopChan chan struct{}
	mu       sync.Mutex

	prevMu   sync.Mutex
	previous *Config
}

// NewWatcher creates a config file watcher. It loads path once up front to
// seed the delta baseline: conservatively, if that initial load fails, the
// first successful reload is reported as changing everything, matching
// the indexer's own unknown-state-forces-rebuild bias (spec.md §4.2).
func NewWatcher(configPath string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	baseline, loadErr := Load(configPath)
	if loadErr != nil {
		baseline = nil
	}

	return &Watcher{
		path:     configPath,
		watcher:  w,
		debounce: 300 * time.Millisecond,
		previous: baseline,
	}, nil
}

// OnChange registers a handler to be called when config changes.
func (cw *Watcher) OnChange(handler ChangeHandler) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.handlers = append(cw.handlers, handler)
}

// Start begins watching the config file for changes.
func (cw *Watcher) Start() error {
	if err := cw.watcher.Add(cw.path); err != nil {
		return err
	}

	cw.stopChan = make(chan struct{})
	go cw.watchLoop()

	slog.Info("config watcher started", "path", cw.path)
	return nil
}

// Stop halts the file watcher.
func (cw *Watcher) Stop() {
	if cw.stopChan != nil {
		close(cw.stopChan)
	}
	cw.watcher.Close()
	slog.Info("config watcher stopped")
}

func (cw *Watcher) watchLoop() {
	var debounceTimer *time.Timer

	for {
		select {
		case <-cw.stopChan:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			// Debounce: reset timer on each change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(cw.debounce, func() {
				cw.reload()
			})

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher error", "error", err)
		}
	}
}

func (cw *Watcher) reload() {
	slog.Info("config file changed, reloading", "path", cw.path)

	cfg, err := Load(cw.path)
	if err != nil {
		slog.Error("config reload failed", "error", err)
		return
	}

	cw.prevMu.Lock()
	prev := cw.previous
	cw.previous = cfg
	cw.prevMu.Unlock()

	delta := ReloadDelta{
		Config:             cfg,
		ClasspathChanged:   classpathChanged(prev, cfg),
		SourceRootsChanged: sourceRootsChanged(prev, cfg),
	}

	cw.mu.Lock()
	handlers := make([]ChangeHandler, len(cw.handlers))
	copy(handlers, cw.handlers)
	cw.mu.Unlock()

	for _, h := range handlers {
		h(delta)
	}

	slog.Info("config reloaded successfully",
		"classpathChanged", delta.ClasspathChanged,
		"sourceRootsChanged", delta.SourceRootsChanged)
}

// classpathChanged reports whether any field the indexer's ClasspathSpec
// (cmd/ensimed's serve.go) is built from differs between prev and next.
// prev == nil (no prior successful load) is always a change.
func classpathChanged(prev, next *Config) bool {
	if prev == nil {
		return true
	}
	return !stringsEqualUnordered(prev.CompileJars, next.CompileJars) ||
		!stringsEqualUnordered(prev.RuntimeJars, next.RuntimeJars) ||
		!regexpsEqualUnordered(prev.OnlyIncludeInIndex, next.OnlyIncludeInIndex) ||
		!regexpsEqualUnordered(prev.ExcludeFromIndex, next.ExcludeFromIndex)
}

// sourceRootsChanged reports whether the analyzer's source or reference
// source roots differ between prev and next.
func sourceRootsChanged(prev, next *Config) bool {
	if prev == nil {
		return true
	}
	return !stringsEqualUnordered(prev.SourceRoots, next.SourceRoots) ||
		!stringsEqualUnordered(prev.ReferenceSourceRoots, next.ReferenceSourceRoots)
}

func stringsEqualUnordered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string{}, a...)
	sb := append([]string{}, b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func regexpsEqualUnordered(a, b []*regexp.Regexp) bool {
	if len(a) != len(b) {
		return false
	}
	pa := make([]string, len(a))
	for i, re := range a {
		pa[i] = re.String()
	}
	pb := make([]string, len(b))
	for i, re := range b {
		pb[i] = re.String()
	}
	return stringsEqualUnordered(pa, pb)
}
