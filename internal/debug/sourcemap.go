package debug

import (
	"path"
	"sync"

	"github.com/adamchandra/ensime/internal/jdwp"
)

// sourceMap is the basename -> set<loaded class> index breakpoint
// resolution uses: spec.md §3 describes it over canonical source files,
// but the debug controller's variant keys by JDWP reference type ids
// (the loaded-class side of the mapping) since that's what SetBreakpoint
// actually needs to ask for line-table locations.
type sourceMap struct {
	mu      sync.Mutex
	classes map[string]map[jdwp.ReferenceTypeID]bool
}

func newSourceMap() *sourceMap {
	return &sourceMap{classes: make(map[string]map[jdwp.ReferenceTypeID]bool)}
}

// Add registers class under basename, rebuilding on every VMStart (all
// loaded classes) and incrementally on every ClassPrepareEvent.
func (m *sourceMap) Add(basename string, class jdwp.ReferenceTypeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.classes[basename]
	if !ok {
		set = make(map[jdwp.ReferenceTypeID]bool)
		m.classes[basename] = set
	}
	set[class] = true
}

// ClassesFor returns every loaded class whose source basename matches.
func (m *sourceMap) ClassesFor(basename string) []jdwp.ReferenceTypeID {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.classes[basename]
	out := make([]jdwp.ReferenceTypeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Reset clears the whole map, used on disconnect.
func (m *sourceMap) Reset() {
	m.mu.Lock()
	m.classes = make(map[string]map[jdwp.ReferenceTypeID]bool)
	m.mu.Unlock()
}

func basenameOf(file string) string {
	return path.Base(file)
}
