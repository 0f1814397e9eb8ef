package debug

import (
	"context"
	"sync"

	"github.com/adamchandra/ensime/internal/jdwp"
)

// installedBreakpoint remembers every JDWP request id a single source
// position resolved to, since one line can correspond to locations in
// several methods (e.g. a line shared by a lambda and its enclosing
// method) and ClearBreakpoint must remove all of them.
type installedBreakpoint struct {
	requestIDs []jdwp.RequestID
}

// breakpointSet owns the active/pending partition spec.md §3/§8 requires
// to stay disjoint at every transition: active breakpoints are installed
// in the target VM; pending ones are recorded by basename, waiting for a
// ClassPrepareEvent to retry.
type breakpointSet struct {
	mu      sync.Mutex
	active  map[SourcePosition]*installedBreakpoint
	pending map[string]map[SourcePosition]bool
}

func newBreakpointSet() *breakpointSet {
	return &breakpointSet{
		active:  make(map[SourcePosition]*installedBreakpoint),
		pending: make(map[string]map[SourcePosition]bool),
	}
}

func (s *breakpointSet) isActive(pos SourcePosition) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[pos]
	return ok
}

func (s *breakpointSet) markActive(pos SourcePosition, b *installedBreakpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removePendingLocked(pos)
	s.active[pos] = b
}

func (s *breakpointSet) markPending(pos SourcePosition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, pos)
	bn := basenameOf(pos.File)
	set, ok := s.pending[bn]
	if !ok {
		set = make(map[SourcePosition]bool)
		s.pending[bn] = set
	}
	set[pos] = true
}

func (s *breakpointSet) removePendingLocked(pos SourcePosition) {
	bn := basenameOf(pos.File)
	if set, ok := s.pending[bn]; ok {
		delete(set, pos)
	}
}

// removePending is removePendingLocked's exported-within-package,
// self-locking counterpart for callers that don't already hold mu.
func (s *breakpointSet) removePending(pos SourcePosition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removePendingLocked(pos)
}

// takeActive removes and returns the installed breakpoint at pos, if any.
func (s *breakpointSet) takeActive(pos SourcePosition) (*installedBreakpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.active[pos]
	if ok {
		delete(s.active, pos)
	}
	return b, ok
}

// pendingForBasename returns every pending position for a basename.
func (s *breakpointSet) pendingForBasename(basename string) []SourcePosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.pending[basename]
	out := make([]SourcePosition, 0, len(set))
	for pos := range set {
		out = append(out, pos)
	}
	return out
}

// reset clears both the active and pending sets, used by
// ClearAllBreakpoints.
func (s *breakpointSet) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = make(map[SourcePosition]*installedBreakpoint)
	s.pending = make(map[string]map[SourcePosition]bool)
}

// allActive returns a snapshot of every active source position, used when
// migrating the whole active set back to pending on disconnect.
func (s *breakpointSet) allActive() []SourcePosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SourcePosition, 0, len(s.active))
	for pos := range s.active {
		out = append(out, pos)
	}
	return out
}

// migrateActiveToPending implements the disconnect transition: every
// active breakpoint becomes pending so a subsequent VM start re-installs
// it, with no JDWP calls needed since the VM that held the requests is
// already gone.
func (s *breakpointSet) migrateActiveToPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pos := range s.active {
		delete(s.active, pos)
		bn := basenameOf(pos.File)
		set, ok := s.pending[bn]
		if !ok {
			set = make(map[SourcePosition]bool)
			s.pending[bn] = set
		}
		set[pos] = true
	}
}

// resolveLocations asks every candidate class for locations-of-line in
// each of its methods and the class itself, deduplicating by
// (classID, methodID, codeIndex) the way spec.md §4.4 step 2 describes
// ("collect, deduplicate by (source-path, source-name, line)" — here by
// the JDWP-level location triple that maps onto it).
func resolveLocations(ctx context.Context, conn *jdwp.Conn, classes []jdwp.ReferenceTypeID, line int) ([]jdwp.Location, error) {
	seen := make(map[jdwp.Location]bool)
	var out []jdwp.Location
	for _, class := range classes {
		methods, err := conn.Methods(ctx, class)
		if err != nil {
			continue // a class that fails to answer is skipped, not fatal
		}
		for _, m := range methods {
			_, _, lines, err := conn.LineTable(ctx, class, m.ID)
			if err != nil {
				continue
			}
			for _, entry := range lines {
				if int(entry.LineNumber) != line {
					continue
				}
				loc := jdwp.Location{TypeTag: jdwp.TypeTagClass, ClassID: class, MethodID: m.ID, CodeIndex: entry.CodeIndex}
				if seen[loc] {
					continue
				}
				seen[loc] = true
				out = append(out, loc)
			}
		}
	}
	return out, nil
}
