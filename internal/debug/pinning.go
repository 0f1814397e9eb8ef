package debug

import (
	"context"
	"sync"

	"github.com/adamchandra/ensime/internal/jdwp"
)

// pinTable is the process-wide {objectId -> objectReference} map spec.md
// §3/§4.4 calls for: every object the client has been shown is recorded
// here so a later DebugValueReq can dereference it across suspend/resume
// boundaries, without relying on a tracing collector to keep it alive.
// Primitives are never pinned. Eviction happens wholesale on VM
// disconnect (the objects belong to a VM instance that no longer exists).
type pinTable struct {
	mu      sync.Mutex
	entries map[int64]pinnedEntry
}

func newPinTable() *pinTable {
	return &pinTable{entries: make(map[int64]pinnedEntry)}
}

// Pin records v (an object-tagged jdwp.Value) and asks the VM to disable
// collection for it, returning the id the client should use to refer back
// to it. Primitive values are a no-op and return 0.
func (t *pinTable) Pin(ctx context.Context, conn *jdwp.Conn, v jdwp.Value) int64 {
	if !jdwp.IsObjectTag(v.Tag) || v.Object == 0 {
		return 0
	}
	id := int64(v.Object)

	t.mu.Lock()
	_, already := t.entries[id]
	t.entries[id] = pinnedEntry{id: v.Object, tag: v.Tag}
	t.mu.Unlock()

	if !already && conn != nil {
		_ = conn.DisableCollection(ctx, v.Object)
	}
	return id
}

// Lookup returns the pinned object for id, if any.
func (t *pinTable) Lookup(id int64) (jdwp.ObjectID, byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	return e.id, e.tag, ok
}

// Clear drops every pinned entry, used on VM disconnect.
func (t *pinTable) Clear() {
	t.mu.Lock()
	t.entries = make(map[int64]pinnedEntry)
	t.mu.Unlock()
}
