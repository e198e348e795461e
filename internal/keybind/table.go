package keybind

import (
	"sort"
	"sync"

	"github.com/temoto/hotkeyd/helpers"
	"github.com/temoto/hotkeyd/internal/key"
	"github.com/temoto/hotkeyd/internal/launch"
)

// Table is built once and shared by all device listeners.
// The lock is held only for one map access.
type Table struct {
	mu sync.Mutex
	m  map[key.Combination]Binding
}

// NewTable applies last-wins to duplicate combinations.
func NewTable(bindings []Binding) *Table {
	t := &Table{m: make(map[key.Combination]Binding, len(bindings))}
	for _, b := range bindings {
		t.m[b.Combination] = b
	}
	return t
}

func (t *Table) Lookup(c key.Combination) (launch.Command, bool) {
	var b Binding
	var ok bool
	helpers.WithLock(&t.mu, func() { b, ok = t.m[c] })
	return b.Command, ok
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}

// Bindings is a snapshot ordered by source line.
func (t *Table) Bindings() []Binding {
	t.mu.Lock()
	bs := make([]Binding, 0, len(t.m))
	for _, b := range t.m {
		bs = append(bs, b)
	}
	t.mu.Unlock()
	sort.Slice(bs, func(i, j int) bool { return bs[i].Line < bs[j].Line })
	return bs
}
