package automatic

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordle-entropy/entropy"
)

// Rough cost of one map entry, key and Guess included.
const entrySize = 64

const minEntries = 1 << 10

// Table remembers the best guess for a (solutions, guess pool) state. Games
// that reach the same state share the answer. Collisions of the 64-bit key
// are ignored.
type Table struct {
	mu         sync.RWMutex
	entries    map[uint64]entropy.Guess
	maxEntries int

	lookups atomic.Uint64
	hits    atomic.Uint64
	full    atomic.Bool
}

// NewTable sizes the table to a fraction of system memory.
func NewTable(fractionOfMemory float64) *Table {
	totalMem := memory.TotalMemory()
	maxEntries := max(int(fractionOfMemory*float64(totalMem)/entrySize), minEntries)
	log.Info().Int("max-entries", maxEntries).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("guess-table-size")
	return &Table{entries: map[uint64]entropy.Guess{}, maxEntries: maxEntries}
}

// TableKey hashes the solution indices and guess pool indices. Both are
// expected in ascending order, which session filtering preserves.
func TableKey(solIdx, guessIdx []int) uint64 {
	buf := make([]byte, 0, 4*(len(solIdx)+len(guessIdx)+1))
	for _, i := range solIdx {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(i))
	}
	// separator; no index is this large
	buf = binary.LittleEndian.AppendUint32(buf, ^uint32(0))
	for _, i := range guessIdx {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(i))
	}
	return xxhash.Sum64(buf)
}

func (t *Table) Lookup(key uint64) (entropy.Guess, bool) {
	t.lookups.Add(1)
	t.mu.RLock()
	defer t.mu.RUnlock()
	g, ok := t.entries[key]
	if ok {
		t.hits.Add(1)
	}
	return g, ok
}

// Store adds an entry unless the table is full.
func (t *Table) Store(key uint64, g entropy.Guess) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) >= t.maxEntries {
		if !t.full.Swap(true) {
			log.Warn().Int("entries", len(t.entries)).Msg("guess-table-full")
		}
		return
	}
	t.entries[key] = g
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Table) Stats() (lookups, hits uint64) {
	return t.lookups.Load(), t.hits.Load()
}
