package hardmode

import (
	"io"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordle-entropy/checkpoint"
)

// DiffStore persists the growing list of per-bucket results.
type DiffStore interface {
	Load() ([]Diff, error)
	Save([]Diff) error
}

type FileDiffStore struct {
	Path string
}

func NewFileDiffStore(path string) *FileDiffStore {
	return &FileDiffStore{Path: path}
}

func (f *FileDiffStore) Load() ([]Diff, error) {
	diffs, ok, err := checkpoint.ReadFile(f.Path, checkpoint.ReadDiffs)
	if err != nil {
		return nil, err
	}
	if ok {
		log.Info().Str("path", f.Path).Int("entries", len(diffs)).Msg("loaded-hard-mode-checkpoint")
	}
	return diffs, nil
}

func (f *FileDiffStore) Save(diffs []Diff) error {
	return checkpoint.WriteFile(f.Path, func(w io.Writer) error {
		return checkpoint.WriteDiffs(w, diffs)
	})
}

type MemoryDiffStore struct {
	mu    sync.Mutex
	diffs []Diff
	saves int
}

func NewMemoryDiffStore(initial []Diff) *MemoryDiffStore {
	return &MemoryDiffStore{diffs: slices.Clone(initial)}
}

func (m *MemoryDiffStore) Load() ([]Diff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.diffs), nil
}

func (m *MemoryDiffStore) Save(diffs []Diff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diffs = slices.Clone(diffs)
	m.saves++
	return nil
}

func (m *MemoryDiffStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
