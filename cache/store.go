package cache

import (
	"io"
	"maps"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordle-entropy/checkpoint"
)

// Store persists word -> entropy values between runs. The values are only
// meaningful for the population they were computed against; callers only
// use a Store when scoring against the full, unconstrained solution list.
type Store interface {
	Load() (map[string]float64, error)
	Save(map[string]float64) error
}

// FileStore keeps the entropies in a checkpoint file. It assumes a single
// writer.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load() (map[string]float64, error) {
	m, ok, err := checkpoint.ReadFile(f.Path, checkpoint.ReadEntropies)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug().Str("path", f.Path).Msg("no-entropy-checkpoint")
		return map[string]float64{}, nil
	}
	log.Info().Str("path", f.Path).Int("entries", len(m)).Msg("loaded-entropy-checkpoint")
	return m, nil
}

func (f *FileStore) Save(m map[string]float64) error {
	return checkpoint.WriteFile(f.Path, func(w io.Writer) error {
		return checkpoint.WriteEntropies(w, m)
	})
}

// MemoryStore is a Store that never touches disk.
type MemoryStore struct {
	mu    sync.Mutex
	m     map[string]float64
	saves int
}

func NewMemoryStore(initial map[string]float64) *MemoryStore {
	m := maps.Clone(initial)
	if m == nil {
		m = map[string]float64{}
	}
	return &MemoryStore{m: m}
}

func (s *MemoryStore) Load() (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.m), nil
}

func (s *MemoryStore) Save(m map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = maps.Clone(m)
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
