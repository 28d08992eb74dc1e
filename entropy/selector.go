package entropy

import (
	"context"
	"runtime"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/wordle-entropy/cache"
	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/feedback"
)

// DefaultCheckpointEvery is how many newly scored words go between saves
// of the entropy store.
const DefaultCheckpointEvery = 20

// Guess is a scored guess word.
type Guess struct {
	Index   int     `json:"index" yaml:"index"`
	Word    string  `json:"word" yaml:"word"`
	Entropy float64 `json:"entropy" yaml:"entropy"`
}

// Selector scores every candidate guess and returns the best one.
type Selector struct {
	// Store is consulted and updated only when a caller asks for the cache.
	// It may be nil.
	Store           cache.Store
	Rule            feedback.Rule
	Threads         int
	CheckpointEvery int
}

func NewSelector(store cache.Store, rule feedback.Rule, threads int) *Selector {
	return &Selector{
		Store:           store,
		Rule:            rule,
		Threads:         threads,
		CheckpointEvery: DefaultCheckpointEvery,
	}
}

func (s *Selector) threads() int {
	if s.Threads > 0 {
		return s.Threads
	}
	return runtime.NumCPU()
}

func (s *Selector) checkpointEvery() int {
	if s.CheckpointEvery > 0 {
		return s.CheckpointEvery
	}
	return DefaultCheckpointEvery
}

// BestGuess returns the guess among guessIdx with the highest entropy over
// solIdx. Ties go to the alphabetically smallest word.
//
// With useCache, entropies already in the Store are reused, and newly
// scored words are saved back every CheckpointEvery words and once more at
// the end. Only ask for the cache when solIdx is the full solution list.
func (s *Selector) BestGuess(ctx context.Context, guesses *corpus.Corpus, guessIdx []int,
	solutions *corpus.Corpus, solIdx []int, useCache bool) (Guess, error) {

	scored, err := s.score(ctx, guesses, guessIdx, solutions, solIdx, useCache)
	if err != nil {
		return Guess{}, err
	}
	best := scored[0]
	for _, g := range scored[1:] {
		if better(g, best) {
			best = g
		}
	}
	log.Debug().Str("guess", best.Word).Float64("entropy", best.Entropy).
		Int("guesses", len(guessIdx)).Int("solutions", len(solIdx)).Msg("best-guess")
	return best, nil
}

// ScoreAll returns every guess, best first.
func (s *Selector) ScoreAll(ctx context.Context, guesses *corpus.Corpus, guessIdx []int,
	solutions *corpus.Corpus, solIdx []int, useCache bool) ([]Guess, error) {

	scored, err := s.score(ctx, guesses, guessIdx, solutions, solIdx, useCache)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return better(scored[i], scored[j])
	})
	return scored, nil
}

func better(a, b Guess) bool {
	if a.Entropy != b.Entropy {
		return a.Entropy > b.Entropy
	}
	return a.Word < b.Word
}

func (s *Selector) score(ctx context.Context, guesses *corpus.Corpus, guessIdx []int,
	solutions *corpus.Corpus, solIdx []int, useCache bool) ([]Guess, error) {

	if len(guessIdx) == 0 {
		return nil, ErrNoGuesses
	}
	if len(solIdx) == 0 {
		return nil, ErrNoSolutions
	}
	scored := make([]Guess, len(guessIdx))
	for i, idx := range guessIdx {
		scored[i] = Guess{Index: idx, Word: guesses.Word(idx)}
	}

	if !useCache || s.Store == nil {
		all := make([]int, len(scored))
		for i := range all {
			all[i] = i
		}
		if err := s.scoreBatch(ctx, scored, all, solutions, solIdx); err != nil {
			return nil, err
		}
		return scored, nil
	}

	known, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	var missing []int
	for i := range scored {
		if e, ok := known[scored[i].Word]; ok {
			scored[i].Entropy = e
		} else {
			missing = append(missing, i)
		}
	}
	log.Info().Int("cached", len(scored)-len(missing)).Int("to-score", len(missing)).
		Msg("scoring-with-cache")

	every := s.checkpointEvery()
	for start := 0; start < len(missing); start += every {
		batch := missing[start:min(start+every, len(missing))]
		if err := s.scoreBatch(ctx, scored, batch, solutions, solIdx); err != nil {
			return nil, err
		}
		for _, i := range batch {
			known[scored[i].Word] = scored[i].Entropy
		}
		if err := s.Store.Save(known); err != nil {
			return nil, err
		}
		log.Info().Int("scored", start+len(batch)).Int("of", len(missing)).
			Str("last", scored[batch[len(batch)-1]].Word).Msg("saved-entropy-checkpoint")
	}
	if err := s.Store.Save(known); err != nil {
		return nil, err
	}
	return scored, nil
}

// scoreBatch fills in the entropy of scored[i] for every i in which. Words
// are scored concurrently; each goroutine writes only its own slot.
func (s *Selector) scoreBatch(ctx context.Context, scored []Guess, which []int,
	solutions *corpus.Corpus, solIdx []int) error {

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads())
	for _, i := range which {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			counts := s.Rule.Counts(scored[i].Word, solutions, solIdx)
			scored[i].Entropy = FromCounts(counts[:])
			return nil
		})
	}
	return g.Wait()
}
