// Package hardmode measures how much information is lost by restricting the
// second guess to words consistent with the first guess's feedback.
package hardmode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordle-entropy/checkpoint"
	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/entropy"
	"github.com/domino14/wordle-entropy/feedback"
)

type Diff = checkpoint.Diff

const (
	DefaultCheckpointEvery = 20

	// Epsilon absorbs floating point noise when comparing entropies.
	Epsilon = 1e-9
	// ReportThreshold is the loss above which a bucket is logged.
	ReportThreshold = 0.001
)

var (
	ErrEntropyInvariant = errors.New("constrained guess beat the unconstrained guess")
	ErrResumeMismatch   = errors.New("checkpoint has more entries than there are buckets")
)

type Options struct {
	// Opening forces the first guess instead of computing it.
	Opening string
	// Resume continues from the results already in the store.
	Resume bool
}

type Analyzer struct {
	Selector *entropy.Selector
	// Store may be nil, in which case nothing is persisted.
	Store           DiffStore
	CheckpointEvery int
}

func NewAnalyzer(sel *entropy.Selector, store DiffStore) *Analyzer {
	return &Analyzer{Selector: sel, Store: store, CheckpointEvery: DefaultCheckpointEvery}
}

func (a *Analyzer) save(diffs []Diff) error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Save(diffs)
}

// Run returns one Diff per non-empty bucket of the opening guess, in
// pattern order. A bucket with a single solution records (1, 0). Any other
// bucket records its size and the best unconstrained entropy minus the best
// entropy among guesses consistent with the bucket.
func (a *Analyzer) Run(ctx context.Context, guesses, solutions *corpus.Corpus, opts Options) ([]Diff, error) {
	allGuesses := guesses.Indices()
	allSolutions := solutions.Indices()
	rule := a.Selector.Rule

	opening := opts.Opening
	if opening == "" {
		g, err := a.Selector.BestGuess(ctx, guesses, allGuesses, solutions, allSolutions, true)
		if err != nil {
			return nil, err
		}
		opening = g.Word
	}
	solParts := rule.Partition(opening, solutions, allSolutions)
	guessParts := rule.Partition(opening, guesses, allGuesses)

	var diffs []Diff
	skip := 0
	if opts.Resume && a.Store != nil {
		loaded, err := a.Store.Load()
		if err != nil {
			return nil, err
		}
		diffs = loaded
		skip = len(loaded)
		if skip > len(solParts.NonEmpty()) {
			return nil, fmt.Errorf("%w: %d entries, %d buckets", ErrResumeMismatch, skip, len(solParts.NonEmpty()))
		}
	}
	log.Info().Str("opening", opening).Int("buckets", len(solParts.NonEmpty())).
		Int("resumed", skip).Msg("hard-mode-analysis-start")

	every := a.CheckpointEvery
	if every <= 0 {
		every = DefaultCheckpointEvery
	}
	seen := 0
	for i := range feedback.NumPatterns {
		if i%every == 0 {
			if err := a.save(diffs); err != nil {
				return diffs, err
			}
		}
		sols := solParts[i]
		if len(sols) == 0 {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if err := ctx.Err(); err != nil {
			return diffs, err
		}
		log.Debug().Int("bucket", i).Str("pattern", feedback.Pattern(i).String()).
			Int("solutions", len(sols)).Msg("checking-bucket")
		if len(sols) == 1 {
			diffs = append(diffs, Diff{Size: 1, Diff: 0})
			continue
		}
		d, err := a.bucketDiff(ctx, guesses, guessParts[i], allGuesses, solutions, sols)
		if err != nil {
			return diffs, err
		}
		diffs = append(diffs, d)
	}
	if err := a.save(diffs); err != nil {
		return diffs, err
	}
	return diffs, nil
}

func (a *Analyzer) bucketDiff(ctx context.Context, guesses *corpus.Corpus, consistent, allGuesses []int,
	solutions *corpus.Corpus, sols []int) (Diff, error) {

	var constrained entropy.Guess
	if len(consistent) > 0 {
		var err error
		constrained, err = a.Selector.BestGuess(ctx, guesses, consistent, solutions, sols, false)
		if err != nil {
			return Diff{}, err
		}
	} else {
		log.Warn().Int("solutions", len(sols)).Msg("no-consistent-guesses-in-bucket")
	}
	unconstrained, err := a.Selector.BestGuess(ctx, guesses, allGuesses, solutions, sols, false)
	if err != nil {
		return Diff{}, err
	}
	if unconstrained.Entropy < constrained.Entropy-Epsilon {
		return Diff{}, fmt.Errorf("%w: %s (%f) vs %s (%f)", ErrEntropyInvariant,
			constrained.Word, constrained.Entropy, unconstrained.Word, unconstrained.Entropy)
	}
	diff := unconstrained.Entropy - constrained.Entropy
	if diff > ReportThreshold {
		log.Info().Int("remaining", len(sols)).Float64("max-entropy", entropy.MaxFor(len(sols))).
			Str("constrained-guess", constrained.Word).Float64("constrained-entropy", constrained.Entropy).
			Str("best-guess", unconstrained.Word).Float64("best-entropy", unconstrained.Entropy).
			Msg("hard-mode-loses-information")
	}
	return Diff{Size: len(sols), Diff: diff}, nil
}
