// Package entropy scores guesses by the Shannon entropy of the feedback
// patterns they induce over a solution set, and picks the best one.
package entropy

import (
	"errors"
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/feedback"
)

var (
	ErrNoGuesses   = errors.New("no guesses to choose from")
	ErrNoSolutions = errors.New("no solutions left to score against")
)

// FromCounts returns the entropy in bits of the distribution given by the
// bucket counts. Empty buckets contribute nothing. The non-empty counts are
// summed smallest first, so two partitions with the same multiset of bucket
// sizes always score exactly the same.
func FromCounts(counts []int) float64 {
	nonEmpty := lo.Filter(counts, func(c int, _ int) bool { return c > 0 })
	if len(nonEmpty) <= 1 {
		return 0
	}
	slices.Sort(nonEmpty)
	total := float64(lo.Sum(nonEmpty))
	probs := lo.Map(nonEmpty, func(c int, _ int) float64 {
		return float64(c) / total
	})
	// stat.Entropy is in nats.
	return stat.Entropy(probs) / math.Ln2
}

// ForGuess scores a single guess against the solutions at indices.
func ForGuess(rule feedback.Rule, guess string, solutions *corpus.Corpus, indices []int) (float64, error) {
	if len(indices) == 0 {
		return 0, ErrNoSolutions
	}
	counts := rule.Counts(guess, solutions, indices)
	return FromCounts(counts[:]), nil
}

// MaxFor is the entropy of a guess that separates n solutions completely.
func MaxFor(n int) float64 {
	if n <= 1 {
		return 0
	}
	return math.Log2(float64(n))
}
