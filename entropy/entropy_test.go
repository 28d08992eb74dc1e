package entropy

import (
	"context"
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/wordle-entropy/cache"
	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/feedback"
	"github.com/domino14/wordle-entropy/stats"
)

var smallWords = []string{
	"apple", "baker", "candy", "dolly", "event",
	"facet", "gates", "hairy", "igloo", "allow",
}

func TestFromCounts(t *testing.T) {
	is := is.New(t)
	is.Equal(FromCounts(nil), 0.0)
	is.Equal(FromCounts([]int{0, 5, 0}), 0.0)
	is.True(stats.FuzzyEqual(FromCounts([]int{1, 1, 1}), math.Log2(3)))
	is.True(math.Abs(FromCounts([]int{1, 0, 1, 0, 1})-1.584962500721156) < 1e-12)
	is.True(stats.FuzzyEqual(FromCounts([]int{2, 2}), 1.0))
	is.True(stats.FuzzyEqual(FromCounts([]int{2, 1, 1}), 1.5))
	// Bucket order does not matter, bit for bit.
	is.Equal(FromCounts([]int{7, 1, 3, 0, 2}), FromCounts([]int{0, 2, 3, 1, 7}))
}

func TestForGuessSingleSolutionIsZero(t *testing.T) {
	is := is.New(t)
	c := corpus.New("small", smallWords)
	for _, g := range smallWords {
		e, err := ForGuess(feedback.RuleSimple, g, c, []int{4})
		is.NoErr(err)
		is.Equal(e, 0.0)
	}
}

func TestForGuessBounds(t *testing.T) {
	is := is.New(t)
	c := corpus.New("small", smallWords)
	subsets := [][]int{c.Indices(), {0, 9}, {1, 2, 3}, {0, 4, 5, 6, 7}}
	for _, rule := range []feedback.Rule{feedback.RuleSimple, feedback.RuleStrict} {
		for _, sub := range subsets {
			for _, g := range smallWords {
				e, err := ForGuess(rule, g, c, sub)
				is.NoErr(err)
				is.True(e >= 0)
				is.True(e <= MaxFor(len(sub))+1e-12)

				p := rule.Partition(g, c, sub)
				distinct := len(p.NonEmpty()) == len(sub)
				is.Equal(distinct, math.Abs(e-MaxFor(len(sub))) < 1e-12)

				// Same value whether counted directly or via the partition.
				is.Equal(e, FromCounts(p.Sizes()))
			}
		}
	}
}

func TestForGuessThreeSingletons(t *testing.T) {
	is := is.New(t)
	c := corpus.New("small", []string{"apple", "allow", "candy"})
	// apple -> HHHHH, allow -> HMMPM, candy -> PMMMM
	e, err := ForGuess(feedback.RuleSimple, "apple", c, c.Indices())
	is.NoErr(err)
	is.True(math.Abs(e-1.58496) < 1e-5)
}

func TestForGuessEmpty(t *testing.T) {
	is := is.New(t)
	c := corpus.New("small", smallWords)
	_, err := ForGuess(feedback.RuleSimple, "apple", c, nil)
	is.Equal(err, ErrNoSolutions)
}

func TestBestGuessTieBreak(t *testing.T) {
	is := is.New(t)
	guesses := corpus.New("guesses", []string{"zzzzz", "apple", "allow"})
	solutions := corpus.New("solutions", []string{"apple", "allow"})
	s := NewSelector(nil, feedback.RuleSimple, 4)

	// apple and allow both split the two solutions; allow sorts first.
	g, err := s.BestGuess(context.Background(), guesses, []int{0, 1, 2}, solutions, solutions.Indices(), false)
	is.NoErr(err)
	is.Equal(g.Word, "allow")
	is.Equal(g.Index, 2)
	is.True(stats.FuzzyEqual(g.Entropy, 1.0))

	g2, err := s.BestGuess(context.Background(), guesses, []int{2, 1, 0}, solutions, solutions.Indices(), false)
	is.NoErr(err)
	is.Equal(g2, g)
}

func TestBestGuessDeterministic(t *testing.T) {
	is := is.New(t)
	c := corpus.New("small", smallWords)
	var first Guess
	for i, threads := range []int{1, 2, 8, 1} {
		s := NewSelector(nil, feedback.RuleSimple, threads)
		g, err := s.BestGuess(context.Background(), c, c.Indices(), c, c.Indices(), false)
		is.NoErr(err)
		if i == 0 {
			first = g
		}
		is.Equal(g, first)
	}
}

func TestBestGuessEmptyInputs(t *testing.T) {
	is := is.New(t)
	c := corpus.New("small", smallWords)
	s := NewSelector(nil, feedback.RuleSimple, 1)
	_, err := s.BestGuess(context.Background(), c, nil, c, c.Indices(), false)
	is.Equal(err, ErrNoGuesses)
	_, err = s.BestGuess(context.Background(), c, c.Indices(), c, []int{}, false)
	is.Equal(err, ErrNoSolutions)
}

func TestBestGuessUsesCache(t *testing.T) {
	is := is.New(t)
	guesses := corpus.New("guesses", []string{"zzzzz", "apple", "allow"})
	solutions := corpus.New("solutions", []string{"apple", "allow"})
	store := cache.NewMemoryStore(map[string]float64{"zzzzz": 9})
	s := NewSelector(store, feedback.RuleSimple, 2)

	g, err := s.BestGuess(context.Background(), guesses, guesses.Indices(), solutions, solutions.Indices(), true)
	is.NoErr(err)
	is.Equal(g.Word, "zzzzz")
	is.Equal(g.Entropy, 9.0)

	m, _ := store.Load()
	is.Equal(len(m), 3)
	is.True(stats.FuzzyEqual(m["apple"], 1.0))

	// The cache is never consulted when the caller does not ask for it.
	g, err = s.BestGuess(context.Background(), guesses, guesses.Indices(), solutions, solutions.Indices(), false)
	is.NoErr(err)
	is.Equal(g.Word, "allow")
}

func TestBestGuessCheckpointsInBatches(t *testing.T) {
	is := is.New(t)
	c := corpus.New("small", smallWords)
	store := cache.NewMemoryStore(map[string]float64{"apple": 1, "baker": 1, "candy": 1})
	s := NewSelector(store, feedback.RuleSimple, 3)
	s.CheckpointEvery = 2

	_, err := s.BestGuess(context.Background(), c, c.Indices(), c, c.Indices(), true)
	is.NoErr(err)
	// 7 words to score: batches of 2,2,2,1 plus the final save.
	is.Equal(store.Saves(), 5)
	m, _ := store.Load()
	is.Equal(len(m), len(smallWords))
	is.Equal(m["apple"], 1.0)

	// Everything cached now: only the final save happens.
	_, err = s.BestGuess(context.Background(), c, c.Indices(), c, c.Indices(), true)
	is.NoErr(err)
	is.Equal(store.Saves(), 6)
}

func TestBestGuessCanceled(t *testing.T) {
	is := is.New(t)
	c := corpus.New("small", smallWords)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSelector(nil, feedback.RuleSimple, 2)
	_, err := s.BestGuess(ctx, c, c.Indices(), c, c.Indices(), false)
	is.Equal(err, context.Canceled)
}

func TestScoreAllOrder(t *testing.T) {
	is := is.New(t)
	c := corpus.New("small", smallWords)
	s := NewSelector(nil, feedback.RuleSimple, 2)
	all, err := s.ScoreAll(context.Background(), c, c.Indices(), c, c.Indices(), false)
	is.NoErr(err)
	is.Equal(len(all), len(smallWords))
	best, err := s.BestGuess(context.Background(), c, c.Indices(), c, c.Indices(), false)
	is.NoErr(err)
	is.Equal(all[0], best)
	for i := 1; i < len(all); i++ {
		is.True(all[i-1].Entropy >= all[i].Entropy)
	}
}
