package worstcase

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/wordle-entropy/cache"
	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/entropy"
	"github.com/domino14/wordle-entropy/feedback"
)

func newSearcher() (*Searcher, *cache.MemoryStore) {
	store := cache.NewMemoryStore(nil)
	return NewSearcher(entropy.NewSelector(store, feedback.RuleSimple, 2)), store
}

func TestThreeSingletons(t *testing.T) {
	is := is.New(t)
	c := corpus.New("words", []string{"apple", "allow", "candy"})
	s, store := newSearcher()
	r, err := s.Run(context.Background(), c, c, Options{})
	is.NoErr(err)
	// apple and allow both separate all three; allow wins the tie.
	is.Equal(r.Opening, "allow")
	is.Equal(r.Depth, 2)
	is.Equal(r.Witness, "allow")
	is.Equal(r.Resolved, 3)
	is.Equal(r.Nodes, 3)
	is.Equal(r.Distribution, map[int]int{2: 3})
	is.True(store.Saves() > 0)
}

func TestPreResolvedSingletons(t *testing.T) {
	is := is.New(t)
	c := corpus.New("words", []string{"apple", "ample", "angle", "ankle"})
	s, _ := newSearcher()
	r, err := s.Run(context.Background(), c, c, Options{})
	is.NoErr(err)
	// Every opener leaves buckets of 1, 1 and 2; ample wins the tie.
	is.Equal(r.Opening, "ample")
	is.Equal(r.Depth, 3)
	is.Equal(r.Witness, "angle")
	is.Equal(r.Resolved, 4)
	is.Equal(r.Nodes, 3)
	is.Equal(r.Distribution, map[int]int{2: 2, 3: 2})
	is.Equal(r.ByDepth(), [][2]int{{2, 2}, {3, 2}})
	is.NoErr(r.Check(c))
}

func TestForcedOpening(t *testing.T) {
	is := is.New(t)
	c := corpus.New("words", []string{"apple", "ample", "angle", "ankle"})
	s, store := newSearcher()
	r, err := s.Run(context.Background(), c, c, Options{Opening: "zzzzz"})
	is.NoErr(err)
	is.Equal(store.Saves(), 0)
	is.Equal(r.Opening, "zzzzz")
	is.Equal(r.Depth, 4)
	is.Equal(r.Witness, "angle")
	is.Equal(r.Nodes, 2)
	is.Equal(r.Distribution, map[int]int{3: 2, 4: 2})
}

func TestResolvesEverySolution(t *testing.T) {
	is := is.New(t)
	words := []string{
		"apple", "baker", "candy", "dolly", "event",
		"facet", "gates", "hairy", "igloo", "allow",
		"cigar", "rebut", "sissy", "humph", "awake",
		"blush", "focal", "evade", "naval", "serve",
	}
	guesses := corpus.New("guesses", append([]string{"tares", "lares", "roate"}, words...))
	solutions := corpus.New("solutions", words)
	for _, rule := range []feedback.Rule{feedback.RuleSimple, feedback.RuleStrict} {
		s := NewSearcher(entropy.NewSelector(cache.NewMemoryStore(nil), rule, 3))
		r, err := s.Run(context.Background(), guesses, solutions, Options{})
		is.NoErr(err)
		is.Equal(r.Resolved, solutions.Len())
		is.NoErr(r.Check(solutions))
		total := 0
		for _, n := range r.Distribution {
			total += n
		}
		is.Equal(total, solutions.Len())
		is.True(r.Depth >= 2)
		_, ok := solutions.Index(r.Witness)
		is.True(ok)

		again, err := s.Run(context.Background(), guesses, solutions, Options{})
		is.NoErr(err)
		is.Equal(again, r)
	}
}

func TestNoProgress(t *testing.T) {
	is := is.New(t)
	guesses := corpus.New("guesses", []string{"zzzzz"})
	solutions := corpus.New("solutions", []string{"apple", "allow"})
	s, _ := newSearcher()
	_, err := s.Run(context.Background(), guesses, solutions, Options{})
	is.True(err != nil)
	is.True(errors.Is(err, ErrNoProgress))
}

func TestCanceled(t *testing.T) {
	is := is.New(t)
	c := corpus.New("words", []string{"apple", "ample", "angle", "ankle"})
	s, _ := newSearcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Run(ctx, c, c, Options{Opening: "zzzzz"})
	is.Equal(err, context.Canceled)
}
