// Package session tracks one interactive solve: the feedback entered so far
// and the words still consistent with it.
package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordle-entropy/constraint"
	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/entropy"
	"github.com/domino14/wordle-entropy/feedback"
)

type Status int

const (
	// Open means two or more solutions remain.
	Open Status = iota
	// Unique means exactly one solution remains.
	Unique
	// Exhausted means the constraints ruled out every solution.
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Unique:
		return "unique"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

type Session struct {
	guesses   *corpus.Corpus
	solutions *corpus.Corpus
	selector  *entropy.Selector

	// HardMode restricts later guesses to words consistent with the
	// feedback so far.
	HardMode bool

	constraints []constraint.Constraint
	solIdx      []int
	guessIdx    []int
}

func New(guesses, solutions *corpus.Corpus, sel *entropy.Selector, hardMode bool) *Session {
	s := &Session{
		guesses:   guesses,
		solutions: solutions,
		selector:  sel,
		HardMode:  hardMode,
	}
	s.Reset()
	return s
}

// Reset forgets every constraint.
func (s *Session) Reset() {
	s.constraints = nil
	s.solIdx = s.solutions.Indices()
	s.guessIdx = s.guesses.Indices()
}

// Opening is the best first guess over the full lists. It uses the
// persisted entropy cache, which is only valid for the full lists.
func (s *Session) Opening(ctx context.Context) (entropy.Guess, error) {
	return s.selector.BestGuess(ctx, s.guesses, s.guesses.Indices(),
		s.solutions, s.solutions.Indices(), true)
}

// Apply adds constraints and narrows the remaining words. A constraint for
// every position is read as the feedback to a whole guess and goes through
// ApplyFeedback; partial sets are matched letter by letter.
func (s *Session) Apply(cs []constraint.Constraint) Status {
	if guess, p, ok := constraint.ToFeedback(cs); ok {
		return s.ApplyFeedback(guess, p)
	}
	s.constraints = append(s.constraints, cs...)
	s.solIdx = constraint.Filter(cs, s.solutions, s.solIdx)
	s.guessIdx = constraint.Filter(cs, s.guesses, s.guessIdx)
	log.Debug().Int("solutions", len(s.solIdx)).Int("guesses", len(s.guessIdx)).
		Str("constraints", constraint.Format(cs)).Msg("applied-constraints")
	return s.Status()
}

// ApplyFeedback keeps the words that would have answered guess with p under
// the selector's feedback rule, so the remaining set is always one bucket
// of that rule's partition.
func (s *Session) ApplyFeedback(guess string, p feedback.Pattern) Status {
	rule := s.selector.Rule
	s.constraints = append(s.constraints, constraint.FromFeedback(guess, p)...)
	s.solIdx = constraint.FilterFeedback(rule, guess, p, s.solutions, s.solIdx)
	s.guessIdx = constraint.FilterFeedback(rule, guess, p, s.guesses, s.guessIdx)
	log.Debug().Int("solutions", len(s.solIdx)).Int("guesses", len(s.guessIdx)).
		Str("guess", guess).Str("pattern", p.String()).Str("rule", rule.String()).
		Msg("applied-feedback")
	return s.Status()
}

func (s *Session) Status() Status {
	switch len(s.solIdx) {
	case 0:
		return Exhausted
	case 1:
		return Unique
	}
	return Open
}

// Unique returns the only remaining solution, if there is exactly one.
func (s *Session) Unique() (string, bool) {
	if len(s.solIdx) != 1 {
		return "", false
	}
	return s.solutions.Word(s.solIdx[0]), true
}

// Next picks the best guess for the remaining solutions. The entropy cache
// is never used here, since the solution set is no longer the full list.
func (s *Session) Next(ctx context.Context) (entropy.Guess, error) {
	if len(s.constraints) == 0 {
		return s.Opening(ctx)
	}
	pool := s.guesses.Indices()
	if s.HardMode && len(s.guessIdx) > 0 {
		pool = s.guessIdx
	} else if s.HardMode {
		log.Warn().Msg("no-consistent-guesses-using-full-list")
	}
	return s.selector.BestGuess(ctx, s.guesses, pool, s.solutions, s.solIdx, false)
}

// Remaining lists the solutions still possible.
func (s *Session) Remaining() []string {
	return s.solutions.Words(s.solIdx)
}

func (s *Session) RemainingIndices() []int { return s.solIdx }

func (s *Session) GuessPool() []int {
	if s.HardMode {
		return s.guessIdx
	}
	return s.guesses.Indices()
}

func (s *Session) Constraints() []constraint.Constraint { return s.constraints }

func (s *Session) Guesses() *corpus.Corpus   { return s.guesses }
func (s *Session) Solutions() *corpus.Corpus { return s.solutions }
