// Package automatic plays the entropy strategy against itself: it picks
// answers, feeds the strategy its own feedback, and counts how many guesses
// each game takes.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/entropy"
	"github.com/domino14/wordle-entropy/feedback"
	"github.com/domino14/wordle-entropy/session"
)

const DefaultMaxTurns = 20

var (
	ErrUnknownAnswer = errors.New("answer is not in the solution list")
	// ErrLostTrack means the feedback ruled out the real answer, which can
	// happen when feedback is scored with a different rule than the one
	// the constraints assume.
	ErrLostTrack = errors.New("feedback ruled out the answer")
)

// GameResult is one finished self-play game.
type GameResult struct {
	Answer   string   `json:"answer" yaml:"answer"`
	Guesses  []string `json:"guesses" yaml:"guesses"`
	Patterns []string `json:"patterns" yaml:"patterns"`
	Solved   bool     `json:"solved" yaml:"solved"`
}

func (g GameResult) Turns() int { return len(g.Guesses) }

// Player is the master struct for self-play. It can be shared between
// goroutines; every game gets its own session.
type Player struct {
	Guesses   *corpus.Corpus
	Solutions *corpus.Corpus
	Selector  *entropy.Selector
	HardMode  bool
	// Table memoizes later-turn guesses across games. It may be nil.
	Table    *Table
	MaxTurns int

	openingMu sync.Mutex
	opening   *entropy.Guess
}

func NewPlayer(guesses, solutions *corpus.Corpus, sel *entropy.Selector, hardMode bool) *Player {
	return &Player{
		Guesses:   guesses,
		Solutions: solutions,
		Selector:  sel,
		HardMode:  hardMode,
		MaxTurns:  DefaultMaxTurns,
	}
}

// Opening computes the first guess once and remembers it.
func (p *Player) Opening(ctx context.Context) (entropy.Guess, error) {
	p.openingMu.Lock()
	defer p.openingMu.Unlock()
	if p.opening != nil {
		return *p.opening, nil
	}
	s := session.New(p.Guesses, p.Solutions, p.Selector, p.HardMode)
	g, err := s.Opening(ctx)
	if err != nil {
		return entropy.Guess{}, err
	}
	p.opening = &g
	return g, nil
}

// RandomAnswer picks a solution uniformly at random.
func (p *Player) RandomAnswer() string {
	return p.Solutions.Word(frand.Intn(p.Solutions.Len()))
}

// Play guesses until the feedback is all hits or MaxTurns runs out. Once a
// single solution remains it is guessed directly.
func (p *Player) Play(ctx context.Context, answer string) (GameResult, error) {
	res := GameResult{Answer: answer}
	if _, ok := p.Solutions.Index(answer); !ok {
		return res, fmt.Errorf("%w: %q", ErrUnknownAnswer, answer)
	}
	maxTurns := p.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	s := session.New(p.Guesses, p.Solutions, p.Selector, p.HardMode)

	for turn := 1; turn <= maxTurns; turn++ {
		guess, err := p.pick(ctx, s, turn)
		if err != nil {
			return res, err
		}
		pat := p.Selector.Rule.Classify(guess, answer)
		res.Guesses = append(res.Guesses, guess)
		res.Patterns = append(res.Patterns, pat.String())
		if pat == feedback.AllHit {
			res.Solved = true
			break
		}
		if s.ApplyFeedback(guess, pat) == session.Exhausted {
			return res, fmt.Errorf("%w: %q after %v", ErrLostTrack, answer, res.Guesses)
		}
	}
	log.Debug().Str("answer", answer).Strs("guesses", res.Guesses).
		Bool("solved", res.Solved).Msg("game-over")
	return res, nil
}

func (p *Player) pick(ctx context.Context, s *session.Session, turn int) (string, error) {
	if turn == 1 {
		g, err := p.Opening(ctx)
		return g.Word, err
	}
	if w, ok := s.Unique(); ok {
		return w, nil
	}
	if p.Table == nil {
		g, err := s.Next(ctx)
		return g.Word, err
	}
	key := TableKey(s.RemainingIndices(), s.GuessPool())
	if g, ok := p.Table.Lookup(key); ok {
		return g.Word, nil
	}
	g, err := s.Next(ctx)
	if err != nil {
		return "", err
	}
	p.Table.Store(key, g)
	return g.Word, nil
}
