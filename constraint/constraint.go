// Package constraint filters word lists by the feedback received so far.
//
// A constraint string is a run of (letter, digit) pairs, one per guess
// position: "t1e2a2r3s3" means t is at position 0, e and a are in the word
// but not at positions 1 and 2, and r and s are not in the word at all.
package constraint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/feedback"
)

var ErrBadConstraint = errors.New("bad constraint string")

// Constraint is one piece of feedback about one letter.
type Constraint struct {
	Kind   feedback.Class
	Letter byte
	Pos    int
}

func (c Constraint) String() string {
	return fmt.Sprintf("%c%d", c.Letter, int(c.Kind)+1)
}

// Matches reports whether word is consistent with c on its own. This is
// the containment reading of feedback; a full guess's worth of feedback
// under the strict rule must go through FilterFeedback instead.
func (c Constraint) Matches(word string) bool {
	switch c.Kind {
	case feedback.Hit:
		return word[c.Pos] == c.Letter
	case feedback.Present:
		return word[c.Pos] != c.Letter && strings.IndexByte(word, c.Letter) >= 0
	case feedback.Miss:
		return strings.IndexByte(word, c.Letter) < 0
	}
	return false
}

// MatchesAll reports whether word satisfies every constraint.
func MatchesAll(cs []Constraint, word string) bool {
	for _, c := range cs {
		if !c.Matches(word) {
			return false
		}
	}
	return true
}

// Parse reads a constraint string. An empty string yields no constraints.
func Parse(s string) ([]Constraint, error) {
	s = strings.TrimSpace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %q has an odd length", ErrBadConstraint, s)
	}
	if len(s)/2 > corpus.WordLength {
		return nil, fmt.Errorf("%w: %q has more than %d letters", ErrBadConstraint, s, corpus.WordLength)
	}
	cs := make([]Constraint, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		letter, digit := s[i], s[i+1]
		if letter < 'a' || letter > 'z' {
			return nil, fmt.Errorf("%w: %q is not a lowercase letter", ErrBadConstraint, letter)
		}
		if digit < '1' || digit > '3' {
			return nil, fmt.Errorf("%w: %q must be 1, 2 or 3", ErrBadConstraint, digit)
		}
		cs = append(cs, Constraint{
			Kind:   feedback.Class(digit - '1'),
			Letter: letter,
			Pos:    i / 2,
		})
	}
	return cs, nil
}

// Format is the inverse of Parse for a full set of per-position
// constraints.
func Format(cs []Constraint) string {
	var sb strings.Builder
	for _, c := range cs {
		sb.WriteString(c.String())
	}
	return sb.String()
}

// FromFeedback turns the pattern seen after playing guess into the
// constraints it implies.
func FromFeedback(guess string, p feedback.Pattern) []Constraint {
	classes := p.Classes()
	cs := make([]Constraint, corpus.WordLength)
	for i := range cs {
		cs[i] = Constraint{Kind: classes[i], Letter: guess[i], Pos: i}
	}
	return cs
}

// ToFeedback recovers the guess and pattern from a constraint per
// position, in order. ok is false for partial constraint sets.
func ToFeedback(cs []Constraint) (guess string, p feedback.Pattern, ok bool) {
	if len(cs) != corpus.WordLength {
		return "", 0, false
	}
	var word [corpus.WordLength]byte
	var classes [corpus.WordLength]feedback.Class
	for i, c := range cs {
		if c.Pos != i {
			return "", 0, false
		}
		word[i] = c.Letter
		classes[i] = c.Kind
	}
	return string(word[:]), feedback.PatternFromClasses(classes), true
}

// FilterFeedback keeps the indices of c whose words would have produced
// pattern p for guess under rule.
func FilterFeedback(rule feedback.Rule, guess string, p feedback.Pattern, c *corpus.Corpus, indices []int) []int {
	return lo.Filter(indices, func(idx int, _ int) bool {
		return rule.Classify(guess, c.Word(idx)) == p
	})
}

// Filter keeps the indices of c whose words satisfy every constraint.
func Filter(cs []Constraint, c *corpus.Corpus, indices []int) []int {
	return lo.Filter(indices, func(idx int, _ int) bool {
		return MatchesAll(cs, c.Word(idx))
	})
}
