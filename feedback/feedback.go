// Package feedback classifies a guess against a candidate answer and groups
// candidate sets by the resulting pattern.
package feedback

import (
	"strings"

	"github.com/domino14/wordle-entropy/corpus"
)

// Class is the per-position result of comparing a guess letter.
type Class uint8

const (
	Hit Class = iota
	Present
	Miss
)

func (c Class) String() string {
	switch c {
	case Hit:
		return "H"
	case Present:
		return "P"
	case Miss:
		return "M"
	}
	return "?"
}

// NumPatterns is 3^WordLength.
const NumPatterns = 243

// Pattern encodes one Class per position in base 3, position 0 being the
// most significant digit. Numeric order therefore matches enumerating
// (Hit, Present, Miss) for position 0, then position 1, and so on.
type Pattern uint8

// AllHit is the pattern of a guess played against itself.
const AllHit Pattern = 0

var placeValues = [corpus.WordLength]int{81, 27, 9, 3, 1}

// PatternFromClasses packs classes into a Pattern.
func PatternFromClasses(classes [corpus.WordLength]Class) Pattern {
	p := 0
	for i, c := range classes {
		p += int(c) * placeValues[i]
	}
	return Pattern(p)
}

// Classes unpacks p.
func (p Pattern) Classes() [corpus.WordLength]Class {
	var out [corpus.WordLength]Class
	v := int(p)
	for i := corpus.WordLength - 1; i >= 0; i-- {
		out[i] = Class(v % 3)
		v /= 3
	}
	return out
}

func (p Pattern) String() string {
	var sb strings.Builder
	for _, c := range p.Classes() {
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Rule selects how Present and Miss are decided.
type Rule int

const (
	// RuleSimple marks a non-matching letter Present whenever it occurs
	// anywhere in the candidate, regardless of how many times it was
	// guessed. A letter guessed twice but occurring once can be Present
	// twice.
	RuleSimple Rule = iota
	// RuleStrict uses the two-pass scoring of the real game: hits claim
	// their letters first, then each remaining guess letter is Present only
	// while unclaimed occurrences remain.
	RuleStrict
)

func (r Rule) String() string {
	if r == RuleStrict {
		return "strict"
	}
	return "simple"
}

// Classify compares guess against candidate. Both must be WordLength long.
func (r Rule) Classify(guess, candidate string) Pattern {
	if r == RuleStrict {
		return classifyStrict(guess, candidate)
	}
	return classifySimple(guess, candidate)
}

// Classify uses RuleSimple.
func Classify(guess, candidate string) Pattern {
	return classifySimple(guess, candidate)
}

func classifySimple(guess, candidate string) Pattern {
	p := 0
	for i := 0; i < corpus.WordLength; i++ {
		switch {
		case guess[i] == candidate[i]:
			// Hit contributes 0.
		case strings.IndexByte(candidate, guess[i]) >= 0:
			p += int(Present) * placeValues[i]
		default:
			p += int(Miss) * placeValues[i]
		}
	}
	return Pattern(p)
}

func classifyStrict(guess, candidate string) Pattern {
	var classes [corpus.WordLength]Class
	var counts [256]int
	for i := 0; i < corpus.WordLength; i++ {
		if guess[i] == candidate[i] {
			classes[i] = Hit
		} else {
			counts[candidate[i]]++
		}
	}
	for i := 0; i < corpus.WordLength; i++ {
		if guess[i] == candidate[i] {
			continue
		}
		if counts[guess[i]] > 0 {
			classes[i] = Present
			counts[guess[i]]--
		} else {
			classes[i] = Miss
		}
	}
	return PatternFromClasses(classes)
}
