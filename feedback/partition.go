package feedback

import "github.com/domino14/wordle-entropy/corpus"

// Partition maps every pattern to the candidate indices that produce it.
// Buckets keep the order of the input indices; patterns nobody produces
// have a nil bucket.
type Partition [NumPatterns][]int

// Partition groups indices of c by the pattern guess produces against them.
func (r Rule) Partition(guess string, c *corpus.Corpus, indices []int) Partition {
	var p Partition
	for _, idx := range indices {
		pat := r.Classify(guess, c.Word(idx))
		p[pat] = append(p[pat], idx)
	}
	return p
}

// Counts is Partition without materialising the buckets.
func (r Rule) Counts(guess string, c *corpus.Corpus, indices []int) [NumPatterns]int {
	var counts [NumPatterns]int
	for _, idx := range indices {
		counts[r.Classify(guess, c.Word(idx))]++
	}
	return counts
}

// Sizes returns the size of each bucket, indexed by pattern.
func (p *Partition) Sizes() []int {
	sizes := make([]int, NumPatterns)
	for i := range p {
		sizes[i] = len(p[i])
	}
	return sizes
}

// Total is the number of indices across all buckets.
func (p *Partition) Total() int {
	n := 0
	for i := range p {
		n += len(p[i])
	}
	return n
}

// NonEmpty lists the patterns with at least one member, in pattern order.
func (p *Partition) NonEmpty() []Pattern {
	var out []Pattern
	for i := range p {
		if len(p[i]) > 0 {
			out = append(out, Pattern(i))
		}
	}
	return out
}
