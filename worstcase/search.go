// Package worstcase walks the full decision tree of the entropy strategy to
// find how many guesses it needs, in the worst case, to pin down any
// solution.
package worstcase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/entropy"
)

// ErrNoProgress is returned when the best guess for a node cannot split its
// solutions, which would otherwise loop forever.
var ErrNoProgress = errors.New("best guess does not split the remaining solutions")

type Options struct {
	// Opening forces the first guess instead of computing it.
	Opening string
}

type Result struct {
	Depth   int    `json:"depth" yaml:"depth"`
	Witness string `json:"witness" yaml:"witness"`
	Opening string `json:"opening" yaml:"opening"`
	// Resolved counts solutions that reached a terminal node. It always
	// equals the size of the solution list for a completed search.
	Resolved int `json:"resolved" yaml:"resolved"`
	Nodes    int `json:"nodes" yaml:"nodes"`
	// Distribution maps guesses needed to the number of solutions needing
	// that many.
	Distribution map[int]int `json:"distribution" yaml:"distribution"`
}

type node struct {
	solutions []int
	guesses   []int
	depth     int
}

// terminal is a solution whose guess count is known without expanding any
// further.
type terminal struct {
	depth int
	word  string
}

// fold adds a terminal to the result. The first terminal to reach a new
// maximum depth becomes the witness.
func (r Result) fold(t terminal) Result {
	r.Resolved++
	r.Distribution[t.depth]++
	if t.depth > r.Depth {
		r.Depth = t.depth
		r.Witness = t.word
	}
	return r
}

type Searcher struct {
	Selector *entropy.Selector
}

func NewSearcher(sel *entropy.Selector) *Searcher {
	return &Searcher{Selector: sel}
}

// Run explores the tree breadth first. Buckets holding one solution are
// never expanded: a node at depth d holding one solution needs d+1
// guesses, and a singleton bucket created while expanding a node at depth d
// needs d+2.
func (s *Searcher) Run(ctx context.Context, guesses, solutions *corpus.Corpus, opts Options) (Result, error) {
	allGuesses := guesses.Indices()
	allSolutions := solutions.Indices()

	opening := opts.Opening
	if opening == "" {
		g, err := s.Selector.BestGuess(ctx, guesses, allGuesses, solutions, allSolutions, true)
		if err != nil {
			return Result{}, err
		}
		opening = g.Word
	}
	log.Info().Str("opening", opening).Int("solutions", len(allSolutions)).Msg("worst-case-search-start")

	result := Result{Opening: opening, Distribution: map[int]int{}}
	queue := s.split(opening, guesses, solutions, allGuesses, allSolutions, 1)
	head := 0
	curDepth := 1
	exploredAtDepth := 0

	for head < len(queue) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		n := queue[head]
		queue[head] = node{}
		head++
		if head > 1024 && head*2 > len(queue) {
			queue = append([]node(nil), queue[head:]...)
			head = 0
		}
		result.Nodes++

		if n.depth > curDepth {
			log.Info().Int("depth", curDepth).Int("explored", exploredAtDepth).
				Int("queued", len(queue)-head).Int("worst-so-far", result.Depth).
				Msg("worst-case-level-done")
			curDepth = n.depth
			exploredAtDepth = 0
		}
		exploredAtDepth++

		terminals, children, err := s.expand(ctx, n, guesses, solutions, allGuesses)
		if err != nil {
			return result, err
		}
		for _, t := range terminals {
			result = result.fold(t)
		}
		queue = append(queue, children...)
	}

	log.Info().Int("max-depth", result.Depth).Str("witness", result.Witness).
		Int("nodes", result.Nodes).Msg("worst-case-search-done")
	return result, nil
}

// expand resolves or splits one node.
func (s *Searcher) expand(ctx context.Context, n node, guesses, solutions *corpus.Corpus,
	allGuesses []int) ([]terminal, []node, error) {

	if len(n.solutions) == 1 {
		return []terminal{{depth: n.depth + 1, word: solutions.Word(n.solutions[0])}}, nil, nil
	}
	pool := n.guesses
	if len(pool) == 0 {
		// Only possible when solutions are not all valid guesses.
		pool = allGuesses
	}
	g, err := s.Selector.BestGuess(ctx, guesses, pool, solutions, n.solutions, false)
	if err != nil {
		return nil, nil, err
	}
	if g.Entropy == 0 {
		return nil, nil, fmt.Errorf("%w: %q over %d solutions at depth %d",
			ErrNoProgress, g.Word, len(n.solutions), n.depth)
	}
	log.Debug().Int("depth", n.depth).Int("solutions", len(n.solutions)).
		Int("guesses", len(pool)).Str("guess", g.Word).Msg("expanding-node")

	var terminals []terminal
	var children []node
	for _, child := range s.split(g.Word, guesses, solutions, pool, n.solutions, n.depth+1) {
		if len(child.solutions) == 1 {
			terminals = append(terminals, terminal{depth: n.depth + 2, word: solutions.Word(child.solutions[0])})
			continue
		}
		children = append(children, child)
	}
	return terminals, children, nil
}

// split partitions both the solutions and the guess pool by guess, pairing
// them bucket by bucket. The guess pool is partitioned exactly as if its
// words were candidate answers. Buckets with no solutions are dropped.
func (s *Searcher) split(guess string, guesses, solutions *corpus.Corpus, guessIdx, solIdx []int, depth int) []node {
	rule := s.Selector.Rule
	solParts := rule.Partition(guess, solutions, solIdx)
	guessParts := rule.Partition(guess, guesses, guessIdx)
	var out []node
	for _, pat := range solParts.NonEmpty() {
		out = append(out, node{
			solutions: solParts[pat],
			guesses:   guessParts[pat],
			depth:     depth,
		})
	}
	return out
}

// ByDepth is a convenience for reports: the distribution as ordered pairs.
func (r Result) ByDepth() [][2]int {
	var out [][2]int
	for d := 1; d <= r.Depth; d++ {
		if n, ok := r.Distribution[d]; ok {
			out = append(out, [2]int{d, n})
		}
	}
	return out
}

// Check verifies a finished search accounted for every solution.
func (r Result) Check(solutions *corpus.Corpus) error {
	if r.Resolved != solutions.Len() {
		return fmt.Errorf("worst-case search resolved %d of %d solutions", r.Resolved, solutions.Len())
	}
	return nil
}
