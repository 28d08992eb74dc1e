// Package corpus holds the immutable word lists that every other package
// refers to by index. A guess corpus and a solution corpus are always kept
// apart, even when one is a subset of the other.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// WordLength is the only word length accepted into a corpus.
const WordLength = 5

type Corpus struct {
	name  string
	words []string
	index map[string]int
}

// New builds a corpus from the given words, in order. Words are not
// validated here; use Read or LoadFile for filtered input.
func New(name string, words []string) *Corpus {
	c := &Corpus{
		name:  name,
		words: append([]string(nil), words...),
		index: make(map[string]int, len(words)),
	}
	for i, w := range c.words {
		if _, ok := c.index[w]; !ok {
			c.index[w] = i
		}
	}
	return c
}

func (c *Corpus) Name() string { return c.name }

func (c *Corpus) Len() int { return len(c.words) }

// Word returns the word at idx. An out-of-range index is a programming
// error and panics.
func (c *Corpus) Word(idx int) string {
	return c.words[idx]
}

// Index returns the position of the first occurrence of word.
func (c *Corpus) Index(word string) (int, bool) {
	i, ok := c.index[word]
	return i, ok
}

// Indices returns every index of the corpus, in order.
func (c *Corpus) Indices() []int {
	return lo.Range(len(c.words))
}

// Words maps a set of indices back to their words.
func (c *Corpus) Words(indices []int) []string {
	return lo.Map(indices, func(idx int, _ int) string {
		return c.words[idx]
	})
}

// Digest fingerprints the word list, so that log lines and reports can tell
// two corpora apart.
func (c *Corpus) Digest() uint64 {
	return xxhash.Sum64String(strings.Join(c.words, "\n"))
}

// Read parses one word per line. Lines that are not exactly WordLength
// bytes long after trimming are skipped.
func Read(name string, r io.Reader) (*Corpus, error) {
	var words []string
	skipped := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if len(w) != WordLength {
			skipped++
			continue
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	c := New(name, words)
	log.Debug().Str("corpus", name).Int("words", c.Len()).Int("skipped", skipped).
		Msg("read-corpus")
	return c, nil
}

// LoadFile reads a word list from disk.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(filepath.Base(path), f)
}
