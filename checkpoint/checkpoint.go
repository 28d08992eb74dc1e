// Package checkpoint reads and writes the plain-text files long computations
// use to survive interruption. Every save rewrites the whole file.
//
// Entropy file:   <word>,<entropy>
// Hard-mode file: <bucket_size>,<entropy_diff>
package checkpoint

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

var ErrMalformedLine = errors.New("malformed checkpoint line")

// Diff is one hard-mode record: how many solutions a bucket held, and how
// much entropy the constrained guess pool gave up there.
type Diff struct {
	Size int     `json:"size" yaml:"size"`
	Diff float64 `json:"diff" yaml:"diff"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func splitLine(line string, lineNo int) (string, string, error) {
	key, val, ok := strings.Cut(line, ",")
	if !ok || key == "" || val == "" {
		return "", "", fmt.Errorf("line %d %q: %w", lineNo, line, ErrMalformedLine)
	}
	return key, val, nil
}

// WriteEntropies writes one record per word, sorted by word.
func WriteEntropies(w io.Writer, entropies map[string]float64) error {
	words := make([]string, 0, len(entropies))
	for k := range entropies {
		words = append(words, k)
	}
	sort.Strings(words)
	bw := bufio.NewWriter(w)
	for _, word := range words {
		if _, err := fmt.Fprintf(bw, "%s,%s\n", word, formatFloat(entropies[word])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadEntropies parses an entropy checkpoint. Blank lines are ignored; any
// other line that is not <word>,<number> fails the whole load.
func ReadEntropies(r io.Reader) (map[string]float64, error) {
	out := map[string]float64{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		word, val, err := splitLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d %q: %w", lineNo, line, ErrMalformedLine)
		}
		out[word] = f
	}
	return out, sc.Err()
}

// WriteDiffs writes hard-mode records in order.
func WriteDiffs(w io.Writer, diffs []Diff) error {
	bw := bufio.NewWriter(w)
	for _, d := range diffs {
		if _, err := fmt.Fprintf(bw, "%d,%s\n", d.Size, formatFloat(d.Diff)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadDiffs parses a hard-mode checkpoint.
func ReadDiffs(r io.Reader) ([]Diff, error) {
	var out []Diff
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		sz, val, err := splitLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(sz)
		if err != nil {
			return nil, fmt.Errorf("line %d %q: %w", lineNo, line, ErrMalformedLine)
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d %q: %w", lineNo, line, ErrMalformedLine)
		}
		out = append(out, Diff{Size: n, Diff: f})
	}
	return out, sc.Err()
}

// ReadFile opens path and hands it to read. A missing file is not an error;
// ok reports whether the file existed.
func ReadFile[T any](path string, read func(io.Reader) (T, error)) (t T, ok bool, err error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return t, false, nil
	}
	if err != nil {
		return t, false, err
	}
	defer f.Close()
	t, err = read(f)
	if err != nil {
		return t, true, fmt.Errorf("%s: %w", path, err)
	}
	return t, true, nil
}

// WriteFile replaces path with whatever write produces. The data goes to a
// temporary file in the same directory first and is renamed over path, so
// a crash mid-write leaves the previous checkpoint intact.
func WriteFile(path string, write func(io.Writer) error) error {
	return retry.Do(
		func() error {
			return writeFileOnce(path, write)
		},
		retry.Attempts(3),
		retry.Delay(50*time.Millisecond),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("path", path).Msg("checkpoint-write-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
		retry.LastErrorOnly(true),
	)
}

func writeFileOnce(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
