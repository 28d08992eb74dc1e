package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestReadSkipsWrongLengths(t *testing.T) {
	is := is.New(t)
	input := "apple\nbanana\n\nallow\n  candy  \nab\nqueue\n"
	c, err := Read("test", strings.NewReader(input))
	is.NoErr(err)
	is.Equal(c.Len(), 4)
	is.Equal(c.Word(0), "apple")
	is.Equal(c.Word(2), "candy")
	is.Equal(c.Words([]int{3, 1}), []string{"queue", "allow"})
}

func TestIndices(t *testing.T) {
	is := is.New(t)
	c := New("small", []string{"apple", "allow", "candy"})
	is.Equal(c.Indices(), []int{0, 1, 2})
	idx, ok := c.Index("candy")
	is.True(ok)
	is.Equal(idx, 2)
	_, ok = c.Index("zebra")
	is.True(!ok)
}

func TestWordOutOfRangePanics(t *testing.T) {
	is := is.New(t)
	c := New("small", []string{"apple"})
	defer func() {
		is.True(recover() != nil)
	}()
	c.Word(1)
}

func TestDigest(t *testing.T) {
	is := is.New(t)
	a := New("a", []string{"apple", "allow"})
	b := New("b", []string{"apple", "allow"})
	c := New("c", []string{"allow", "apple"})
	is.Equal(a.Digest(), b.Digest())
	is.True(a.Digest() != c.Digest())
}

func TestLoadFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "solutions.txt")
	is.NoErr(os.WriteFile(path, []byte("cigar\nrebut\nsissy\n"), 0644))
	c, err := LoadFile(path)
	is.NoErr(err)
	is.Equal(c.Name(), "solutions.txt")
	is.Equal(c.Len(), 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	is.True(err != nil)
}
