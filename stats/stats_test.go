package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
		min    float64
		max    float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638, 10, 23},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891, 10, 124},
		{[]int{1}, 1, 0, 1, 1},
		{[]int{}, 0, 0, 0, 0},
		{[]int{1, 1}, 1, 0, 1, 1},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.Equal(s.Iterations(), len(c.scores))
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Min(), c.min)
		is.Equal(s.Max(), c.max)
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489))
	is.True(FuzzyEqual(ZVal(0), 0))
}

func TestHalfWidth(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	is.Equal(s.HalfWidth(95), 0.0)
	for _, v := range []float64{1, 2, 3, 4} {
		s.Push(v)
	}
	// sample stdev of 1..4 is sqrt(5/3); standard error divides by 2.
	is.True(FuzzyEqual(s.HalfWidth(95), 1.959963984540054*0.6454972243679028))
}
