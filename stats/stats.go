// Package stats keeps running summaries of numeric samples: guess counts in
// self-play, per-partition entropy losses in the hard-mode analysis.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic accumulates samples one at a time without storing them.
type Statistic struct {
	n        int
	min, max float64

	// Welford's running mean and sum of squared deviations.
	mean float64
	m2   float64
}

func (s *Statistic) Push(val float64) {
	s.n++
	if s.n == 1 {
		s.min, s.max = val, val
	} else {
		s.min = min(s.min, val)
		s.max = max(s.max, val)
	}
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
}

func (s *Statistic) Mean() float64 {
	if s.n == 0 {
		return 0.0
	}
	return s.mean
}

// Variance is the sample variance; it is 0 with fewer than two samples.
func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

// HalfWidth is the half-width of the two-sided confidence interval around
// the mean, for a confidence level given in percent.
func (s *Statistic) HalfWidth(confidence float64) float64 {
	if s.n == 0 {
		return 0.0
	}
	return ZVal(confidence) * s.StandardError()
}

func (s *Statistic) Min() float64 { return s.min }
func (s *Statistic) Max() float64 { return s.max }

func (s *Statistic) Iterations() int {
	return s.n
}
