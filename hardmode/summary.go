package hardmode

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/domino14/wordle-entropy/stats"
)

var ErrCountMismatch = errors.New("bucket sizes do not add up to the solution count")

// Summary aggregates a finished hard-mode run.
type Summary struct {
	Solutions  int `json:"solutions" yaml:"solutions"`
	Partitions int `json:"partitions" yaml:"partitions"`
	// WeightedAverage is the expected entropy lost per solution.
	WeightedAverage float64 `json:"weighted_average" yaml:"weighted_average"`
	// PartitionsWithLoss and SolutionsWithLoss count any loss above
	// Epsilon, not only losses above ReportThreshold.
	PartitionsWithLoss int `json:"partitions_with_loss" yaml:"partitions_with_loss"`
	SolutionsWithLoss  int `json:"solutions_with_loss" yaml:"solutions_with_loss"`
	// MeanLoss is the unweighted mean over partitions, with the half-width
	// of its 95% confidence interval.
	MeanLoss   float64 `json:"mean_loss" yaml:"mean_loss"`
	MeanLoss95 float64 `json:"mean_loss_95" yaml:"mean_loss_95"`
	MaxLoss    float64 `json:"max_loss" yaml:"max_loss"`
}

// Summarize checks that diffs cover totalSolutions and aggregates them.
func Summarize(diffs []Diff, totalSolutions int) (Summary, error) {
	counted := lo.SumBy(diffs, func(d Diff) int { return d.Size })
	if counted != totalSolutions {
		return Summary{}, fmt.Errorf("%w: %d vs %d", ErrCountMismatch, counted, totalSolutions)
	}
	s := Summary{Solutions: totalSolutions, Partitions: len(diffs)}
	stat := &stats.Statistic{}
	weighted := 0.0
	for _, d := range diffs {
		weighted += float64(d.Size) * d.Diff
		stat.Push(d.Diff)
		if d.Diff > Epsilon {
			s.PartitionsWithLoss++
			s.SolutionsWithLoss += d.Size
		}
	}
	if totalSolutions > 0 {
		s.WeightedAverage = weighted / float64(totalSolutions)
	}
	s.MeanLoss = stat.Mean()
	s.MeanLoss95 = stat.HalfWidth(95)
	s.MaxLoss = stat.Max()
	return s, nil
}
