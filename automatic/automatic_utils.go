package automatic

// Batch self-play. Games are run on a pool of goroutines and every finished
// game can be logged as one CSV line.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/wordle-entropy/stats"
)

var (
	GamesCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	GamesCounter = expvar.NewInt("selfPlayGames")
	IsPlaying = expvar.NewInt("selfPlayIsPlaying")
}

const logHeader = "answer,turns,solved,guesses,patterns\n"

// Report aggregates a batch of games.
type Report struct {
	Games  int `json:"games" yaml:"games"`
	Solved int `json:"solved" yaml:"solved"`
	// Mean and Stdev count guesses over solved games only.
	Mean  float64 `json:"mean" yaml:"mean"`
	Stdev float64 `json:"stdev" yaml:"stdev"`
	// Distribution maps guesses needed to the number of solved games.
	Distribution map[int]int `json:"distribution" yaml:"distribution"`
	Worst        GameResult  `json:"worst" yaml:"worst"`
}

func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", r.Games)
	fmt.Fprintf(&sb, "Solved: %d\n", r.Solved)
	fmt.Fprintf(&sb, "Mean guesses: %.4f  Stdev: %.4f\n", r.Mean, r.Stdev)
	for turns := 1; turns <= r.Worst.Turns(); turns++ {
		if n, ok := r.Distribution[turns]; ok {
			fmt.Fprintf(&sb, "  %2d: %d\n", turns, n)
		}
	}
	fmt.Fprintf(&sb, "Worst: %s in %d (%s)\n", r.Worst.Answer, r.Worst.Turns(),
		strings.Join(r.Worst.Guesses, " "))
	return sb.String()
}

func summarize(results []GameResult) Report {
	rep := Report{Games: len(results), Distribution: map[int]int{}}
	stat := &stats.Statistic{}
	for _, res := range results {
		if !res.Solved {
			continue
		}
		rep.Solved++
		stat.Push(float64(res.Turns()))
		rep.Distribution[res.Turns()]++
		if res.Turns() > rep.Worst.Turns() {
			rep.Worst = res
		}
	}
	rep.Mean = stat.Mean()
	rep.Stdev = stat.Stdev()
	return rep
}

func logLine(res GameResult) string {
	return fmt.Sprintf("%s,%d,%t,%s,%s\n", res.Answer, res.Turns(), res.Solved,
		strings.Join(res.Guesses, " "), strings.Join(res.Patterns, " "))
}

// PlayMany plays one game per answer on threads goroutines. If logw is not
// nil each finished game is written to it as a CSV line, in completion
// order. Results are returned in answer order.
func (p *Player) PlayMany(ctx context.Context, answers []string, threads int,
	logw io.Writer) ([]GameResult, Report, error) {

	if IsPlaying.Value() > 0 {
		return nil, Report{}, errors.New("games are already being played, please wait till complete")
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	// Compute the opening once before any worker needs it.
	if _, err := p.Opening(ctx); err != nil {
		return nil, Report{}, err
	}
	log.Info().Int("games", len(answers)).Int("threads", threads).Msg("starting-self-play")
	GamesCounter.Set(0)

	logChan := make(chan string, 100)
	logDone := make(chan error, 1)
	go func() {
		var err error
		if logw != nil {
			_, err = io.WriteString(logw, logHeader)
		}
		for msg := range logChan {
			if logw != nil && err == nil {
				_, err = io.WriteString(logw, msg)
			}
		}
		logDone <- err
	}()

	results := make([]GameResult, len(answers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(threads, 1))
	for i, answer := range answers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.Play(gctx, answer)
			if err != nil {
				return err
			}
			results[i] = res
			logChan <- logLine(res)
			GamesCounter.Add(1)
			if n := GamesCounter.Value(); n%1000 == 0 {
				log.Info().Int64("played", n).Msg("self-play-progress")
			}
			return nil
		})
	}
	err := g.Wait()
	close(logChan)
	if logErr := <-logDone; err == nil {
		err = logErr
	}
	if err != nil {
		return nil, Report{}, err
	}
	rep := summarize(results)
	log.Info().Int("games", rep.Games).Int("solved", rep.Solved).
		Float64("mean", rep.Mean).Int("worst", rep.Worst.Turns()).Msg("self-play-done")
	return results, rep, nil
}

// RandomAnswers draws n answers with replacement.
func (p *Player) RandomAnswers(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = p.RandomAnswer()
	}
	return out
}
