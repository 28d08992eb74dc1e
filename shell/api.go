package shell

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/wordle-entropy/automatic"
	"github.com/domino14/wordle-entropy/config"
	"github.com/domino14/wordle-entropy/constraint"
	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/hardmode"
	"github.com/domino14/wordle-entropy/session"
	"github.com/domino14/wordle-entropy/worstcase"
)

const (
	defaultTopCount     = 10
	defaultHistBins     = 20
	defaultAutoplayGame = 100
	histWidth           = 40
	// Self-play memo tables may use up to this share of system memory.
	autoplayTableMemory = 0.05
)

var errNoSolutionsLeft = errors.New("no solutions remain; use `reset` to start over")

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) FloatDefault(key string, defaultF float64) (float64, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultF, nil
	}
	return strconv.ParseFloat(v[0], 64)
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func (c CmdOptions) StringArray(key string) []string {
	return c[key]
}

func msg(message string) *Response {
	return &Response{message: message}
}

func yamlMsg(v any) (*Response, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(string(out), "\n")), nil
}

func validOpening(w string) error {
	if w == "" {
		return nil
	}
	if len(w) != corpus.WordLength {
		return fmt.Errorf("opening %q must have %d letters", w, corpus.WordLength)
	}
	return nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("standard")
	}
	return usageTopic(cmd.args[0])
}

func (sc *ShellController) info(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	var sb strings.Builder
	if sc.gitVersion != "" {
		fmt.Fprintf(&sb, "Version: %s\n", sc.gitVersion)
	}
	for _, c := range []*corpus.Corpus{sc.guesses, sc.solutions} {
		fmt.Fprintf(&sb, "%s: %d words (digest %016x)\n", c.Name(), c.Len(), c.Digest())
	}
	fmt.Fprintf(&sb, "Feedback rule: %s\n", sc.selector.Rule)
	fmt.Fprintf(&sb, "Hard mode: %t\n", sc.session.HardMode)
	fmt.Fprintf(&sb, "Entropy checkpoint: %s\n", sc.cfg.GetString(config.ConfigEntropyCheckpoint))
	fmt.Fprintf(&sb, "Hard-mode checkpoint: %s\n", sc.cfg.GetString(config.ConfigHardModeCheckpoint))
	fmt.Fprintf(&sb, "Constraints: %s\n", constraint.Format(sc.session.Constraints()))
	fmt.Fprintf(&sb, "Remaining: %d", len(sc.session.RemainingIndices()))
	return msg(sb.String()), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	switch sc.session.Status() {
	case session.Exhausted:
		return nil, errNoSolutionsLeft
	case session.Unique:
		w, _ := sc.session.Unique()
		return msg("The answer is " + w), nil
	}
	g, err := sc.session.Next(sc.ctx)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Best guess: %s (%.4f bits, %d remaining)",
		g.Word, g.Entropy, len(sc.session.RemainingIndices()))), nil
}

func (sc *ShellController) top(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	n, err := cmd.options.IntDefault("n", defaultTopCount)
	if err != nil {
		return nil, err
	}
	if sc.session.Status() == session.Exhausted {
		return nil, errNoSolutionsLeft
	}
	fresh := len(sc.session.Constraints()) == 0
	pool := sc.session.GuessPool()
	if len(pool) == 0 {
		pool = sc.guesses.Indices()
	}
	scored, err := sc.selector.ScoreAll(sc.ctx, sc.guesses, pool, sc.solutions,
		sc.session.RemainingIndices(), fresh)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("  #  Guess  Entropy\n")
	for i, g := range scored[:min(n, len(scored))] {
		fmt.Fprintf(&sb, "%3d: %-6s %.4f\n", i+1, g.Word, g.Entropy)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) constrain(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: constrain <letter><1|2|3>...")
	}
	cs, err := constraint.Parse(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	switch sc.session.Apply(cs) {
	case session.Exhausted:
		return nil, errNoSolutionsLeft
	case session.Unique:
		w, _ := sc.session.Unique()
		return msg("The answer is " + w), nil
	}
	g, err := sc.session.Next(sc.ctx)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%d solutions remain. Next guess: %s (%.4f bits)",
		len(sc.session.RemainingIndices()), g.Word, g.Entropy)), nil
}

func (sc *ShellController) remaining(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	n, err := cmd.options.IntDefault("n", 0)
	if err != nil {
		return nil, err
	}
	words := sc.session.Remaining()
	shown := words
	if n > 0 && n < len(words) {
		shown = words[:n]
	}
	return msg(fmt.Sprintf("%d remaining:\n%s", len(words), strings.Join(shown, " "))), nil
}

func (sc *ShellController) reset(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	sc.session.Reset()
	return msg("Constraints cleared."), nil
}

func (sc *ShellController) worstcase(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	opts := worstcase.Options{Opening: cmd.options.String("opening")}
	if err := validOpening(opts.Opening); err != nil {
		return nil, err
	}
	r, err := worstcase.NewSearcher(sc.selector).Run(sc.ctx, sc.guesses, sc.solutions, opts)
	if err != nil {
		return nil, err
	}
	if err := r.Check(sc.solutions); err != nil {
		return nil, err
	}
	if cmd.options.Bool("yaml") {
		return yamlMsg(r)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Opening: %s\n", r.Opening)
	fmt.Fprintf(&sb, "Worst case: %d guesses (%s)\n", r.Depth, r.Witness)
	fmt.Fprintf(&sb, "Nodes expanded: %d\n", r.Nodes)
	sb.WriteString("Guesses  Solutions")
	for _, row := range r.ByDepth() {
		fmt.Fprintf(&sb, "\n%7d  %9d", row[0], row[1])
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) hardmode(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	opts := hardmode.Options{
		Opening: cmd.options.String("opening"),
		Resume:  cmd.options.Bool("resume"),
	}
	if err := validOpening(opts.Opening); err != nil {
		return nil, err
	}
	store := hardmode.NewFileDiffStore(sc.cfg.GetString(config.ConfigHardModeCheckpoint))
	a := hardmode.NewAnalyzer(sc.selector, store)
	a.CheckpointEvery = sc.cfg.GetInt(config.ConfigCheckpointEvery)
	diffs, err := a.Run(sc.ctx, sc.guesses, sc.solutions, opts)
	if err != nil {
		return nil, err
	}
	s, err := hardmode.Summarize(diffs, sc.solutions.Len())
	if err != nil {
		return nil, err
	}
	if cmd.options.Bool("yaml") {
		return yamlMsg(s)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Partitions: %d\n", s.Partitions)
	fmt.Fprintf(&sb, "Weighted average loss: %.6f bits\n", s.WeightedAverage)
	fmt.Fprintf(&sb, "Partitions with loss: %d\n", s.PartitionsWithLoss)
	fmt.Fprintf(&sb, "Solutions with loss: %d of %d\n", s.SolutionsWithLoss, s.Solutions)
	fmt.Fprintf(&sb, "Mean loss per partition: %.6f ± %.6f (95%%)\n", s.MeanLoss, s.MeanLoss95)
	fmt.Fprintf(&sb, "Max loss: %.6f bits", s.MaxLoss)
	return msg(sb.String()), nil
}

func (sc *ShellController) hist(cmd *shellcmd) (*Response, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	bins, err := cmd.options.IntDefault("bins", defaultHistBins)
	if err != nil {
		return nil, err
	}
	if bins <= 0 {
		return nil, errors.New("bins must be positive")
	}
	above, err := cmd.options.FloatDefault("above", math.Inf(-1))
	if err != nil {
		return nil, err
	}
	known, err := sc.selector.Store.Load()
	if err != nil {
		return nil, err
	}
	var vals []float64
	for _, e := range known {
		if e > above {
			vals = append(vals, e)
		}
	}
	if len(vals) == 0 {
		return nil, errors.New("no cached entropies to plot; run `best` first")
	}
	slices.Sort(vals)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d guesses, entropy %.4f to %.4f bits\n", len(vals), vals[0], vals[len(vals)-1])
	if vals[0] == vals[len(vals)-1] {
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	if err := histogram.Fprint(&sb, histogram.Hist(bins, vals), histogram.Linear(histWidth)); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if f := cmd.options.String("analyze"); f != "" {
		rep, err := automatic.AnalyzeLogFile(f)
		if err != nil {
			return nil, err
		}
		if cmd.options.Bool("yaml") {
			return yamlMsg(rep)
		}
		return msg(rep.String()), nil
	}
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	p := automatic.NewPlayer(sc.guesses, sc.solutions, sc.selector, sc.session.HardMode)

	if len(cmd.args) > 0 {
		res, err := p.Play(sc.ctx, cmd.args[0])
		if err != nil {
			return nil, err
		}
		if cmd.options.Bool("yaml") {
			return yamlMsg(res)
		}
		var sb strings.Builder
		for i := range res.Guesses {
			fmt.Fprintf(&sb, "%d. %s %s\n", i+1, res.Guesses[i], res.Patterns[i])
		}
		if res.Solved {
			fmt.Fprintf(&sb, "Solved in %d", res.Turns())
		} else {
			fmt.Fprintf(&sb, "Not solved after %d", res.Turns())
		}
		return msg(sb.String()), nil
	}

	count, err := cmd.options.IntDefault("count", defaultAutoplayGame)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.cfg.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	answers := p.RandomAnswers(count)
	if cmd.options.Bool("all") {
		answers = sc.solutions.Words(sc.solutions.Indices())
	}
	var logw io.Writer
	if f := cmd.options.String("log"); f != "" {
		logfile, err := os.Create(f)
		if err != nil {
			return nil, err
		}
		defer logfile.Close()
		logw = logfile
		log.Info().Str("path", f).Msg("logging-games")
	}
	p.Table = automatic.NewTable(autoplayTableMemory)
	_, rep, err := p.PlayMany(sc.ctx, answers, threads, logw)
	if err != nil {
		return nil, err
	}
	lookups, hits := p.Table.Stats()
	log.Debug().Uint64("lookups", lookups).Uint64("hits", hits).Msg("guess-table-stats")
	if cmd.options.Bool("yaml") {
		return yamlMsg(rep)
	}
	return msg(strings.TrimRight(rep.String(), "\n")), nil
}
