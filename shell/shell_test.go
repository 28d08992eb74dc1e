package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/wordle-entropy/config"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -log /path/to/log.txt",
			&shellcmd{"autoplay", nil, CmdOptions{"log": {"/path/to/log.txt"}}},
			nil},
		{"constrain t1e2a2",
			&shellcmd{"constrain", []string{"t1e2a2"}, CmdOptions{}},
			nil},
		{"worstcase -opening tares -yaml true ",
			&shellcmd{"worstcase",
				nil,
				CmdOptions{"opening": {"tares"}, "yaml": {"true"}}},
			nil,
		},
		{"autoplay hatch -count",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

var atch = []string{"batch", "catch", "hatch", "latch", "match"}

func writeList(t *testing.T, dir, name string, words []string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(words, "\n")+"\n"), 0o644))
	return p
}

// testController loads a guess list where cblmz tells every solution apart.
func testController(t *testing.T) (*ShellController, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigGuessList, writeList(t, dir, "guesses.txt", append([]string{"cblmz"}, atch...)))
	cfg.Set(config.ConfigSolutionList, writeList(t, dir, "solutions.txt", atch))
	cfg.Set(config.ConfigEntropyCheckpoint, filepath.Join(dir, "wordle.checkpoint"))
	cfg.Set(config.ConfigHardModeCheckpoint, filepath.Join(dir, "hard_mode_diff.checkpoint"))
	cfg.Set(config.ConfigThreads, 2)
	out := &bytes.Buffer{}
	sc := newController(cfg, dir, "test", out)
	t.Cleanup(sc.Cleanup)
	return sc, out
}

func run(t *testing.T, sc *ShellController, line string) string {
	t.Helper()
	resp, err := sc.standardModeSwitch(line, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp.message
}

func TestBestAndConstrain(t *testing.T) {
	sc, _ := testController(t)
	assert.Equal(t, "Best guess: cblmz (2.3219 bits, 5 remaining)", run(t, sc, "best"))

	// hatch answers cblmz with PMMMM.
	assert.Equal(t, "The answer is hatch", run(t, sc, "c c2b3l3m3z3"))
	assert.Equal(t, "The answer is hatch", run(t, sc, "best"))
	assert.Equal(t, "1 remaining:\nhatch", run(t, sc, "remaining"))

	assert.Equal(t, "Constraints cleared.", run(t, sc, "reset"))
	assert.Contains(t, run(t, sc, "remaining -n 2"), "5 remaining:\nbatch catch")
}

func TestConstrainErrors(t *testing.T) {
	sc, _ := testController(t)
	_, err := sc.standardModeSwitch("constrain", nil)
	assert.Error(t, err)
	_, err = sc.standardModeSwitch("constrain t1e", nil)
	assert.Error(t, err)

	_, err = sc.standardModeSwitch("constrain z1", nil)
	assert.ErrorIs(t, err, errNoSolutionsLeft)
	_, err = sc.standardModeSwitch("best", nil)
	assert.ErrorIs(t, err, errNoSolutionsLeft)
}

func TestTop(t *testing.T) {
	sc, _ := testController(t)
	lines := strings.Split(run(t, sc, "top -n 2"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  1: cblmz  2.3219", lines[1])
	// The _atch words tie; batch sorts first.
	assert.Equal(t, "  2: batch  0.7219", lines[2])
}

func TestWorstCase(t *testing.T) {
	sc, _ := testController(t)
	out := run(t, sc, "worstcase")
	assert.Contains(t, out, "Opening: cblmz")
	// catch has the smallest feedback pattern, so it is found first.
	assert.Contains(t, out, "Worst case: 2 guesses (catch)")

	out = run(t, sc, "worstcase -yaml true")
	assert.Contains(t, out, "depth: 2")
	assert.Contains(t, out, "witness: catch")

	_, err := sc.standardModeSwitch("worstcase -opening toolong", nil)
	assert.Error(t, err)
}

func TestHardMode(t *testing.T) {
	sc, _ := testController(t)
	out := run(t, sc, "hardmode")
	assert.Contains(t, out, "Partitions: 5")
	assert.Contains(t, out, "Solutions with loss: 0 of 5")

	out = run(t, sc, "hardmode -resume true -yaml true")
	assert.Contains(t, out, "partitions: 5")
	_, err := os.Stat(sc.cfg.GetString(config.ConfigHardModeCheckpoint))
	assert.NoError(t, err)
}

func TestHist(t *testing.T) {
	sc, _ := testController(t)
	_, err := sc.standardModeSwitch("hist", nil)
	assert.Error(t, err)

	run(t, sc, "best")
	assert.Contains(t, run(t, sc, "hist -bins 4"), "6 guesses, entropy 0.7219 to 2.3219 bits")
	assert.Contains(t, run(t, sc, "hist -above 1"), "1 guesses")
}

func TestAutoplay(t *testing.T) {
	sc, _ := testController(t)
	out := run(t, sc, "autoplay hatch")
	assert.Equal(t, "1. cblmz PMMMM\n2. hatch HHHHH\nSolved in 2", out)

	logPath := filepath.Join(t.TempDir(), "games.csv")
	out = run(t, sc, "autoplay -all true -threads 2 -log "+logPath)
	assert.Contains(t, out, "Games played: 5")
	assert.Contains(t, out, "Mean guesses: 2.0000")

	out = run(t, sc, "autoplay -analyze "+logPath+" -yaml true")
	assert.Contains(t, out, "games: 5")

	_, err := sc.standardModeSwitch("autoplay zebra", nil)
	assert.Error(t, err)
}

func TestInfoAndHelp(t *testing.T) {
	sc, _ := testController(t)
	out := run(t, sc, "info")
	assert.Contains(t, out, "guesses.txt: 6 words")
	assert.Contains(t, out, "Feedback rule: simple")
	assert.Contains(t, out, "Remaining: 5")

	assert.Contains(t, run(t, sc, "help"), "Usage:")
	assert.Contains(t, run(t, sc, "help constrain"), "green")
	_, err := sc.standardModeSwitch("help nosuchtopic", nil)
	assert.Error(t, err)
	_, err = sc.standardModeSwitch("help ../shell", nil)
	assert.Error(t, err)
}

func TestUnknownAndExit(t *testing.T) {
	sc, out := testController(t)
	_, err := sc.standardModeSwitch("frobnicate", nil)
	assert.Error(t, err)
	_, err = sc.standardModeSwitch("exit", nil)
	assert.ErrorIs(t, err, errQuit)

	sc.Execute("frobnicate")
	assert.Contains(t, out.String(), "Error: unknown command")
}

func TestScript(t *testing.T) {
	sc, _ := testController(t)
	script := `
local out = wordle_best()
if not string.find(out, "cblmz") then error("unexpected best: " .. out) end
local r, err = wordle_constrain("z1")
if r ~= nil or err == nil then error("expected constrain to fail") end
wordle_reset()
local json = require("json")
local s = json.encode({guess = "cblmz"})
if s ~= '{"guess":"cblmz"}' then error("bad json: " .. s) end
`
	p := filepath.Join(t.TempDir(), "check.lua")
	require.NoError(t, os.WriteFile(p, []byte(script), 0o644))
	resp, err := sc.standardModeSwitch("script "+p, nil)
	require.NoError(t, err)
	assert.Nil(t, resp)

	bad := filepath.Join(t.TempDir(), "bad.lua")
	require.NoError(t, os.WriteFile(bad, []byte(`error("boom")`), 0o644))
	_, err = sc.standardModeSwitch("script "+bad, nil)
	assert.Error(t, err)
}

func TestCompleter(t *testing.T) {
	sc, _ := testController(t)
	c := NewShellCompleter(sc)

	matches, n := c.Do([]rune("wor"), 3)
	assert.Equal(t, [][]rune{[]rune("stcase")}, matches)
	assert.Equal(t, 3, n)

	matches, _ = c.Do([]rune("hardmode -y"), 11)
	assert.Equal(t, [][]rune{[]rune("aml")}, matches)

	matches, _ = c.Do([]rune("worstcase -yaml "), 16)
	assert.Len(t, matches, 2)

	run(t, sc, "info")
	matches, _ = c.Do([]rune("worstcase -opening cb"), 21)
	assert.Equal(t, [][]rune{[]rune("lmz")}, matches)
}
