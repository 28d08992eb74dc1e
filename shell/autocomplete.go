package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter completes command names, their options and option values.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata lists what may follow a command name.
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"top":       {Options: []string{"-n"}},
	"remaining": {Options: []string{"-n"}},
	"worstcase": {Options: []string{"-opening", "-yaml"}},
	"hardmode":  {Options: []string{"-opening", "-resume", "-yaml"}},
	"hist":      {Options: []string{"-bins", "-above"}},
	"autoplay": {
		Options: []string{"-count", "-all", "-threads", "-log", "-analyze", "-yaml"},
	},
	"help": {
		Args: []string{"constrain", "worstcase", "hardmode", "autoplay", "script"},
	},
}

var commandNames = []string{
	"help", "info", "best", "top", "constrain", "c", "remaining", "reset",
	"worstcase", "hardmode", "hist", "autoplay", "script", "exit",
}

var boolOptions = map[string]bool{"yaml": true, "resume": true, "all": true}

var boolValues = []string{"true", "false"}

// Do implements readline.AutoCompleter.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	typed := string(line[:pos])
	fields, err := shellquote.Split(typed)
	if err != nil {
		// Unbalanced quotes while typing.
		fields = strings.Fields(typed)
	}
	// A trailing space starts a new, empty word.
	if strings.HasSuffix(typed, " ") || len(fields) == 0 {
		fields = append(fields, "")
	}
	word := fields[len(fields)-1]

	var candidates []string
	switch {
	case len(fields) == 1:
		candidates = commandNames
	default:
		candidates = c.argCandidates(fields[0], fields[len(fields)-2], word)
	}

	var matches [][]rune
	for _, cand := range candidates {
		if rest, ok := strings.CutPrefix(cand, word); ok {
			matches = append(matches, []rune(rest))
		}
	}
	return matches, len(word)
}

// argCandidates returns completions for word, which follows prev on a line
// that starts with cmd.
func (c *ShellCompleter) argCandidates(cmd, prev, word string) []string {
	if opt, ok := strings.CutPrefix(prev, "-"); ok {
		if boolOptions[opt] {
			return boolValues
		}
		if opt == "opening" {
			return c.openingCandidates(word)
		}
	}
	meta, ok := commandMetadata[cmd]
	if !ok {
		return nil
	}
	if strings.HasPrefix(word, "-") || len(meta.Args) == 0 {
		return meta.Options
	}
	return meta.Args
}

// openingCandidates suggests guess words once a couple of letters are
// typed, and only if the word lists are already loaded.
func (c *ShellCompleter) openingCandidates(prefix string) []string {
	const maxSuggestions = 20
	if len(prefix) < 2 || c.sc.guesses == nil {
		return nil
	}
	var out []string
	for _, idx := range c.sc.guesses.Indices() {
		w := c.sc.guesses.Word(idx)
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}
