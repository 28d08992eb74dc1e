package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordle-entropy/cache"
	"github.com/domino14/wordle-entropy/config"
	"github.com/domino14/wordle-entropy/corpus"
	"github.com/domino14/wordle-entropy/entropy"
	"github.com/domino14/wordle-entropy/feedback"
	"github.com/domino14/wordle-entropy/session"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("sending quit signal")
)

type ShellController struct {
	l   *readline.Instance
	out io.Writer
	cfg *config.Config

	execPath   string
	gitVersion string

	ctx    context.Context
	cancel context.CancelFunc

	guesses   *corpus.Corpus
	solutions *corpus.Corpus
	selector  *entropy.Selector
	session   *session.Session
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newController(cfg, execPath, gitVersion, nil)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mwordle>\033[0m ",
		HistoryFile:     "/tmp/wordle-entropy-readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

// newController builds a controller that writes to out instead of a
// terminal.
func newController(cfg *config.Config, execPath, gitVersion string, out io.Writer) *ShellController {
	ctx, cancel := context.WithCancel(context.Background())
	return &ShellController{
		out:        out,
		cfg:        cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) rule() feedback.Rule {
	if sc.cfg.GetBool(config.ConfigStrictFeedback) {
		return feedback.RuleStrict
	}
	return feedback.RuleSimple
}

// ensureLoaded reads both word lists the first time a command needs them.
// Word lists go through the object cache so reloading after `reset` is
// free.
func (sc *ShellController) ensureLoaded() error {
	if sc.session != nil {
		return nil
	}
	var err error
	sc.guesses, err = cache.Load(sc.cfg.GetString(config.ConfigGuessList), corpus.LoadFile)
	if err != nil {
		return err
	}
	sc.solutions, err = cache.Load(sc.cfg.GetString(config.ConfigSolutionList), corpus.LoadFile)
	if err != nil {
		return err
	}
	if sc.guesses.Len() == 0 || sc.solutions.Len() == 0 {
		return errors.New("word lists must not be empty")
	}
	store := cache.NewFileStore(sc.cfg.GetString(config.ConfigEntropyCheckpoint))
	sc.selector = entropy.NewSelector(store, sc.rule(), sc.cfg.GetInt(config.ConfigThreads))
	sc.selector.CheckpointEvery = sc.cfg.GetInt(config.ConfigCheckpointEvery)
	sc.session = session.New(sc.guesses, sc.solutions, sc.selector, sc.cfg.GetBool(config.ConfigHardMode))
	log.Info().Int("guesses", sc.guesses.Len()).Int("solutions", sc.solutions.Len()).
		Str("rule", sc.selector.Rule.String()).Msg("loaded-word-lists")
	return nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	// handle options

	lastWasOption := false
	lastOption := ""
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			// option
			if lastWasOption {
				return nil, errWrongOptionSyntax
			}
			lastWasOption = true
			lastOption = fields[idx][1:]
			continue
		}
		if lastWasOption {
			lastWasOption = false
			options[lastOption] = append(options[lastOption], fields[idx])
		} else {
			args = append(args, fields[idx])
		}
	}
	if lastWasOption {
		// all options are non-boolean, cannot have a naked option.
		return nil, errWrongOptionSyntax
	}
	log.Debug().Str("cmd", cmd).Strs("args", args).Msg("extracted-fields")

	return &shellcmd{
		cmd:     cmd,
		args:    args,
		options: options,
	}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		if sig != nil {
			sig <- syscall.SIGINT
		}
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "info":
		return sc.info(cmd)
	case "best":
		return sc.best(cmd)
	case "top":
		return sc.top(cmd)
	case "constrain", "c":
		return sc.constrain(cmd)
	case "remaining":
		return sc.remaining(cmd)
	case "reset":
		return sc.reset(cmd)
	case "worstcase":
		return sc.worstcase(cmd)
	case "hardmode":
		return sc.hardmode(cmd)
	case "hist":
		return sc.hist(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	default:
		log.Debug().Msgf("you said: %v", line)
		return nil, fmt.Errorf("unknown command %q; try `help`", cmd.cmd)
	}
}

// Execute runs a single command line, for non-interactive use. The caller
// is responsible for shutting down afterwards.
func (sc *ShellController) Execute(line string) {
	resp, err := sc.standardModeSwitch(line, nil)
	if err != nil {
		if !errors.Is(err, errQuit) {
			sc.showError(err)
		}
		return
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops anything still running.
func (sc *ShellController) Cleanup() {
	sc.cancel()
}
