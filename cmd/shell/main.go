package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordle-entropy/config"
	"github.com/domino14/wordle-entropy/shell"
)

var (
	GitVersion string
)

//go:embed banner.txt
var banner string

func setupLogger(debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	return logger
}

// startCPUProfile returns the function that stops the profile.
func startCPUProfile(path string) func() {
	if path == "" {
		return func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		panic("could not create CPU profile: " + err.Error())
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		panic("could not start CPU profile: " + err.Error())
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}

func writeHeapProfile(path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		panic("could not create memory profile: " + err.Error())
	}
	defer f.Close()
	memstats := &runtime.MemStats{}
	runtime.ReadMemStats(memstats)
	log.Info().Uint64("heap-alloc", memstats.HeapAlloc).Uint32("num-gc", memstats.NumGC).Msg("memory-stats")
	if err := pprof.WriteHeapProfile(f); err != nil {
		panic("could not write memory profile: " + err.Error())
	}
	log.Info().Str("path", path).Msg("wrote-memory-profile")
}

func main() {
	// Relative word-list paths that do not exist under the working
	// directory are looked up next to the executable.
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(exPath)

	logger := setupLogger(cfg.GetBool(config.ConfigDebug))
	logger.Debug().Msg("debug-logging-on")

	oneShot := strings.TrimSpace(strings.Join(cfg.Args, " "))
	if oneShot == "" {
		fmt.Println(banner)
		fmt.Println(GitVersion)
	}
	log.Info().Str("exec-path", exPath).Interface("settings", cfg.SanitizedSettings()).Msg("loaded-config")

	stopProfile := startCPUProfile(cfg.GetString(config.ConfigCPUProfile))
	defer stopProfile()

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got-quit-signal")
		close(done)
	}()

	sc := shell.NewShellController(cfg, exPath, GitVersion)
	if oneShot != "" {
		sc.Execute(oneShot)
		sig <- syscall.SIGINT
	} else {
		go sc.Loop(sig)
	}
	<-done

	writeHeapProfile(cfg.GetString(config.ConfigMemProfile))
	sc.Cleanup()
	log.Info().Msg("shutting-down")
}
