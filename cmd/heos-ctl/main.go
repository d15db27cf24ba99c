// Command heos-ctl controls a HEOS device over its CLI protocol.
//
// Every command opens one TCP connection to the device, sends one request
// line and prints the response.
//
// Usage:
//
//	heos-ctl [flags] <command> [args]
//	heos-ctl [flags] -interactive
//	heos-ctl [flags] -interactive < script.txt
//
// Flags:
//
//	-config string        Configuration file (.yaml, .yml or .toml)
//	-host string          Device host name or IP address
//	-port int             Device port (default 1255)
//	-pid int              Active player id
//	-player string        Active player name, resolved through the player cache
//	-timeout duration     Per-command timeout (default 5s)
//	-log-level string     Log level: trace, debug, info, warn, error (default "info")
//	-protocol-log string  Append a protocol capture to this file
//	-state-dir string     Directory for the player cache
//	-interactive          Start an interactive shell
//	-json                 Print raw device JSON
//
// Examples:
//
//	# List players and refresh the player cache
//	heos-ctl -host 192.168.1.20 players
//
//	# Set the volume of a player selected by name
//	heos-ctl -host 192.168.1.20 -player "Living Room" volume 30
//
//	# Capture the protocol exchange while switching to an input
//	heos-ctl -config ~/.heos.yaml -protocol-log /tmp/heos.hlog input 1027 inputs/aux_in_1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/heos-control/heos-go/cmd/heos-ctl/interactive"
	"github.com/heos-control/heos-go/pkg/config"
	"github.com/heos-control/heos-go/pkg/heos"
	"github.com/heos-control/heos-go/pkg/log"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitDeviceError = 2
)

type cliFlags struct {
	configPath  string
	host        string
	port        int
	pid         int64
	player      string
	timeout     time.Duration
	logLevel    string
	protocolLog string
	stateDir    string
	interactive bool
	json        bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var f cliFlags
	fs := flag.NewFlagSet("heos-ctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "Configuration file (.yaml, .yml or .toml)")
	fs.StringVar(&f.host, "host", "", "Device host name or IP address")
	fs.IntVar(&f.port, "port", heos.DefaultPort, "Device port")
	fs.Int64Var(&f.pid, "pid", 0, "Active player id")
	fs.StringVar(&f.player, "player", "", "Active player name, resolved through the player cache")
	fs.DurationVar(&f.timeout, "timeout", config.DefaultTimeout, "Per-command timeout")
	fs.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level: trace, debug, info, warn, error")
	fs.StringVar(&f.protocolLog, "protocol-log", "", "Append a protocol capture to this file")
	fs.StringVar(&f.stateDir, "state-dir", "", "Directory for the player cache")
	fs.BoolVar(&f.interactive, "interactive", false, "Start an interactive shell")
	fs.BoolVar(&f.json, "json", false, "Print raw device JSON")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: heos-ctl [flags] <command> [args]")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr, "\nCommands:")
		printSubcommands(stderr)
	}
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "heos-ctl: %v\n", err)
		return exitFailure
	}
	applyFlags(fs, &f, &cfg)

	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(stderr, "heos-ctl: %v\n", err)
		return exitFailure
	}
	logger := newLogger(stderr, level)

	if !f.interactive && fs.NArg() == 0 {
		fs.Usage()
		return exitFailure
	}

	capture, closeCapture, err := openCapture(cfg.ProtocolLog, logger)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.ProtocolLog).Msg("Failed to open protocol log")
		return exitFailure
	}
	defer closeCapture()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(cfg, stdout, logger, f.json, heos.WithLogger(capture))
	if err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return exitFailure
	}
	if f.player != "" && !isFlagSet(fs, "pid") {
		if err := a.selectPlayer(ctx, f.player); err != nil {
			logger.Error().Err(err).Str("player", f.player).Msg("Cannot select player")
			return exitFailure
		}
	}

	if f.interactive {
		shell, err := newShell(a, stdin, stdout, stderr)
		if err != nil {
			logger.Error().Err(err).Msg("Cannot start interactive shell")
			return exitFailure
		}
		a.out = shell.Stdout()
		a.logger = a.logger.Output(zerolog.ConsoleWriter{Out: shell.Stderr(), TimeFormat: time.RFC3339})
		shell.Run(ctx)
		return exitOK
	}

	return a.Execute(ctx, fs.Args())
}

// newShell uses the terminal when stdin is one and reads stdin as a
// script otherwise.
func newShell(a *app, stdin io.Reader, stdout, stderr io.Writer) (*interactive.Shell, error) {
	if f, ok := stdin.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		return interactive.New(a, subcommandNames())
	}
	return interactive.NewWithStreams(a, subcommandNames(), interactive.Streams{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	})
}

// applyFlags overrides file settings with explicitly set flags.
func applyFlags(fs *flag.FlagSet, f *cliFlags, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "host":
			cfg.Host = f.host
		case "port":
			cfg.Port = f.port
		case "pid":
			cfg.Player = heos.PlayerIdentity{PersistentID: f.pid}
		case "timeout":
			cfg.Timeout = f.timeout
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "protocol-log":
			cfg.ProtocolLog = f.protocolLog
		case "state-dir":
			cfg.StateDir = f.stateDir
		}
	})
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "heos-ctl").Logger()
}

// openCapture builds the protocol logger: a capture file when path is set,
// plus console rendering of requests and responses at debug level and of
// raw frames and connection states at trace level.
func openCapture(path string, logger zerolog.Logger) (log.Logger, func(), error) {
	closeFn := func() {}
	var sinks []log.Logger

	if path != "" {
		fl, err := log.NewFileLogger(expandHome(path))
		if err != nil {
			return nil, closeFn, err
		}
		sinks = append(sinks, fl)
		closeFn = func() {
			if n := fl.Errors(); n > 0 {
				logger.Warn().Int("errors", n).Msg("Protocol log write errors")
			}
			if err := fl.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close protocol log")
			}
		}
	}
	switch level := logger.GetLevel(); {
	case level <= zerolog.TraceLevel:
		sinks = append(sinks, log.NewZerologAdapter(logger))
	case level == zerolog.DebugLevel:
		sinks = append(sinks, log.ExceptLayer(log.NewZerologAdapter(logger), log.LayerTransport))
	}
	return log.Combine(sinks...), closeFn, nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
