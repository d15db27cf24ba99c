// Command heos-log views and analyzes heos-ctl protocol capture files.
//
// Capture files are written by heos-ctl with the -protocol-log flag.
//
// Usage:
//
//	heos-log <command> [flags] <file.hlog>
//
// Commands:
//
//	view     View events in human-readable format
//	export   Export events to JSONL or CSV
//	filter   Write matching events to a new capture file
//	stats    Show statistics about the capture
//
// Examples:
//
//	# View all events
//	heos-log view capture.hlog
//
//	# View only device errors for one command
//	heos-log view -category error -command player/set_volume capture.hlog
//
//	# Export protocol-layer events to CSV
//	heos-log export -format csv -layer protocol capture.hlog
//
//	# Show statistics
//	heos-log stats capture.hlog
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/heos-control/heos-go/cmd/heos-log/commands"
)

const usage = `heos-log - HEOS Protocol Log Analyzer

Usage:
  heos-log <command> [flags] <file.hlog>

Commands:
  view     View events in human-readable format
  export   Export events to JSONL or CSV
  filter   Write matching events to a new capture file
  stats    Show statistics about the capture

Use "heos-log <command> -help" for more information about a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	if len(argv) < 1 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	cmd, args := argv[0], argv[1:]
	var err error
	switch cmd {
	case "view":
		err = runView(args, stdout, stderr)
	case "export":
		err = runExport(args, stdout, stderr)
	case "filter":
		err = runFilter(args, stdout, stderr)
	case "stats":
		err = runStats(args, stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(stderr, usage)
		return 1
	}

	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newFlagSet registers the filter flags shared by all commands.
func newFlagSet(name, summary string, stderr io.Writer, opts *commands.FilterOptions) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "heos-log %s - %s\n\nUsage:\n  heos-log %s [flags] <file.hlog>\n\nFlags:\n", name, summary, name)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.ConnID, "conn-id", "", "Filter by connection ID")
	fs.Int64Var(&opts.PlayerID, "pid", 0, "Filter by player ID")
	fs.StringVar(&opts.Command, "command", "", "Filter by command (namespace/verb)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (transport, protocol, client)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, state, error)")
	return fs
}

// parse parses args and returns the capture path.
func parse(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return "", fmt.Errorf("log file path required")
	}
	return fs.Arg(0), nil
}

func runView(args []string, stdout, stderr io.Writer) error {
	var opts commands.FilterOptions
	fs := newFlagSet("view", "View events in human-readable format", stderr, &opts)
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	filter, err := opts.Build()
	if err != nil {
		return err
	}
	return commands.RunView(path, filter, stdout)
}

func runExport(args []string, stdout, stderr io.Writer) error {
	var opts commands.FilterOptions
	fs := newFlagSet("export", "Export events to JSONL or CSV", stderr, &opts)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	w := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return commands.RunExport(path, *format, filter, w)
}

func runFilter(args []string, stdout, stderr io.Writer) error {
	var opts commands.FilterOptions
	fs := newFlagSet("filter", "Write matching events to a new capture file", stderr, &opts)
	output := fs.String("o", "", "Output file (required)")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("output file (-o) required")
	}
	filter, err := opts.Build()
	if err != nil {
		return err
	}
	return commands.RunFilter(path, *output, filter, stdout)
}

func runStats(args []string, stdout, stderr io.Writer) error {
	var opts commands.FilterOptions
	fs := newFlagSet("stats", "Show statistics about the capture", stderr, &opts)
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	filter, err := opts.Build()
	if err != nil {
		return err
	}
	return commands.RunStats(path, filter, stdout)
}
