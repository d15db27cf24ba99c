// Package interactive provides the interactive shell of heos-ctl.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Executor runs one command line.
type Executor interface {
	// Execute runs args and returns the exit code a one-shot invocation
	// would have produced.
	Execute(ctx context.Context, args []string) int

	// Help writes the command list.
	Help(w io.Writer)
}

// Shell reads command lines and hands them to an Executor.
type Shell struct {
	exec Executor
	rl   *readline.Instance
}

// Streams replaces the terminal, e.g. for a script piped into the shell.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a shell on the terminal that completes the given command
// names.
func New(exec Executor, commands []string) (*Shell, error) {
	return newShell(exec, commands, nil)
}

// NewWithStreams creates a shell reading lines from st.Stdin. Input is
// not treated as a terminal: no raw mode, no line editing.
func NewWithStreams(exec Executor, commands []string, st Streams) (*Shell, error) {
	return newShell(exec, commands, &st)
}

func newShell(exec Executor, commands []string, st *Streams) (*Shell, error) {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands)+2)
	for _, name := range append([]string{"help", "quit"}, commands...) {
		items = append(items, readline.PcItem(name))
	}

	cfg := &readline.Config{
		Prompt:          "heos> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    readline.NewPrefixCompleter(items...),
	}
	if st != nil {
		cfg.Stdin = io.NopCloser(st.Stdin)
		cfg.Stdout = st.Stdout
		cfg.Stderr = st.Stderr
		cfg.FuncIsTerminal = func() bool { return false }
		cfg.FuncMakeRaw = func() error { return nil }
		cfg.FuncExitRaw = func() error { return nil }
		cfg.FuncGetWidth = func() int { return 80 }
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{exec: exec, rl: rl}, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that coordinates with the readline prompt.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Run reads lines until EOF, quit or ctx is done.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	fmt.Fprintln(s.rl.Stdout(), "Type 'help' for commands, 'quit' to exit.")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}

		args := Split(line)
		if len(args) == 0 {
			continue
		}

		switch strings.ToLower(args[0]) {
		case "help", "?":
			s.exec.Help(s.rl.Stdout())
		case "quit", "exit", "q":
			return
		default:
			if code := s.exec.Execute(ctx, args); code != 0 {
				fmt.Fprintf(s.rl.Stdout(), "(exit %d)\n", code)
			}
		}
	}
}

// Split breaks a command line into words. Single or double quotes group
// words containing spaces, e.g. use "Living Room".
func Split(line string) []string {
	var (
		words []string
		cur   strings.Builder
		quote rune
		inTok bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inTok = true
		case r == ' ' || r == '\t':
			if inTok {
				words = append(words, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if inTok {
		words = append(words, cur.String())
	}
	return words
}
