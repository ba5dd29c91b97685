// Package maincmd wires the command line to the interpreter: parsing
// flags, resolving the configuration layers, loading the program document,
// and running it (spec §6.1).
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"ippcode23/internal/config"
	"ippcode23/lang/ioadapter"
	"ippcode23/lang/machine"
	"ippcode23/lang/program"
	"ippcode23/lang/vmerrors"
)

const binName = "ippvm"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [--source <path>] [--input <path>] [--config <path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [--source <path>] [--input <path>] [--config <path>]
       %[1]s -h|--help

Interpreter for IPPcode23 program documents.

Valid flag options are:
       --source <path>           Program document to execute (default:
                                  standard input).
       --input <path>            Input stream consumed by READ (default:
                                  standard input).
       --config <path>           YAML file supplying source/input, applied
                                  beneath explicit flags and above the
                                  IPPVM_SOURCE/IPPVM_INPUT environment
                                  variables.
       -h --help                 Show this help and exit.

At least one of --source or --input must resolve to a path, whether from a
flag, the config file, or the environment: leaving both to default to
standard input at once is rejected.
`, binName)
)

// Cmd is the interpreter's single action: load a program document and run
// it against an input stream.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help bool `flag:"h,help"`

	Source string `flag:"source"`
	Input  string `flag:"input"`
	Config string `flag:"config"`

	args  []string
	flags map[string]bool
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

// Validate rejects --help combined with any other flag (spec §6.1).
func (c *Cmd) Validate() error {
	if c.Help && len(c.flags) > 1 {
		return errors.New("--help must be given alone")
	}
	return nil
}

// Main is the command's entry point: it parses flags with mainer.Parser,
// dispatches to --help or the run, and translates the result into a
// process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(vmerrors.InvalidArgs{}.ExitCode())
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	code, err := c.run(ctx, stdio)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.ExitCode(vmerrors.ExitCode(err))
	}
	return mainer.ExitCode(code)
}

// run resolves the configuration layers, opens the source document and
// input stream, loads the program, and executes it. The executor has no
// cancellation points (spec §5, strictly synchronous); ctx is accepted only
// for symmetry with the rest of the pack's mainer.CancelOnSignal wiring.
func (c *Cmd) run(_ context.Context, stdio mainer.Stdio) (int, error) {
	source, input, err := config.Resolve(c.Source, c.Input, c.Config)
	if err != nil {
		return 0, err
	}
	if source == "" && input == "" {
		return 0, vmerrors.InvalidArgs{Msg: "at least one of --source or --input must be given"}
	}

	srcReader, closeSrc, err := openOrStdin(source, stdio.Stdin)
	if err != nil {
		return 0, vmerrors.FileOpenError{Path: source, Err: err}
	}
	defer closeSrc()

	inReader, closeIn, err := openOrStdin(input, stdio.Stdin)
	if err != nil {
		return 0, vmerrors.FileOpenError{Path: input, Err: err}
	}
	defer closeIn()

	doc, err := program.Parse(srcReader)
	if err != nil {
		return 0, err
	}
	prog, err := program.Validate(doc)
	if err != nil {
		return 0, err
	}

	vm := machine.New(prog, ioadapter.NewReader(inReader), ioadapter.NewWriter(stdio.Stdout, stdio.Stderr))
	return vm.Run()
}

func openOrStdin(path string, stdin io.Reader) (io.Reader, func() error, error) {
	if path == "" {
		return stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
