package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/visitorcount/countercheck/internal/logconv"
	api "github.com/visitorcount/countercheck/lib-countercheck"
)

type ConvCommand struct {
	InStream  io.Reader
	OutStream io.Writer
	ErrStream io.Writer

	// IsTerminal reports whether OutStream is a terminal.
	IsTerminal func() bool
}

var defaultConvCommand = &ConvCommand{
	InStream:  os.Stdin,
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
	IsTerminal: func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	},
}

const ConvHelp = `countercheck conv -- Convert countercheck log file to other format

Usage: countercheck conv [OPTIONS...] [INPUT...]

Options:
  -o, --output  Output file. (default stdout)

  -c, --csv     Convert to CSV. (default format)
  -j, --json    Convert to JSON.
  -l, --ltsv    Convert to LTSV.
  -x, --xlsx    Convert to XLSX.

  -h, --help    Show this help message and exit.
`

type logFormat struct {
	Name    string
	Short   string
	Binary  bool
	Convert func(io.Writer, api.LogScanner) error
}

// logFormats are the formats that conv writes. The first one is the default.
var logFormats = []logFormat{
	{"csv", "c", false, logconv.ToCSV},
	{"json", "j", false, logconv.ToJSON},
	{"ltsv", "l", false, logconv.ToLTSV},
	{"xlsx", "x", true, func(w io.Writer, s api.LogScanner) error {
		return logconv.ToXlsx(w, s, time.Now())
	}},
}

func (c ConvCommand) Run(args []string) int {
	flags := pflag.NewFlagSet("countercheck conv", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	outputPath := flags.StringP("output", "o", "", "Output file")
	chosen := make([]bool, len(logFormats))
	for i, f := range logFormats {
		flags.BoolVarP(&chosen[i], f.Name, f.Short, false, "Convert to "+strings.ToUpper(f.Name))
	}
	help := flags.BoolP("help", "h", false, "Show this message and exit")

	if err := flags.Parse(args[2:]); err != nil {
		fmt.Fprintln(c.ErrStream, err)
		fmt.Fprintf(c.ErrStream, "\nPlease see `%s %s -h` for more information.\n", args[0], args[1])
		return 2
	}

	if *help {
		fmt.Fprint(c.OutStream, ConvHelp)
		return 0
	}

	var names []string
	format := logFormats[0]
	for i, on := range chosen {
		if on {
			format = logFormats[i]
			names = append(names, "--"+logFormats[i].Name)
		}
	}
	if len(names) > 1 {
		fmt.Fprintf(c.ErrStream, "error: only one output format can be chosen, but got %s.\n", strings.Join(names, " and "))
		return 2
	}

	output := c.OutStream
	if *outputPath != "" && *outputPath != "-" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(c.ErrStream, "error: failed to create output file: %s\n", err)
			return 1
		}
		defer f.Close()
		output = f
	} else if format.Binary && c.IsTerminal != nil && c.IsTerminal() {
		fmt.Fprintf(c.ErrStream, "error: %s is a binary format. please redirect the output or use -o option.\n", format.Name)
		return 2
	}

	input, err := c.openInputs(flags.Args())
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: failed to open input log file: %s\n", err)
		return 1
	}
	defer input.Close()

	if err := format.Convert(output, input); err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 1
	}
	return 0
}

// openInputs opens the log files at paths. Stdin is read for "-", or if paths is empty.
func (c ConvCommand) openInputs(paths []string) (*chainScanner, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	ch := &chainScanner{}
	for _, p := range paths {
		if p == "" || p == "-" {
			ch.scanners = append(ch.scanners, api.NewLogScanner(io.NopCloser(c.InStream)))
			continue
		}

		f, err := os.Open(p)
		if err != nil {
			ch.Close()
			return nil, err
		}
		ch.scanners = append(ch.scanners, api.NewLogScanner(f))
	}
	return ch, nil
}

// chainScanner reads the scanners one after another.
type chainScanner struct {
	scanners []api.LogScanner
	cur      int
}

func (ch *chainScanner) Scan() bool {
	for ; ch.cur < len(ch.scanners); ch.cur++ {
		if ch.scanners[ch.cur].Scan() {
			return true
		}
	}
	return false
}

func (ch *chainScanner) Record() api.Record {
	return ch.scanners[ch.cur].Record()
}

func (ch *chainScanner) Close() error {
	errs := make([]error, 0, len(ch.scanners))
	for _, s := range ch.scanners {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
