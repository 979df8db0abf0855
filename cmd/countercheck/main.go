package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"

	"github.com/spf13/pflag"
	"github.com/visitorcount/countercheck/internal/config"
	"github.com/visitorcount/countercheck/internal/counter"
	"github.com/visitorcount/countercheck/internal/meta"
	"github.com/visitorcount/countercheck/internal/store"
)

func init() {
	counter.UserAgent = meta.UserAgent()
}

type CheckCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	OneshotMode bool
	ShowVersion bool
	ShowHelp    bool

	Config    config.Config
	StartedAt time.Time
}

var defaultCheckCommand = &CheckCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

//go:embed help.txt
var helpText string

func (cmd *CheckCommand) PrintUsage(detail bool) {
	tmpl := template.Must(template.New("help.txt").Parse(helpText))
	tmpl.Execute(cmd.ErrStream, map[string]interface{}{
		"Version":        meta.Version,
		"RedirectMax":    counter.REDIRECT_MAX,
		"DefaultField":   counter.DefaultField,
		"DefaultTimeout": counter.DefaultTimeout,
		"DefaultPort":    config.DefaultPort,
		"Short":          !detail,
	})
}

func (cmd *CheckCommand) ParseArgs(args []string) (exitCode int) {
	flags := pflag.NewFlagSet("countercheck", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	config.AddFlags(flags)
	flags.BoolVarP(&cmd.OneshotMode, "oneshot", "1", false, "Check only once and exit")
	flags.BoolVarP(&cmd.ShowVersion, "version", "v", false, "Show version")
	flags.BoolVarP(&cmd.ShowHelp, "help", "h", false, "Show help message")

	if err := flags.Parse(args[1:]); err != nil {
		return cmd.usageError(args[0], err)
	}

	if cmd.ShowVersion || cmd.ShowHelp {
		return 0
	}

	if cmd.OneshotMode && flags.Changed(config.KeyPort) {
		fmt.Fprintln(cmd.ErrStream, "warning: port option will ignored in the oneshot mode.")
	}

	var err error
	switch cmd.Config, err = config.Load(flags, flags.Args()); {
	case errors.Is(err, config.ErrNoEndpoint):
		cmd.PrintUsage(false)
		return 2
	case err != nil:
		return cmd.usageError(args[0], err)
	}

	if cmd.OneshotMode && flags.NArg() > 1 {
		fmt.Fprintln(cmd.ErrStream, "warning: schedule will ignored in the oneshot mode.")
	}

	return 0
}

// usageError prints err with a hint to the help, and returns the exit code for a usage error.
func (cmd *CheckCommand) usageError(prog string, err error) int {
	fmt.Fprintf(cmd.ErrStream, "%s\n\nPlease see `%s -h` for more information.\n", err, prog)
	return 2
}

func (cmd *CheckCommand) PrintVersion() {
	fmt.Fprintf(cmd.OutStream, "countercheck version %s\n", meta.VersionString())
}

func (cmd *CheckCommand) Run(args []string) (exitCode int) {
	if code := cmd.ParseArgs(args); code != 0 {
		return code
	}

	if cmd.ShowVersion {
		cmd.PrintVersion()
		return 0
	}

	if cmd.ShowHelp {
		cmd.PrintUsage(true)
		return 0
	}

	s, err := store.New(cmd.Config.LogFile, cmd.OutStream)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: failed to open log file: %s\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cmd.OneshotMode {
		exitCode = cmd.RunOneshot(ctx, s)
	} else {
		exitCode = cmd.RunServer(ctx, s)
	}

	s.Close()

	// A check that passed still fails the command if its record could not be written.
	if healthy, _ := s.Errors(); exitCode == 0 && !healthy {
		exitCode = 1
	}
	return exitCode
}

// subcommands are selected by the first argument. Anything else runs the check.
var subcommands = map[string]func(args []string) int{
	"oneshot": func(args []string) int {
		args[1] = "-1"
		return defaultCheckCommand.Run(args)
	},
	"conv":    defaultConvCommand.Run,
	"convert": defaultConvCommand.Run,
}

func main() {
	if len(os.Args) > 1 {
		if run, ok := subcommands[os.Args[1]]; ok {
			os.Exit(run(os.Args))
		}
	}
	os.Exit(defaultCheckCommand.Run(os.Args))
}
