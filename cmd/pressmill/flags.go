package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for CLI parsing.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrExportRequired = errors.New("export requires --export <pdf|png|jpg|zip>")
)

// cliFlags holds the flags shared by every command. Not every command uses
// every flag; unused ones are simply ignored.
type cliFlags struct {
	config string

	projects  []string
	formats   []string
	languages []string
	tasks     []string
	files     []string

	export string
	pages  string

	workers  int
	debug    bool
	discrete bool
}

// newFlagSet builds the pflag set for one command.
func newFlagSet(command string, flags *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)

	fs.StringVarP(&flags.config, "config", "c", "", "Config file path (default: ./pressmill.yaml)")
	fs.StringSliceVarP(&flags.projects, "projects", "p", nil, "Restrict to these projects")
	fs.StringSliceVarP(&flags.formats, "formats", "f", nil, "Restrict to these formats")
	fs.StringSliceVarP(&flags.languages, "languages", "l", nil, "Restrict to these languages")
	fs.StringSliceVarP(&flags.tasks, "tasks", "t", nil, "Restrict to these task groups")
	fs.StringSliceVar(&flags.files, "files", nil, "Restrict documents by glob pattern")
	fs.IntVarP(&flags.workers, "workers", "w", 0, "Concurrent jobs (0 = auto)")
	fs.BoolVar(&flags.debug, "debug", false, "Verbose logging")
	fs.BoolVar(&flags.discrete, "discrete", false, "Errors-only logging")

	if command == "export" {
		fs.StringVar(&flags.export, "export", "", "Export kind: pdf, png, jpg, or zip")
		fs.StringVar(&flags.pages, "pages", "", "Page range, e.g. 1-3,5,8-9")
	}

	fs.SetOutput(discardWriter{})
	return fs
}

// parseCommand extracts the command word and parses its flags.
func parseCommand(args []string) (string, *cliFlags, error) {
	flags := &cliFlags{}
	if len(args) < 2 {
		return "", flags, nil
	}

	command := args[1]
	fs := newFlagSet(command, flags)
	if err := fs.Parse(args[2:]); err != nil {
		return command, flags, fmt.Errorf("parsing flags: %w", err)
	}

	if command == "export" && flags.export == "" {
		return command, flags, ErrExportRequired
	}
	return command, flags, nil
}

// discardWriter silences pflag's own error printing; errors surface through
// the returned error instead.
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
