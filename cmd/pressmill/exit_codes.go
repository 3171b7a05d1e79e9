package main

import (
	"errors"

	pressmill "github.com/pressmill/pressmill"
	"github.com/pressmill/pressmill/internal/config"
)

// Exit codes returned to the shell.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitIO      = 3
	ExitBrowser = 4
)

// exitCodeFor maps an error to a process exit code. Aggregate build failures
// and anything unrecognized fall through to the general code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUnknownCommand),
		errors.Is(err, ErrExportRequired),
		errors.Is(err, pressmill.ErrInvalidSelector),
		errors.Is(err, pressmill.ErrInvalidLanguage),
		errors.Is(err, pressmill.ErrEmptyPageRange),
		errors.Is(err, pressmill.ErrInvalidPageRange),
		errors.Is(err, pressmill.ErrUnknownExport):
		return ExitUsage
	case errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrConfigParse),
		errors.Is(err, pressmill.ErrDescriptorRead),
		errors.Is(err, pressmill.ErrDescriptorParse),
		errors.Is(err, pressmill.ErrWriteOutput):
		return ExitIO
	case errors.Is(err, pressmill.ErrBrowserConnect),
		errors.Is(err, pressmill.ErrPageCreate),
		errors.Is(err, pressmill.ErrPageLoad):
		return ExitBrowser
	default:
		return ExitGeneral
	}
}
