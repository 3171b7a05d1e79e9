package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is the host tool version, set at build time via ldflags. Format
// compatibility ranges are checked against it at load time.
var Version = "1.0.0"

func main() {
	command, flags, err := parseCommand(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	logger := newLogger(flags)
	slog.SetDefault(logger)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.debug {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, flags, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// newLogger builds the console logger: --debug lowers the level, --discrete
// raises it so only errors print.
func newLogger(flags *cliFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case flags.debug:
		level = slog.LevelDebug
	case flags.discrete:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// run dispatches the parsed command.
func run(ctx context.Context, command string, flags *cliFlags, logger *slog.Logger) error {
	switch command {
	case "build":
		return runBuild(ctx, flags, logger)
	case "clean":
		return runClean(flags, logger)
	case "watch":
		return runWatch(ctx, flags, logger)
	case "export":
		return runExport(ctx, flags, logger)
	case "check":
		return runCheck(flags, logger)
	case "version":
		fmt.Println("pressmill", Version)
		return nil
	case "help", "":
		printUsage(os.Stdout)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}
