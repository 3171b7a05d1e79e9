package main

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	t.Run("build with selection flags", func(t *testing.T) {
		t.Parallel()
		command, flags, err := parseCommand([]string{"pressmill", "build",
			"-p", "handbook", "-f", "print,screen", "-l", "en", "--files", "chapter-*", "-w", "3", "--debug"})
		if err != nil {
			t.Fatalf("parseCommand() error = %v", err)
		}
		if command != "build" {
			t.Errorf("command = %q, want build", command)
		}
		if !reflect.DeepEqual(flags.projects, []string{"handbook"}) {
			t.Errorf("projects = %v", flags.projects)
		}
		if !reflect.DeepEqual(flags.formats, []string{"print", "screen"}) {
			t.Errorf("formats = %v", flags.formats)
		}
		if flags.workers != 3 || !flags.debug {
			t.Errorf("workers = %d debug = %v", flags.workers, flags.debug)
		}
	})

	t.Run("no arguments selects help", func(t *testing.T) {
		t.Parallel()
		command, _, err := parseCommand([]string{"pressmill"})
		if err != nil {
			t.Fatalf("parseCommand() error = %v", err)
		}
		if command != "" {
			t.Errorf("command = %q, want empty", command)
		}
	})

	t.Run("export requires the kind flag", func(t *testing.T) {
		t.Parallel()
		_, _, err := parseCommand([]string{"pressmill", "export", "-p", "handbook"})
		if !errors.Is(err, ErrExportRequired) {
			t.Errorf("error = %v, want ErrExportRequired", err)
		}
	})

	t.Run("export with kind and pages", func(t *testing.T) {
		t.Parallel()
		_, flags, err := parseCommand([]string{"pressmill", "export", "--export", "png", "--pages", "1-3,5"})
		if err != nil {
			t.Fatalf("parseCommand() error = %v", err)
		}
		if flags.export != "png" || flags.pages != "1-3,5" {
			t.Errorf("export = %q pages = %q", flags.export, flags.pages)
		}
	})

	t.Run("unknown flag is an error", func(t *testing.T) {
		t.Parallel()
		_, _, err := parseCommand([]string{"pressmill", "build", "--frobnicate"})
		if err == nil {
			t.Error("parseCommand() error = nil, want flag error")
		}
	})

	t.Run("pages flag unavailable outside export", func(t *testing.T) {
		t.Parallel()
		_, _, err := parseCommand([]string{"pressmill", "build", "--pages", "1"})
		if err == nil {
			t.Error("parseCommand() error = nil, want unknown flag error")
		}
	})
}
