package main

import (
	"fmt"
	"io"
)

const usageText = `pressmill - multi-format document build pipeline

Usage:
  pressmill <command> [flags]

Commands:
  build     Build HTML and assets for the selected projects and formats
  export    Export built HTML to PDF, PNG, JPG, or ZIP
  watch     Build, then rebuild on source changes
  clean     Remove build and export directories for the selection
  check     Print the loaded formats and projects
  version   Print the tool version
  help      Show this help

Flags:
  -c, --config <file>       Config file (default: ./pressmill.yaml)
  -p, --projects <names>    Restrict to these projects
  -f, --formats <names>     Restrict to these formats
  -l, --languages <tags>    Restrict to these languages
  -t, --tasks <names>       Restrict to these task groups
      --files <globs>       Restrict documents by glob pattern
  -w, --workers <n>         Concurrent jobs (0 = auto)
      --debug               Verbose logging
      --discrete            Errors-only logging

Export flags:
      --export <kind>       Export kind: pdf, png, jpg, or zip
      --pages <range>       Page range for png/jpg, e.g. 1-3,5,8-9

Examples:
  pressmill build -p handbook -f print
  pressmill export -p handbook -f print --export pdf
  pressmill export -p handbook -f print --export png --pages 1-3,5
  pressmill watch -p handbook
`

func printUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}
