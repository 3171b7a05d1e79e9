package pressmill

import (
	"errors"
	"fmt"
	"os"
)

// Clean removes the build and export output directories of the given jobs.
// Cleaning is an explicit, separate step, never an implicit side effect of a
// build, and never cancels in-flight work. Every directory is attempted;
// failures aggregate.
func (p *Pipeline) Clean(jobs []*Job) error {
	dirs := make(map[string]struct{})
	for _, job := range jobs {
		dirs[job.BuildDir] = struct{}{}
		dirs[job.ExportDir] = struct{}{}
	}

	var failures []error
	for dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			failures = append(failures, fmt.Errorf("cleaning %s: %w", dir, err))
			continue
		}
		p.logger.Debug("removed", "dir", dir)
	}
	return errors.Join(failures...)
}
