package pressmill

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pressmill/pressmill/internal/fileutil"
)

// copyAssetTask copies the resolved asset directory for one task group
// (scripts, stylesheets, images, fonts, vendors) into the job's build
// output. The cascade picks exactly one source directory: a project's
// format-specific assets fully shadow the project's, which fully shadow the
// format's.
func (p *Pipeline) copyAssetTask(ctx context.Context, job *Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	srcDir, err := p.resolver.ResolveDir(job.Project, job.Format, string(job.Task))
	if errors.Is(err, ErrNotResolved) {
		// Neither tier ships assets for this group; nothing to emit.
		p.logger.Debug("no assets for task", "job", job.Name())
		return nil
	}
	if err != nil {
		return err
	}

	dstDir := filepath.Join(job.BuildDir, string(job.Task))
	if err := fileutil.CopyTree(srcDir, dstDir); err != nil {
		return fmt.Errorf("copying %s assets: %w", job.Task, err)
	}
	return nil
}

// assetTaskHook returns the format's override hook for an asset task group.
func assetTaskHook(format *Format, task Task) TaskHook {
	switch task {
	case TaskScripts:
		return format.Hooks.BuildScripts
	case TaskStylesheets:
		return format.Hooks.BuildStylesheets
	case TaskImages:
		return format.Hooks.BuildImages
	case TaskFonts:
		return format.Hooks.BuildFonts
	case TaskVendors:
		return format.Hooks.BuildVendors
	}
	return nil
}
