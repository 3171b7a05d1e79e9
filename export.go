package pressmill

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Export output subdirectories, one per export kind.
var exportSubdirs = map[ExportKind]string{
	ExportPDF: "pdfs",
	ExportPNG: "pngs",
	ExportJPG: "jpgs",
	ExportZip: "zips",
}

// exportTask produces artifacts for one export job from the previously
// built HTML. PDF and image exports settle per document; zip settles once.
func (p *Pipeline) exportTask(ctx context.Context, job *Job) []TaskResult {
	if !job.Format.SupportsExport(job.Export) {
		err := fmt.Errorf("%w: format %s does not declare %q", ErrUnknownExport, job.Format.Name, job.Export)
		return []TaskResult{{Job: job, Document: string(job.Export), Err: err}}
	}

	if hook := exportTaskHook(job.Format, job.Export); hook != nil {
		return []TaskResult{{Job: job, Document: string(job.Export), Err: hook(ctx, p, job)}}
	}

	if job.Export == ExportZip {
		return []TaskResult{{Job: job, Document: string(ExportZip), Err: p.exportZip(job)}}
	}

	var results []TaskResult
	for _, htmlPath := range p.builtDocuments(job) {
		name := strings.TrimSuffix(filepath.Base(htmlPath), ".html")
		err := p.exportDocument(ctx, job, htmlPath, name)
		if err != nil {
			err = fmt.Errorf("[exporting %s/%s/%s] %w", job.Project.Name, job.Format.Name, name, err)
		}
		results = append(results, TaskResult{Job: job, Document: name, Err: err})
	}
	return results
}

// exportDocument captures one built HTML document into the job's export
// kind.
func (p *Pipeline) exportDocument(ctx context.Context, job *Job, htmlPath, name string) error {
	profile := job.Format.ExportProfile(job.Export)
	outDir := filepath.Join(job.ExportDir, exportSubdirs[job.Export])

	switch job.Export {
	case ExportPDF:
		data, err := p.exporter.CapturePDF(ctx, htmlPath, profile)
		if err != nil {
			return err
		}
		return defaultSave(job, filepath.Join(outDir, name+".pdf"), data)

	case ExportPNG, ExportJPG:
		captures, err := p.exporter.CapturePages(ctx, htmlPath, job.Export, profile, job.Pages)
		if err != nil {
			return err
		}
		ext := "." + string(job.Export)
		for _, capture := range captures {
			out := filepath.Join(outDir, fmt.Sprintf("%s_p%d%s", name, capture.Number, ext))
			if err := defaultSave(job, out, capture.Data); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownExport, job.Export)
}

// exportZip archives the job's whole build tree into one zip artifact named
// with the project version.
func (p *Pipeline) exportZip(job *Job) error {
	outPath := filepath.Join(job.ExportDir, exportSubdirs[ExportZip],
		fmt.Sprintf("%s-%s-v%s.zip", job.Project.Name, job.Format.Name, job.Project.Version))

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrZipExport, err)
	}
	outFile, err := os.Create(outPath) // #nosec G304 -- export paths derive from configuration
	if err != nil {
		return fmt.Errorf("%w: %v", ErrZipExport, err)
	}
	defer outFile.Close()

	archive := zip.NewWriter(outFile)
	err = filepath.WalkDir(job.BuildDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(job.BuildDir, path)
		if err != nil {
			return err
		}
		entry, err := archive.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path) // #nosec G304 -- walking the job's own build tree
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(entry, src)
		return err
	})
	if err != nil {
		_ = archive.Close()
		return fmt.Errorf("%w: %v", ErrZipExport, err)
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrZipExport, err)
	}
	return outFile.Close()
}

// builtDocuments lists the job's built HTML files that pass its file
// selector.
func (p *Pipeline) builtDocuments(job *Job) []string {
	htmlDir := filepath.Join(job.BuildDir, htmlOutputDir)
	entries, err := os.ReadDir(htmlDir)
	if err != nil {
		p.logger.Warn("no built HTML to export; run build first", "job", job.Name())
		return nil
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		if !job.Files.Match(name) {
			continue
		}
		paths = append(paths, filepath.Join(htmlDir, entry.Name()))
	}
	return paths
}

// exportTaskHook returns the format's override hook for an export kind.
func exportTaskHook(format *Format, kind ExportKind) TaskHook {
	switch kind {
	case ExportPDF:
		return format.Hooks.ExportPDF
	case ExportPNG:
		return format.Hooks.ExportPNGs
	case ExportJPG:
		return format.Hooks.ExportJPGs
	case ExportZip:
		return format.Hooks.ExportZip
	}
	return nil
}
