package pressmill

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Job is one immutable unit of work: a (project, format, task, language?)
// combination with its resolved output directories. The orchestrator owns a
// Job exclusively while running it; nothing mutates a Job after creation.
type Job struct {
	Project  *Project
	Format   *Format
	Task     Task
	Language string

	Files     *FileSelector
	BuildDir  string
	ExportDir string

	Export ExportKind
	Pages  []int

	Debug    bool
	Discrete bool
}

// Name returns a stable human-readable identity for log prefixes.
func (j *Job) Name() string {
	name := j.Project.Name + "/" + j.Format.Name + "/" + string(j.Task)
	if j.Language != "" {
		name += "/" + j.Language
	}
	return name
}

// JobOptions carries the run-level settings the factory copies into jobs.
type JobOptions struct {
	BuildRoot  string
	ExportRoot string
	Logger     *slog.Logger
}

func (o JobOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// NewJobs expands a selection against the loaded model into a flat job list.
//
// For each selected project and each selected format the project requires,
// HTML tasks fan out once per language (defaulting to the project's declared
// languages for that format) and every other task yields a single job. A
// selected pair the project does not require is a skip-warning, not an
// error; so is an export kind the format does not declare. Selections are
// de-duplicated before expansion.
func NewJobs(model *Model, sel Selection, opts JobOptions) ([]*Job, error) {
	if err := ValidateLanguages(sel.Languages); err != nil {
		return nil, err
	}
	files, err := NewFileSelector(sel.Files)
	if err != nil {
		return nil, err
	}
	if sel.Export != "" && !IsKnownExportKind(sel.Export) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExport, sel.Export)
	}

	tasks, err := selectedTasks(sel)
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	var jobs []*Job

	for _, project := range selectedProjects(model, sel, log) {
		for _, format := range selectedFormats(model, sel, log) {
			req := project.Requires(format.Name)
			if req == nil {
				log.Warn("skipping pair: project does not require format",
					"project", project.Name, "format", format.Name)
				continue
			}

			base := Job{
				Project:   project,
				Format:    format,
				Files:     files,
				BuildDir:  filepath.Join(opts.BuildRoot, project.Name, format.Name),
				ExportDir: filepath.Join(opts.ExportRoot, project.Name, format.Name),
				Debug:     sel.Debug,
				Discrete:  sel.Discrete,
			}

			if sel.Export != "" {
				if !format.SupportsExport(sel.Export) {
					log.Warn("skipping export: format does not declare the export kind",
						"project", project.Name, "format", format.Name, "export", sel.Export)
					continue
				}
				job := base
				job.Task = TaskExport
				job.Export = sel.Export
				job.Pages = sel.Pages
				jobs = append(jobs, &job)
				continue
			}

			for _, task := range tasks {
				if task == TaskHTML {
					for _, lang := range selectedLanguages(sel, req) {
						job := base
						job.Task = task
						job.Language = lang
						jobs = append(jobs, &job)
					}
					continue
				}
				job := base
				job.Task = task
				jobs = append(jobs, &job)
			}
		}
	}

	return jobs, nil
}

// selectedProjects resolves the selection's project names against the model,
// defaulting to every loaded project. Unknown names warn and are skipped.
func selectedProjects(model *Model, sel Selection, log *slog.Logger) []*Project {
	if len(sel.Projects) == 0 {
		return model.Projects
	}
	var out []*Project
	for _, name := range dedupe(sel.Projects) {
		if p := model.Project(name); p != nil {
			out = append(out, p)
			continue
		}
		log.Warn("skipping unknown project", "project", name)
	}
	return out
}

func selectedFormats(model *Model, sel Selection, log *slog.Logger) []*Format {
	if len(sel.Formats) == 0 {
		return model.Formats
	}
	var out []*Format
	for _, name := range dedupe(sel.Formats) {
		if f := model.Format(name); f != nil {
			out = append(out, f)
			continue
		}
		log.Warn("skipping unknown format", "format", name)
	}
	return out
}

func selectedTasks(sel Selection) ([]Task, error) {
	if len(sel.Tasks) == 0 {
		return AllTasks, nil
	}
	var out []Task
	for _, name := range dedupe(sel.Tasks) {
		task := Task(name)
		if !IsKnownTask(task) {
			return nil, fmt.Errorf("unknown task %q", name)
		}
		out = append(out, task)
	}
	return out, nil
}

// selectedLanguages returns the requested languages, defaulting to the
// languages the project declares for the format. A project with no declared
// languages still builds once, language-neutral.
func selectedLanguages(sel Selection, req *FormatRequirement) []string {
	if len(sel.Languages) > 0 {
		return dedupe(sel.Languages)
	}
	if len(req.Languages) > 0 {
		return req.Languages
	}
	return []string{""}
}
