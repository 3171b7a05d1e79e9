package pressmill

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/pressmill/pressmill/internal/yamlutil"
)

// Descriptor file names looked up inside a format or project module path.
const (
	formatDescriptorFile  = "format.yaml"
	projectDescriptorFile = "project.yaml"
)

// formatDescriptor is the on-disk shape of a format module.
type formatDescriptor struct {
	Name          string                   `yaml:"name"`
	Version       string                   `yaml:"version"`
	Compatibility string                   `yaml:"compatibility"`
	Exports       map[string]ExportProfile `yaml:"exports"`
}

// projectDescriptor is the on-disk shape of a project module.
type projectDescriptor struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Formats []struct {
		Name      string   `yaml:"name"`
		Range     string   `yaml:"range"`
		Languages []string `yaml:"languages"`
	} `yaml:"formats"`
}

// LoadModel loads format and project descriptors from the given module paths
// and returns the validated resource model.
//
// Loading is independent per entry: one broken descriptor never aborts the
// others. All failures are collected and surfaced together at the end, each
// annotated with the offending module path. Formats load before projects so
// that project requirements can be checked against the loaded format set.
func LoadModel(toolVersion string, reg *Registry, formatPaths, projectPaths []string) (*Model, error) {
	hostVersion, err := semver.NewVersion(toolVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: host version %q: %v", ErrInvalidVersion, toolVersion, err)
	}

	model := &Model{}
	var failures []error

	for _, path := range formatPaths {
		f, err := loadFormat(path, hostVersion, reg)
		if err != nil {
			failures = append(failures, fmt.Errorf("format %s: %w", path, err))
			continue
		}
		model.Formats = append(model.Formats, f)
	}

	for _, path := range projectPaths {
		p, err := loadProject(path, model, reg)
		if err != nil {
			failures = append(failures, fmt.Errorf("project %s: %w", path, err))
			continue
		}
		model.Projects = append(model.Projects, p)
	}

	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}
	return model, nil
}

// loadFormat reads and validates one format module.
func loadFormat(path string, hostVersion *semver.Version, reg *Registry) (*Format, error) {
	var desc formatDescriptor
	if err := readDescriptor(filepath.Join(path, formatDescriptorFile), &desc); err != nil {
		return nil, err
	}

	if desc.Name == "" {
		desc.Name = filepath.Base(path)
	}
	if desc.Version == "" {
		return nil, ErrMissingVersion
	}
	version, err := semver.NewVersion(desc.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, desc.Version, err)
	}

	if desc.Compatibility == "" {
		return nil, ErrMissingRange
	}
	compat, err := semver.NewConstraint(desc.Compatibility)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRange, desc.Compatibility, err)
	}
	if !compat.Check(hostVersion) {
		return nil, fmt.Errorf("%w: range %q, host %s", ErrIncompatibleRange, desc.Compatibility, hostVersion)
	}

	if desc.Exports == nil {
		return nil, ErrMissingExports
	}
	profiles := make(map[ExportKind]ExportProfile, len(desc.Exports))
	for name, profile := range desc.Exports {
		kind := ExportKind(name)
		if !IsKnownExportKind(kind) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownExport, name)
		}
		profiles[kind] = profile
	}

	mod := reg.formatModule(desc.Name)
	return &Format{
		Name:           desc.Name,
		Version:        version,
		Compatibility:  compat,
		SourceRoot:     path,
		ExportProfiles: profiles,
		Hooks:          mod.Hooks,
		BlockRenderers: mod.BlockRenderers,
	}, nil
}

// loadProject reads and validates one project module against the formats
// loaded so far.
func loadProject(path string, model *Model, reg *Registry) (*Project, error) {
	var desc projectDescriptor
	if err := readDescriptor(filepath.Join(path, projectDescriptorFile), &desc); err != nil {
		return nil, err
	}

	if desc.Name == "" {
		desc.Name = filepath.Base(path)
	}
	if desc.Version == "" {
		return nil, ErrMissingVersion
	}
	version, err := semver.NewVersion(desc.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, desc.Version, err)
	}

	if len(desc.Formats) == 0 {
		return nil, ErrNoRequiredFormats
	}

	var requirements []FormatRequirement
	for _, entry := range desc.Formats {
		format := model.Format(entry.Name)
		if format == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, entry.Name)
		}

		wanted, err := semver.NewConstraint(entry.Range)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRange, entry.Range, err)
		}
		if !wanted.Check(format.Version) {
			return nil, fmt.Errorf("%w: format %s is %s, project requires %q",
				ErrVersionConflict, entry.Name, format.Version, entry.Range)
		}

		requirements = append(requirements, FormatRequirement{
			Format:    entry.Name,
			Range:     wanted,
			Languages: entry.Languages,
		})
	}

	mod := reg.projectModule(desc.Name)
	return &Project{
		Name:            desc.Name,
		Version:         version,
		SourceRoot:      path,
		RequiredFormats: requirements,
		Hooks:           mod.Hooks,
	}, nil
}

// readDescriptor reads and parses one YAML descriptor file.
func readDescriptor(path string, dst any) error {
	data, err := os.ReadFile(path) // #nosec G304 -- descriptor paths come from configuration
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDescriptorRead, err)
	}
	if err := yamlutil.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrDescriptorParse, err)
	}
	return nil
}
