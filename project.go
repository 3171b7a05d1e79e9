package pressmill

import (
	"github.com/Masterminds/semver/v3"
)

// FormatRequirement declares one format a project supports, the version
// range it accepts, and the languages its content exists in for that format.
type FormatRequirement struct {
	Format    string
	Range     *semver.Constraints
	Languages []string
}

// Project is a named, versioned content set. Like Format it is immutable
// after loading.
type Project struct {
	Name            string
	Version         *semver.Version
	SourceRoot      string
	RequiredFormats []FormatRequirement
	Hooks           DOMHooks
}

// Requires returns the requirement entry for the named format, or nil when
// the project does not list it.
func (p *Project) Requires(format string) *FormatRequirement {
	for i := range p.RequiredFormats {
		if p.RequiredFormats[i].Format == format {
			return &p.RequiredFormats[i]
		}
	}
	return nil
}

// LanguagesFor returns the languages the project declares for a format.
func (p *Project) LanguagesFor(format string) []string {
	if req := p.Requires(format); req != nil {
		return req.Languages
	}
	return nil
}

// Model is the loaded resource model: every valid format and project, in
// load order. It is built once by LoadModel and read-only afterwards.
type Model struct {
	Formats  []*Format
	Projects []*Project
}

// Format returns the loaded format with the given name, or nil.
func (m *Model) Format(name string) *Format {
	for _, f := range m.Formats {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Project returns the loaded project with the given name, or nil.
func (m *Model) Project(name string) *Project {
	for _, p := range m.Projects {
		if p.Name == name {
			return p
		}
	}
	return nil
}
