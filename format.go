package pressmill

import (
	"github.com/Masterminds/semver/v3"
)

// ExportKind identifies an export artifact family.
type ExportKind string

// Export kinds a format may declare profiles for.
const (
	ExportPDF ExportKind = "pdf"
	ExportPNG ExportKind = "png"
	ExportJPG ExportKind = "jpg"
	ExportZip ExportKind = "zip"
)

// KnownExportKinds lists every export kind the tool understands.
var KnownExportKinds = []ExportKind{ExportPDF, ExportPNG, ExportJPG, ExportZip}

// IsKnownExportKind reports whether k names a supported export kind.
func IsKnownExportKind(k ExportKind) bool {
	switch k {
	case ExportPDF, ExportPNG, ExportJPG, ExportZip:
		return true
	}
	return false
}

// Default page geometry in inches (US Letter) used when a profile leaves
// dimensions unset.
const (
	defaultPaperWidth  = 8.5
	defaultPaperHeight = 11
	defaultMargin      = 0.5
)

// ExportProfile holds renderer options for one export kind.
// Zero values fall back to defaults at capture time.
type ExportProfile struct {
	PaperWidth   float64 `yaml:"paperWidth"`   // inches
	PaperHeight  float64 `yaml:"paperHeight"`  // inches
	Margin       float64 `yaml:"margin"`       // inches, all sides
	Landscape    bool    `yaml:"landscape"`    // pdf only
	Scale        float64 `yaml:"scale"`        // capture scale factor
	Quality      int     `yaml:"quality"`      // jpg quality 1-100
	PageSelector string  `yaml:"pageSelector"` // CSS selector for per-page image capture
}

// Format is a named, versioned presentation package. It is immutable after
// loading: the loader populates every field once and nothing mutates it
// afterwards, so concurrent jobs may share a Format freely.
type Format struct {
	Name           string
	Version        *semver.Version
	Compatibility  *semver.Constraints
	SourceRoot     string
	ExportProfiles map[ExportKind]ExportProfile
	Hooks          HookTable
	BlockRenderers map[string]BlockRenderer
}

// SupportsExport reports whether the format declares a profile for kind.
func (f *Format) SupportsExport(kind ExportKind) bool {
	_, ok := f.ExportProfiles[kind]
	return ok
}

// ExportProfile returns the declared profile for kind with defaults applied.
func (f *Format) ExportProfile(kind ExportKind) ExportProfile {
	p := f.ExportProfiles[kind]
	if p.PaperWidth == 0 {
		p.PaperWidth = defaultPaperWidth
	}
	if p.PaperHeight == 0 {
		p.PaperHeight = defaultPaperHeight
	}
	if p.Margin == 0 {
		p.Margin = defaultMargin
	}
	if p.Scale == 0 {
		p.Scale = 1
	}
	return p
}

// BlockRenderer returns the format's override renderer for a block type,
// or nil when the engine default applies.
func (f *Format) BlockRenderer(blockType string) BlockRenderer {
	if f == nil || f.BlockRenderers == nil {
		return nil
	}
	return f.BlockRenderers[blockType]
}
