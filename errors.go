package pressmill

import "errors"

// Sentinel errors for resource loading and validation.
var (
	ErrMissingVersion    = errors.New("descriptor is missing a version")
	ErrInvalidVersion    = errors.New("descriptor version is not valid semver")
	ErrMissingRange      = errors.New("format is missing a compatibility range")
	ErrInvalidRange      = errors.New("version range is not a valid semver range")
	ErrIncompatibleRange = errors.New("compatibility range rejects the host tool version")
	ErrMissingExports    = errors.New("format is missing an export profile table")
	ErrNoRequiredFormats = errors.New("project declares no required formats")
	ErrUnknownFormat     = errors.New("project requires a format that is not loaded")
	ErrVersionConflict   = errors.New("format version does not satisfy the required range")
	ErrDescriptorRead    = errors.New("failed to read descriptor")
	ErrDescriptorParse   = errors.New("failed to parse descriptor")
)

// Sentinel errors for cascading resolution.
var ErrNotResolved = errors.New("no tier resolves the requested path")

// Sentinel errors for the markdown extension engine.
var (
	ErrUnterminatedBlock = errors.New("custom block is missing its end marker")
	ErrBlockDepth        = errors.New("custom block nesting exceeds the depth limit")
	ErrRenderFailed      = errors.New("markdown rendering failed")
)

// Sentinel errors for jobs and selections.
var (
	ErrEmptyPageRange   = errors.New("page range cannot be empty")
	ErrInvalidPageRange = errors.New("invalid page range")
	ErrInvalidLanguage  = errors.New("invalid language tag")
	ErrInvalidSelector  = errors.New("invalid file selector")
	ErrUnknownExport    = errors.New("unknown export kind")
)

// Sentinel errors for document builds and exports.
var (
	ErrMissingFragment = errors.New("collection references a fragment that does not resolve")
	ErrManifestParse   = errors.New("failed to parse collection manifest")
	ErrManifestInvalid = errors.New("collection manifest is invalid")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrPDFCapture      = errors.New("PDF capture failed")
	ErrImageCapture    = errors.New("image capture failed")
	ErrZipExport       = errors.New("zip export failed")
)
