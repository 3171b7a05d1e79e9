package pressmill

import (
	"fmt"
	"sort"
	"strings"
)

// ModelReport formats a human-readable summary of the loaded resource model
// for the check command: every format with its version, compatibility range,
// and export kinds, then every project with its required formats and
// languages.
func ModelReport(m *Model) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "formats (%d):\n", len(m.Formats))
	for _, f := range m.Formats {
		kinds := make([]string, 0, len(f.ExportProfiles))
		for kind := range f.ExportProfiles {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		fmt.Fprintf(&sb, "  %s %s (compat %s) exports: %s\n",
			f.Name, f.Version, f.Compatibility, strings.Join(kinds, ", "))
	}

	fmt.Fprintf(&sb, "projects (%d):\n", len(m.Projects))
	for _, p := range m.Projects {
		fmt.Fprintf(&sb, "  %s %s\n", p.Name, p.Version)
		for _, req := range p.RequiredFormats {
			fmt.Fprintf(&sb, "    requires %s %s languages: %s\n",
				req.Format, req.Range, strings.Join(req.Languages, ", "))
		}
	}
	return sb.String()
}
