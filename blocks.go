package pressmill

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
)

// Built-in custom block types. Each type T is delimited by \TBegin and \TEnd
// markers in markdown source. The set is fixed at process start; per-format
// behavior is expressed through renderer overrides, never by growing the
// grammar at runtime.
var builtinBlockTypes = []string{
	"layout",
	"page",
	"panel",
	"example",
	"figure",
	"card",
	"tablewrap",
	"section",
}

// HeadingBlockType is the distinguished block-renderer key for headings.
const HeadingBlockType = "heading"

// isBlockType reports whether name is a registered custom block type.
func isBlockType(name string) bool {
	for _, t := range builtinBlockTypes {
		if t == name {
			return true
		}
	}
	return false
}

// Block is the lexical token for one custom block occurrence. It is created
// while tokenizing a document, consumed while rendering that same document,
// and discarded afterward.
type Block struct {
	// Type is the block type name, or "heading" for headings.
	Type string

	// Raw is the raw attribute text following the begin marker, if any.
	Raw string

	// Attrs is the parsed attribute tag map. Values are strings, numbers
	// (float64), or lists, as decoded from the inline JSON object.
	Attrs map[string]any

	// Level and Text are set for headings only.
	Level int
	Text  string

	// dataAttrs caches the rendered data-* attribute string, computed once
	// at parse time.
	dataAttrs string
}

// newBlock parses the attribute tag text and builds the token. A malformed
// attribute object is non-fatal: the caller receives the block with empty
// attributes plus the parse error to log as a warning.
func newBlock(blockType string, rawAttrs string) (*Block, error) {
	b := &Block{Type: blockType, Raw: rawAttrs}
	attrs, err := parseAttrTags(rawAttrs)
	b.Attrs = attrs
	b.dataAttrs = buildDataAttrs(attrs)
	return b, err
}

// parseAttrTags decodes the inline JSON-like attribute object into a flat
// key/value map. Empty input yields an empty map.
func parseAttrTags(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return map[string]any{}, fmt.Errorf("malformed attribute tag %q: %w", raw, err)
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	return attrs, nil
}

// buildDataAttrs renders every data-* key into an HTML attribute string.
// Keys are sorted so the result is deterministic.
func buildDataAttrs(attrs map[string]any) string {
	var keys []string
	for k := range attrs {
		if strings.HasPrefix(k, "data-") {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(attrValueString(attrs[k])))
		sb.WriteByte('"')
	}
	return sb.String()
}

// attrValueString flattens an attribute value for HTML emission. Lists join
// with spaces; numbers drop the trailing ".0" JSON decoding introduces.
func attrValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = attrValueString(item)
		}
		return strings.Join(parts, " ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// DataAttrs returns the cached data-* attribute string, including a leading
// space when non-empty, ready to splice into a tag.
func (b *Block) DataAttrs() string {
	return b.dataAttrs
}

// StringAttr returns a string-valued attribute, or "" when absent.
func (b *Block) StringAttr(key string) string {
	if v, ok := b.Attrs[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Title returns the block's title tag, if any.
func (b *Block) Title() string { return b.StringAttr("title") }

// ID returns the block's id tag, if any.
func (b *Block) ID() string { return b.StringAttr("id") }

// Class returns the block's class tag, if any.
func (b *Block) Class() string { return b.StringAttr("class") }
