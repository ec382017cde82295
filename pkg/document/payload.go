package document

import "strings"

// Payload holds the fields of a custom type node. Accessors report a wrong
// shape the same way as a missing field.
type Payload map[string]any

// String returns the trimmed string stored under key.
func (p Payload) String(key string) (string, bool) {
	value, ok := p[key].(string)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// Raw returns the string under key without trimming. Blank values count as
// absent.
func (p Payload) Raw(key string) (string, bool) {
	value, ok := p[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// StringOr returns the string under key or fallback when absent.
func (p Payload) StringOr(key, fallback string) string {
	if value, ok := p.String(key); ok {
		return value
	}
	return fallback
}

// Bool returns the boolean stored under key.
func (p Payload) Bool(key string) bool {
	value, _ := p[key].(bool)
	return value
}

// Map returns the nested object stored under key.
func (p Payload) Map(key string) (Payload, bool) {
	switch value := p[key].(type) {
	case map[string]any:
		return Payload(value), true
	case Payload:
		return value, true
	default:
		return nil, false
	}
}

// Slice returns the array stored under key.
func (p Payload) Slice(key string) ([]any, bool) {
	switch value := p[key].(type) {
	case []any:
		return value, true
	case []string:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

// Strings returns the string items of the array under key. Non-string items
// are dropped.
func (p Payload) Strings(key string) ([]string, bool) {
	items, ok := p.Slice(key)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out, true
}

// TableRow is one row of a table payload.
type TableRow struct {
	Cells    []string
	IsHeader bool
}

// TableRows decodes the {rows: [{cells, isHeader}]} table shape. It fails
// when rows is missing or any row is not an object.
func (p Payload) TableRows() ([]TableRow, bool) {
	items, ok := p.Slice("rows")
	if !ok {
		return nil, false
	}
	rows := make([]TableRow, 0, len(items))
	for _, item := range items {
		var raw Payload
		switch value := item.(type) {
		case map[string]any:
			raw = Payload(value)
		case Payload:
			raw = value
		default:
			return nil, false
		}
		cells, _ := raw.Strings("cells")
		rows = append(rows, TableRow{Cells: cells, IsHeader: raw.Bool("isHeader")})
	}
	return rows, true
}
