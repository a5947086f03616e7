package excel

import "strings"

// Row is one decoded spreadsheet row. Cells are keyed by column letter
// ("A", "AI", ...) for machine exports, or by trimmed header name for status
// sheets. A missing key means an absent cell.
type Row map[string]string

// Get returns the first non-empty cell among the given keys, trimmed.
func (r Row) Get(keys ...string) string {
	for _, key := range keys {
		if trimmed := strings.TrimSpace(r[key]); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Has reports whether any of the given keys holds a non-empty cell.
func (r Row) Has(keys ...string) bool {
	return r.Get(keys...) != ""
}
