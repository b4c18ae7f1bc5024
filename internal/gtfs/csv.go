package gtfs

import (
	"strings"
)

// ParseRecord splits one comma-separated line into fields. Double quotes delimit
// fields that may contain commas, and a doubled quote inside a quoted field is a
// literal quote. An unterminated quote swallows the rest of the line.
func ParseRecord(line string) []string {
	fields := make([]string, 0, 8)
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes && c == '"':
			if i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuotes = false
			}
		case inQuotes:
			field.WriteByte(c)
		case c == '"':
			inQuotes = true
		case c == ',':
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	return append(fields, field.String())
}

const utf8BOM = "\ufeff"

// header maps column names to their position in a table's rows.
type header map[string]int

func newHeader(fields []string) header {
	h := make(header, len(fields))
	for i, name := range fields {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h
}

// get returns the trimmed value of column name in row, or "" if the column or cell is missing.
func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) has(name string) bool {
	_, ok := h[name]
	return ok
}
