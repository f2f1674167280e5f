package importer

import (
	"strings"
)

type Record struct {
	RowNumber int
	Values    map[string]string
}

// Get returns the first non-missing column among keys, trimmed. Keys are
// matched against normalized headers, so "Workout Date" and "workout_date"
// are the same column.
func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		normalized := normalizeHeader(key)
		if value, ok := r.Values[normalized]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// IsBlank reports whether every cell of the record is empty.
func (r Record) IsBlank() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func buildRecord(normalizedHeaders []string, row []string, rowNumber int) Record {
	values := make(map[string]string, len(normalizedHeaders))
	for i := range normalizedHeaders {
		if i < len(row) {
			values[normalizedHeaders[i]] = row[i]
		} else {
			values[normalizedHeaders[i]] = ""
		}
	}
	return Record{RowNumber: rowNumber, Values: values}
}

func normalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		normalized[i] = normalizeHeader(header)
	}
	return normalized
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}
