package cateringserver

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

func deref[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}
	return *value
}

func isBlankJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseIntField reads an integer sent as a number or a numeric string. It
// reports false for anything else, including fractions.
func parseIntField(raw json.RawMessage) (int, bool) {
	if isBlankJSON(raw) {
		return 0, false
	}
	text := string(bytes.TrimSpace(raw))
	var quoted string
	if err := json.Unmarshal(raw, &quoted); err == nil {
		text = strings.TrimSpace(quoted)
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return value, true
}
