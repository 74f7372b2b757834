package utils

import "strings"

// NormalizeName lowercases and trims a user-supplied option value such as a
// provider or policy name.
func NormalizeName(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// ParsePairs parses "key=value" items separated by sep. Blank items, items
// without "=" and items with an empty key are skipped. Keys are normalized
// with NormalizeName; values are trimmed.
func ParsePairs(s, sep string) map[string]string {
	out := make(map[string]string)
	for _, item := range strings.Split(s, sep) {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		key = NormalizeName(key)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return out
}
