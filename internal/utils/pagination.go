// Package utils holds small domain-free helpers shared across layers.
package utils

import "strconv"

// AtoiDefault parses s as an int, falling back to def when s is empty
// or malformed. Handlers use it for page and page_size query params.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
