// Package strings provides small string helpers shared by services
package strings

import std "strings"

// Deref returns the value behind p or "" for nil
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// EmptyToNil returns "" if s is all whitespace, otherwise returns s
func EmptyToNil(s string) string {
	if std.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// SQLNull returns nil if s is blank/whitespace, else the original string.
// Useful for query args where NULL is desired for blanks
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}
