package util

import "strings"

// NormalizeKey lowercases and trims a string for use as a consistent lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// foldName lowercases s, collapses runs of whitespace and treats "ё" as
// "е", the way municipality names are typed by hand.
func foldName(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return strings.ReplaceAll(s, "ё", "е")
}

// ResolveName returns the entry of names that s refers to. An exact match
// wins; otherwise s must match exactly one name after folding case,
// whitespace and "ё". The second result is false when nothing or more
// than one name matches.
func ResolveName(names []string, s string) (string, bool) {
	for _, n := range names {
		if n == s {
			return n, true
		}
	}

	want := foldName(s)
	match, found := "", false
	for _, n := range names {
		if foldName(n) != want {
			continue
		}
		if found {
			return "", false
		}
		match, found = n, true
	}
	return match, found
}
