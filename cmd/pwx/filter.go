package main

import (
	"strings"

	"github.com/equalsraf/pwx/pws3"
)

// keywordMatches reports whether any field of rec fuzzily contains
// keyword: a case-insensitive substring match against title, group,
// username, and URL. Password and notes are intentionally excluded from
// search so a keyword typed on a shared terminal does not echo secrets
// back in a listing.
func keywordMatches(rec pws3.Record, keyword string) bool {
	if keyword == "" {
		return true
	}
	for _, f := range rec {
		switch f.Type {
		case pws3.TypeTitle, pws3.TypeGroup, pws3.TypeUsername, pws3.TypeURL:
			if fuzzyContains(string(f.Value), keyword) {
				return true
			}
		}
	}
	return false
}

func fuzzyContains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// fieldValue returns the first field of the given type in rec, or "" if
// absent.
func fieldValue(rec pws3.Record, typ byte) string {
	for _, f := range rec {
		if f.Type == typ {
			return f.String()
		}
	}
	return ""
}
