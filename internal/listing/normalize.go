package listing

import "strings"

// Normalize lowercases s, trims it and collapses runs of whitespace.
// Punctuation is kept so queries like "c++" or "&" stay literal.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// containsText reports whether any of fields contains the normalized needle.
// An empty needle matches everything.
func containsText(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Normalize(f), needle) {
			return true
		}
	}
	return false
}

// isUnconstrained treats "" and "all" (any case) as no selection.
func isUnconstrained(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}
