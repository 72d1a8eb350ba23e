// Package validation collects per-field form errors at the request edge.
package validation

import (
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

// Errors maps a request field to the first message recorded for it.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	if _, ok := e[field]; ok {
		return
	}
	e[field] = message
}

// Err returns nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Len counts runes of the trimmed value.
func Len(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func MinLen(e Errors, field, value string, n int, message string) {
	if Len(value) < n {
		e.Add(field, message)
	}
}

func MaxLen(e Errors, field, value string, n int, message string) {
	if Len(value) > n {
		e.Add(field, message)
	}
}

func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func OneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
