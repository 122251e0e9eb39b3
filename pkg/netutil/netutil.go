// Package netutil provides URL helpers used across apiprobe.
package netutil

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeBaseURL trims whitespace and trailing slashes from raw and checks
// that it is an absolute http(s) URL.
func NormalizeBaseURL(raw string) (string, error) {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	if s == "" {
		return "", fmt.Errorf("base url is empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q: missing host", raw)
	}
	return s, nil
}

// SameBaseURL reports whether a and b address the same service root,
// ignoring surrounding whitespace, trailing slashes and scheme/host case.
func SameBaseURL(a, b string) bool {
	return canonical(a) == canonical(b)
}

func canonical(raw string) string {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// JoinPath appends path to base, producing exactly one slash between them.
func JoinPath(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// SplitList flattens comma- or whitespace-separated values into a list,
// dropping empty entries and keeping order.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		}) {
			out = append(out, part)
		}
	}
	return out
}
