package ai

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	slugPattern    = regexp.MustCompile(`\$([a-z0-9_-]+)\$`)
	wordRegex      = regexp.MustCompile(`[a-z0-9_-]+`)
	ErrParseFailed = errors.New("parse_failed")
)

// ParseCategory extracts a category slug from a model answer. It first tries the strict $slug$ envelope,
// then the whole trimmed answer, and falls back to the first word that is a known slug (e.g. "Category: dairy.").
func ParseCategory(text string, slugs []string) (string, error) {
	known := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		known[s] = struct{}{}
	}
	lower := strings.ToLower(text)

	// strict
	if m := slugPattern.FindStringSubmatch(lower); len(m) >= 2 {
		if _, ok := known[m[1]]; ok {
			return m[1], nil
		}
		return "", fmt.Errorf("%w: unknown category %q", ErrParseFailed, m[1])
	}
	whole := strings.Trim(strings.TrimSpace(lower), "\"'`.")
	if _, ok := known[whole]; ok {
		return whole, nil
	}
	// fallback: first known word
	for _, w := range wordRegex.FindAllString(lower, -1) {
		if _, ok := known[w]; ok {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: no category found", ErrParseFailed)
}
