package extraction

import (
	"errors"
	"regexp"
)

var errNoStartMarkers = errors.New("section markers: no valid start markers")

// Locator finds a bounded text window between start and end marker
// patterns. Markers are compiled once, case-insensitively, at
// construction; a Locator is immutable and safe for concurrent use.
type Locator struct {
	start    []*regexp.Regexp
	end      []*regexp.Regexp
	maxChars int
}

// NewLocator compiles the marker patterns in m. Patterns that fail to
// compile are skipped. At least one valid start marker is required.
func NewLocator(m SectionMarkers) (*Locator, error) {
	start := compileMarkers(m.Start)
	if len(start) == 0 {
		return nil, errNoStartMarkers
	}

	maxChars := m.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxSectionChars
	}

	return &Locator{
		start:    start,
		end:      compileMarkers(m.End),
		maxChars: maxChars,
	}, nil
}

// Locate returns the section of text bounded by the locator's markers,
// or "" when no start marker matches.
//
// Start markers are tried in priority order: the first marker that
// matches anywhere in the text wins, regardless of match position. From
// that match's start offset, end markers are tried in order against the
// remainder of the text; the first end marker found bounds the section.
// With no end markers, or none matching, the section is truncated at
// maxChars.
func (l *Locator) Locate(text string) string {
	for _, re := range l.start {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		start := loc[0]
		rest := text[start:]

		for _, endRE := range l.end {
			if endLoc := endRE.FindStringIndex(rest); endLoc != nil {
				return rest[:endLoc[0]]
			}
		}

		return truncateRunes(rest, l.maxChars)
	}
	return ""
}

// truncateRunes caps s at n runes. Counting runes rather than bytes
// keeps a multi-byte character at the boundary intact.
func truncateRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// compileMarkers compiles patterns case-insensitively, skipping any
// that fail to compile.
func compileMarkers(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			// Skip invalid patterns
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}
