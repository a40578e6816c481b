package extraction

import (
	"regexp"
	"strings"
)

// nameRunRE matches a capitalized multi-word name run: a first name,
// an optional middle initial, and one or more further capitalized
// words. Case-sensitive: the name shape itself must be capitalized.
var nameRunRE = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z]\.?)?(?:\s+[A-Z][a-z]+)+)`)

// nameBackScanChars is how far before a title match the extractor
// re-scans for the actual name run. Recovers the name when the title
// appears far from where the outer pattern anchored.
const nameBackScanChars = 100

// DirectorExtractor extracts director and officer records from a
// directors/executive-officers text window. Immutable after
// construction; safe for concurrent use.
type DirectorExtractor struct {
	pattern *regexp.Regexp
}

// NewDirectorExtractor builds the extractor's line pattern from the
// ordered title keyword list. Empty keywords fall back to
// DefaultTitleKeywords.
func NewDirectorExtractor(titleKeywords []string) *DirectorExtractor {
	if len(titleKeywords) == 0 {
		titleKeywords = DefaultTitleKeywords()
	}

	// Name shape is case-sensitive; only the title alternation is
	// case-insensitive.
	quoted := make([]string, len(titleKeywords))
	for i, kw := range titleKeywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	pattern := `(?m)^[A-Z][a-z]+(?:\s+[A-Z]\.?)?(?:\s+[A-Z][a-z]+)+.*?((?i:` + strings.Join(quoted, "|") + `))`

	return &DirectorExtractor{
		pattern: regexp.MustCompile(pattern),
	}
}

// ExtractDirectors finds lines that open with a capitalized name run
// and eventually mention a title keyword, then re-scans up to 100
// characters before the match for the name itself. Records are
// deduplicated case-insensitively in first-match order; names with
// fewer than two space-separated tokens are rejected.
func (e *DirectorExtractor) ExtractDirectors(text string) []Director {
	directors := []Director{}
	seen := make(map[string]struct{})

	for _, idx := range e.pattern.FindAllStringSubmatchIndex(text, -1) {
		matchStart, matchEnd := idx[0], idx[1]
		role := strings.TrimSpace(text[idx[2]:idx[3]])

		scanStart := matchStart - nameBackScanChars
		if scanStart < 0 {
			scanStart = 0
		}
		window := text[scanStart:matchEnd]

		nameMatch := nameRunRE.FindString(window)
		if nameMatch == "" {
			continue
		}
		name := strings.TrimSpace(nameMatch)

		if len(strings.Fields(name)) < 2 {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		directors = append(directors, Director{
			Name: name,
			Role: role,
			Type: TypeDirector,
		})
	}

	return directors
}
