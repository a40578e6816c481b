package extraction

import (
	"regexp"
	"strings"
)

// whitespaceRE collapses runs of whitespace inside captured names.
var whitespaceRE = regexp.MustCompile(`\s+`)

// subsidiaryPatterns are the ordered per-line pattern forms for an
// Exhibit 21 schedule: "Name (Jurisdiction)" / "Name - Jurisdiction"
// followed by "Name, Jurisdiction". Group 1 is the company name, group
// 2 the jurisdiction (a capitalized word, optionally followed by a
// two-letter state abbreviation). Name length is capped in the pattern
// to bound scanning cost. Intra-name whitespace is space/tab only so a
// name never spans lines; otherwise a schedule header line would be
// absorbed into the first record's name.
var subsidiaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*([A-Z][A-Za-z0-9\-,&. \t]{2,90}?)[ \t]*[(\-–—][ \t]*([A-Z][a-z]+(?:[ \t]+[A-Z]{2})?)[ \t]*\)?`),
	regexp.MustCompile(`(?m)^[ \t]*([A-Z][A-Za-z0-9\-,&. \t]{2,90}?),[ \t]+([A-Z][a-z]+(?:[ \t]+[A-Z]{2})?)`),
}

// SubsidiaryExtractor extracts subsidiary records from an Exhibit 21
// text window. It is a pure function of its input and safe for
// concurrent use.
type SubsidiaryExtractor struct{}

// NewSubsidiaryExtractor creates a subsidiary extractor.
func NewSubsidiaryExtractor() *SubsidiaryExtractor {
	return &SubsidiaryExtractor{}
}

// ExtractSubsidiaries applies the ordered pattern forms to text and
// returns deduplicated subsidiary records in first-match order. Names
// are whitespace-collapsed; names of length <= 2 are discarded; a name
// already seen (case-insensitively) keeps its first textual form.
func (e *SubsidiaryExtractor) ExtractSubsidiaries(text string) []Subsidiary {
	subsidiaries := []Subsidiary{}
	seen := make(map[string]struct{})

	for _, re := range subsidiaryPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := normalizeName(m[1])
			jurisdiction := strings.TrimSpace(m[2])

			if len(name) <= 2 {
				continue
			}
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			subsidiaries = append(subsidiaries, Subsidiary{
				Name:         name,
				Jurisdiction: jurisdiction,
				Type:         TypeSubsidiary,
			})
		}
	}

	return subsidiaries
}

// normalizeName trims and collapses internal whitespace to single
// spaces.
func normalizeName(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}
