package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

// Ownership percentages outside this exclusive range are noise: sub-0.1
// values are footnote artifacts, 100 and above are not holdings.
const (
	minOwnershipPct = 0.1
	maxOwnershipPct = 100
)

// ownerPatterns are the ordered pattern forms for beneficial-ownership
// tables: a name run followed by a percentage, either separated by a
// dash/colon before the % sign, or followed by "percent"/"%". Group 1
// is the holder name, group 2 the percentage.
var ownerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][A-Za-z0-9\-,&.\s]{2,80}?)\s+(?:—|–|-|:)?\s*(\d+(?:\.\d+)?)\s*%`),
	regexp.MustCompile(`([A-Z][A-Za-z0-9\-,&.\s]{2,80}?)\s+(\d+(?:\.\d+)?)\s*(?:percent|%)`),
}

// OwnerExtractor extracts beneficial-owner records from a
// security-ownership text window. Pure function of its input; safe for
// concurrent use.
type OwnerExtractor struct{}

// NewOwnerExtractor creates a beneficial-owner extractor.
func NewOwnerExtractor() *OwnerExtractor {
	return &OwnerExtractor{}
}

// ExtractOwners applies the ordered pattern forms to text and returns
// deduplicated owner records in first-match order. Captured names are
// whitespace-collapsed with trailing periods and commas stripped.
// Candidates are silently skipped when the percentage fails to parse,
// lies outside (0.1, 100), the normalized name is 3 characters or
// shorter, or the name was already seen case-insensitively.
func (e *OwnerExtractor) ExtractOwners(text string) []BeneficialOwner {
	owners := []BeneficialOwner{}
	seen := make(map[string]struct{})

	for _, re := range ownerPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimRight(normalizeName(m[1]), ".,")

			ownership, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
			if err != nil {
				// ParseSkip: drop the candidate, keep scanning.
				continue
			}

			if ownership <= minOwnershipPct || ownership >= maxOwnershipPct {
				continue
			}
			if len(name) <= 3 {
				continue
			}
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			owners = append(owners, BeneficialOwner{
				Name:      name,
				Ownership: ownership,
				Type:      TypeOwner,
			})
		}
	}

	return owners
}
