package extraction

import (
	"context"
)

// Record type discriminators emitted in the JSON output.
const (
	TypeSubsidiary = "subsidiary"
	TypeDirector   = "director"
	TypeOwner      = "owner"
)

// Subsidiary is a company listed in an Exhibit 21 subsidiary schedule.
type Subsidiary struct {
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction"`
	Type         string `json:"type"`
}

// Director is a director or executive officer named in a proxy statement.
type Director struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Type string `json:"type"`
}

// BeneficialOwner is an entity reported as holding a stated percentage
// of outstanding shares.
type BeneficialOwner struct {
	Name      string  `json:"name"`
	Ownership float64 `json:"ownership"`
	Type      string  `json:"type"`
}

// Result aggregates the three record sets extracted from a filing pair.
// All slices are non-nil; absent sections yield empty slices.
type Result struct {
	Subsidiaries []Subsidiary      `json:"subsidiaries"`
	Directors    []Director        `json:"directors"`
	Owners       []BeneficialOwner `json:"owners"`
}

// EmptyResult returns a Result with empty, non-nil record slices.
func EmptyResult() Result {
	return Result{
		Subsidiaries: []Subsidiary{},
		Directors:    []Director{},
		Owners:       []BeneficialOwner{},
	}
}

// DocumentExtractor extracts corporate-entity records from a pair of
// filing texts: the 10-K (subsidiary schedule) and the DEF 14A proxy
// statement (directors and beneficial owners).
type DocumentExtractor interface {
	// Extract processes both filings. The heuristic pipeline never
	// returns an error; LLM-backed implementations may.
	Extract(ctx context.Context, filing10K, filingDEF14A string) (Result, error)
}

// SectionMarkers bounds a region of a filing between ordered marker
// patterns. Start markers are tried in priority order; the first one
// that matches anywhere wins. End markers are optional.
type SectionMarkers struct {
	Start    []string `json:"start"`
	End      []string `json:"end,omitempty"`
	MaxChars int      `json:"max_chars"`
}

// SectionMarkerSet holds the marker configuration for the three filing
// sections the pipeline locates.
type SectionMarkerSet struct {
	Subsidiaries SectionMarkers `json:"subsidiaries"`
	Directors    SectionMarkers `json:"directors"`
	Owners       SectionMarkers `json:"owners"`
}

// DefaultMaxSectionChars caps a located section when no end marker
// matches. It also bounds regex scanning cost on adversarial input.
const DefaultMaxSectionChars = 20000

// Config holds configuration for extraction operations.
type Config struct {
	Provider  string                    `koanf:"provider" json:"provider"` // "heuristic", "anthropic", "openai", "disabled"
	Providers map[string]ProviderConfig `koanf:"providers" json:"providers,omitempty"`

	// MaxSectionChars overrides the located-section ceiling. Zero means
	// DefaultMaxSectionChars.
	MaxSectionChars int `koanf:"max_section_chars" json:"max_section_chars"`
}

// ProviderConfig holds LLM provider-specific configuration.
type ProviderConfig struct {
	Model     string `koanf:"model" json:"model,omitempty"`
	APIKey    string `koanf:"api_key" json:"api_key,omitempty"`
	BaseURL   string `koanf:"base_url" json:"base_url,omitempty"`
	MaxTokens int    `koanf:"max_tokens" json:"max_tokens,omitempty"`
	Timeout   int    `koanf:"timeout" json:"timeout,omitempty"` // seconds
}

// DefaultConfig returns a default extraction configuration.
func DefaultConfig() Config {
	return Config{
		Provider:        "heuristic",
		MaxSectionChars: DefaultMaxSectionChars,
	}
}

// DefaultSectionMarkers returns the marker sets for the three sections:
// the Exhibit 21 subsidiary schedule in the 10-K, and the directors and
// beneficial-ownership sections in the DEF 14A.
func DefaultSectionMarkers(maxChars int) SectionMarkerSet {
	if maxChars <= 0 {
		maxChars = DefaultMaxSectionChars
	}
	return SectionMarkerSet{
		Subsidiaries: SectionMarkers{
			Start:    []string{`EXHIBIT\s+21`},
			End:      []string{`EXHIBIT\s+22`, `SIGNATURES`, `ITEM\s+16`},
			MaxChars: maxChars,
		},
		Directors: SectionMarkers{
			Start:    []string{`DIRECTORS`, `EXECUTIVE\s+OFFICERS`, `BOARD\s+MEMBERS`},
			End:      []string{`EXECUTIVE\s+COMPENSATION`, `COMPENSATION\s+DISCUSSION`, `CD&A`},
			MaxChars: maxChars,
		},
		Owners: SectionMarkers{
			Start:    []string{`BENEFICIAL\s+OWNER`, `SECURITY\s+OWNERSHIP`, `PRINCIPAL\s+SHAREHOLDERS`},
			End:      []string{`EXECUTIVE\s+OFFICERS`, `DIRECTORS`, `PROPOSAL`},
			MaxChars: maxChars,
		},
	}
}

// DefaultTitleKeywords returns the ordered title keywords the director
// extractor recognizes. Order matters: the alternation is built in this
// order, so earlier keywords win when several could match.
func DefaultTitleKeywords() []string {
	return []string{
		"Director", "CEO", "President", "Chairman", "CFO", "CTO",
		"Chief Financial Officer", "Chief Executive Officer",
		"General Counsel", "Chief Legal Officer", "Officer",
		"Vice President", "Senior Vice President", "SVP",
	}
}
