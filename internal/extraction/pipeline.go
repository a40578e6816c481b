package extraction

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Pipeline runs the three locate+extract passes over a 10-K and a
// DEF 14A and assembles the Result. It holds only compiled patterns
// and a logger; every extraction is a pure function of the input text,
// so a single Pipeline is safe for concurrent requests.
type Pipeline struct {
	subsidiarySection *Locator
	directorSection   *Locator
	ownerSection      *Locator

	subsidiaries *SubsidiaryExtractor
	directors    *DirectorExtractor
	owners       *OwnerExtractor

	logger *zap.Logger
}

// NewPipeline creates the heuristic extraction pipeline with the
// default marker sets, honoring cfg.MaxSectionChars.
func NewPipeline(cfg Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	markers := DefaultSectionMarkers(cfg.MaxSectionChars)

	subsidiarySection, err := NewLocator(markers.Subsidiaries)
	if err != nil {
		return nil, fmt.Errorf("subsidiary section: %w", err)
	}
	directorSection, err := NewLocator(markers.Directors)
	if err != nil {
		return nil, fmt.Errorf("director section: %w", err)
	}
	ownerSection, err := NewLocator(markers.Owners)
	if err != nil {
		return nil, fmt.Errorf("owner section: %w", err)
	}

	return &Pipeline{
		subsidiarySection: subsidiarySection,
		directorSection:   directorSection,
		ownerSection:      ownerSection,
		subsidiaries:      NewSubsidiaryExtractor(),
		directors:         NewDirectorExtractor(nil),
		owners:            NewOwnerExtractor(),
		logger:            logger.Named("extraction"),
	}, nil
}

// Extract processes both filings and returns the assembled Result.
//
// The subsidiary schedule is located in the 10-K, the directors and
// beneficial-ownership sections in the DEF 14A. If the 10-K yields no
// subsidiaries but its text is non-empty, the subsidiary extractor is
// re-run over the entire DEF 14A text: some filers attach the schedule
// to the proxy statement instead.
//
// Extract never fails; missing or unparsable input degrades to empty
// record sets. The error return exists only to satisfy
// DocumentExtractor and is always nil.
func (p *Pipeline) Extract(_ context.Context, filing10K, filingDEF14A string) (Result, error) {
	result := EmptyResult()

	if section := p.subsidiarySection.Locate(filing10K); section != "" {
		result.Subsidiaries = p.subsidiaries.ExtractSubsidiaries(section)
	}
	if section := p.directorSection.Locate(filingDEF14A); section != "" {
		result.Directors = p.directors.ExtractDirectors(section)
	}
	if section := p.ownerSection.Locate(filingDEF14A); section != "" {
		result.Owners = p.owners.ExtractOwners(section)
	}

	if len(result.Subsidiaries) == 0 && filing10K != "" {
		result.Subsidiaries = p.subsidiaries.ExtractSubsidiaries(filingDEF14A)
		p.logger.Debug("subsidiary fallback applied",
			zap.Int("subsidiaries", len(result.Subsidiaries)))
	}

	p.logger.Debug("extraction complete",
		zap.Int("subsidiaries", len(result.Subsidiaries)),
		zap.Int("directors", len(result.Directors)),
		zap.Int("owners", len(result.Owners)))

	return result, nil
}

// Ensure Pipeline implements DocumentExtractor.
var _ DocumentExtractor = (*Pipeline)(nil)
