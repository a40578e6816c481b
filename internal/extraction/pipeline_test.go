package extraction

import (
	"context"
	"reflect"
	"testing"
)

const testFiling10K = `ITEM 15. EXHIBITS

EXHIBIT 21
Subsidiaries of the Registrant

Acme Ireland Ltd (Ireland)
Acme Japan KK (Japan)
Acme Finance Corp - Delaware

EXHIBIT 22
SIGNATURES
`

const testFilingDEF14A = `PROXY STATEMENT

DIRECTORS AND EXECUTIVE OFFICERS

Timothy D. Cook, Chief Executive Officer
he has served in senior finance roles since 2013 and previously led global treasury operations across several international markets.
Katherine Adams, General Counsel

EXECUTIVE COMPENSATION

SECURITY OWNERSHIP OF CERTAIN BENEFICIAL OWNERS

the following table sets forth ownership information:

Vanguard Group – 7.32%
Berkshire Hathaway 5.45%

PROPOSAL 1
`

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	pipeline, err := NewPipeline(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return pipeline
}

func TestPipeline_Extract(t *testing.T) {
	pipeline := newTestPipeline(t)

	result, err := pipeline.Extract(context.Background(), testFiling10K, testFilingDEF14A)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	wantSubs := []Subsidiary{
		{Name: "Acme Ireland Ltd", Jurisdiction: "Ireland", Type: "subsidiary"},
		{Name: "Acme Japan KK", Jurisdiction: "Japan", Type: "subsidiary"},
		{Name: "Acme Finance Corp", Jurisdiction: "Delaware", Type: "subsidiary"},
	}
	if !reflect.DeepEqual(result.Subsidiaries, wantSubs) {
		t.Errorf("Subsidiaries = %+v, want %+v", result.Subsidiaries, wantSubs)
	}

	wantDirs := []Director{
		{Name: "Timothy D. Cook", Role: "Chief Executive Officer", Type: "director"},
		{Name: "Katherine Adams", Role: "General Counsel", Type: "director"},
	}
	if !reflect.DeepEqual(result.Directors, wantDirs) {
		t.Errorf("Directors = %+v, want %+v", result.Directors, wantDirs)
	}

	wantOwners := []BeneficialOwner{
		{Name: "Vanguard Group", Ownership: 7.32, Type: "owner"},
		{Name: "Berkshire Hathaway", Ownership: 5.45, Type: "owner"},
	}
	if !reflect.DeepEqual(result.Owners, wantOwners) {
		t.Errorf("Owners = %+v, want %+v", result.Owners, wantOwners)
	}
}

func TestPipeline_ExtractEmptyInputs(t *testing.T) {
	pipeline := newTestPipeline(t)

	result, err := pipeline.Extract(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if result.Subsidiaries == nil || result.Directors == nil || result.Owners == nil {
		t.Fatal("Extract() returned nil record slice for empty input")
	}
	if len(result.Subsidiaries) != 0 || len(result.Directors) != 0 || len(result.Owners) != 0 {
		t.Errorf("Extract() = %+v, want all empty", result)
	}
}

func TestPipeline_SubsidiaryFallback(t *testing.T) {
	pipeline := newTestPipeline(t)

	// The 10-K is non-empty but has no Exhibit 21 section; the DEF 14A
	// carries subsidiary-shaped lines. The fallback runs the subsidiary
	// extractor over the entire DEF 14A text.
	filing10K := "ITEM 1. BUSINESS\nwe make widgets and nothing here looks like a schedule\n"
	filingDEF14A := testFilingDEF14A + "\nAcme Overseas Ltd (Bermuda)\n"

	result, err := pipeline.Extract(context.Background(), filing10K, filingDEF14A)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := NewSubsidiaryExtractor().ExtractSubsidiaries(filingDEF14A)
	if len(want) == 0 {
		t.Fatal("test setup: direct extraction found nothing")
	}
	if !reflect.DeepEqual(result.Subsidiaries, want) {
		t.Errorf("fallback Subsidiaries = %+v, want %+v", result.Subsidiaries, want)
	}
}

func TestPipeline_NoFallbackForEmpty10K(t *testing.T) {
	pipeline := newTestPipeline(t)

	result, err := pipeline.Extract(context.Background(), "", testFilingDEF14A)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(result.Subsidiaries) != 0 {
		t.Errorf("Subsidiaries = %+v, want empty (no fallback for empty 10-K)", result.Subsidiaries)
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	pipeline := newTestPipeline(t)

	first, err := pipeline.Extract(context.Background(), testFiling10K, testFilingDEF14A)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	second, err := pipeline.Extract(context.Background(), testFiling10K, testFilingDEF14A)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs: %+v vs %+v", first, second)
	}
}
