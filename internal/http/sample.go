package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/filingd/internal/extraction"
	"github.com/fyrsmithlabs/filingd/internal/scoring"
)

// SampleResponse is the response body for GET /api/v1/sample.
type SampleResponse struct {
	Subsidiaries []extraction.Subsidiary      `json:"subsidiaries"`
	Directors    []extraction.Director        `json:"directors"`
	Owners       []extraction.BeneficialOwner `json:"owners"`
	Metrics      scoring.Metrics              `json:"metrics"`
}

// handleSample returns a canned analysis for demos and client testing.
func (s *Server) handleSample(c echo.Context) error {
	return c.JSON(http.StatusOK, SampleResponse{
		Subsidiaries: []extraction.Subsidiary{
			{Name: "Apple Inc.", Jurisdiction: "US", Type: "parent"},
			{Name: "Apple Ireland Limited", Jurisdiction: "Ireland", Type: extraction.TypeSubsidiary},
			{Name: "Apple Sales International", Jurisdiction: "Ireland", Type: extraction.TypeSubsidiary},
			{Name: "Apple Japan Limited", Jurisdiction: "Japan", Type: extraction.TypeSubsidiary},
			{Name: "Apple Operations Limited", Jurisdiction: "Ireland", Type: extraction.TypeSubsidiary},
			{Name: "Apple Canada Inc.", Jurisdiction: "Canada", Type: extraction.TypeSubsidiary},
			{Name: "Apple Pty Ltd", Jurisdiction: "Australia", Type: extraction.TypeSubsidiary},
		},
		Directors: []extraction.Director{
			{Name: "Luca Maestri", Role: "CFO", Type: extraction.TypeDirector},
			{Name: "Craig Federighi", Role: "SVP Software Engineering", Type: extraction.TypeDirector},
			{Name: "Katherine Adams", Role: "SVP General Counsel", Type: extraction.TypeDirector},
			{Name: "Deirdre O'Brien", Role: "SVP Retail", Type: extraction.TypeDirector},
		},
		Owners: []extraction.BeneficialOwner{
			{Name: "Berkshire Hathaway", Ownership: 5.45, Type: extraction.TypeOwner},
			{Name: "Vanguard Group", Ownership: 7.32, Type: extraction.TypeOwner},
			{Name: "BlackRock", Ownership: 6.12, Type: extraction.TypeOwner},
		},
		Metrics: scoring.Metrics{
			TotalSubsidiaries:      7,
			TotalDirectors:         4,
			TotalOwners:            3,
			OwnershipConcentration: 18.89,
			Countries:              6,
			ComplexityScore:        6.8,
			GovernanceScore:        8.1,
			RiskLevel:              scoring.RiskMedium,
		},
	})
}
