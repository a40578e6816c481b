// Package scoring derives summary metrics from extraction results.
//
// All computations are pure functions over an extraction.Result: counts,
// a distinct-jurisdiction tally, two heuristic 0-10 scores and an
// ownership-based risk level. Two different "top 3" readings of the
// owner list are in play: ownership concentration sums the first three
// owners in arrival order, while the risk level sums the top three by
// ownership value. Both are exposed as helpers so callers can pick the
// semantics they need.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/filingd/internal/extraction"
)

// RiskLevel classifies aggregate ownership concentration.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Risk thresholds applied to the summed top-3-by-value ownership.
const (
	riskHighThreshold   = 25.0
	riskMediumThreshold = 15.0
)

// Metrics is a read-only snapshot derived from one extraction result.
type Metrics struct {
	TotalSubsidiaries      int       `json:"total_subsidiaries"`
	TotalDirectors         int       `json:"total_directors"`
	TotalOwners            int       `json:"total_owners"`
	OwnershipConcentration float64   `json:"ownership_concentration"`
	Countries              int       `json:"countries"`
	ComplexityScore        float64   `json:"complexity_score"`
	GovernanceScore        float64   `json:"governance_score"`
	RiskLevel              RiskLevel `json:"risk_level"`
}

// Compute derives metrics from an extraction result.
func Compute(result extraction.Result) Metrics {
	return Metrics{
		TotalSubsidiaries:      len(result.Subsidiaries),
		TotalDirectors:         len(result.Directors),
		TotalOwners:            len(result.Owners),
		OwnershipConcentration: TopOwnershipByOrder(result.Owners, 3),
		Countries:              distinctJurisdictions(result.Subsidiaries),
		ComplexityScore:        complexityScore(result.Subsidiaries),
		GovernanceScore:        governanceScore(result.Directors),
		RiskLevel:              riskLevel(result.Owners),
	}
}

// TopOwnershipByOrder sums the ownership of the first n owners in
// arrival order.
func TopOwnershipByOrder(owners []extraction.BeneficialOwner, n int) float64 {
	var total float64
	for i, o := range owners {
		if i >= n {
			break
		}
		total += o.Ownership
	}
	return total
}

// TopOwnershipByValue sums the ownership of the n largest owners by
// ownership value.
func TopOwnershipByValue(owners []extraction.BeneficialOwner, n int) float64 {
	sorted := make([]extraction.BeneficialOwner, len(owners))
	copy(sorted, owners)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Ownership > sorted[j].Ownership
	})
	return TopOwnershipByOrder(sorted, n)
}

// distinctJurisdictions counts distinct jurisdiction strings,
// case-sensitively. An empty jurisdiction counts as one distinct value.
func distinctJurisdictions(subs []extraction.Subsidiary) int {
	seen := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		seen[s.Jurisdiction] = struct{}{}
	}
	return len(seen)
}

// complexityScore rates corporate structure complexity on a 0-10 scale:
// subsidiary count, jurisdiction spread and offshore presence each
// contribute a capped term.
func complexityScore(subs []extraction.Subsidiary) float64 {
	var offshore int
	for _, s := range subs {
		switch strings.ToLower(s.Jurisdiction) {
		case "us", "usa":
		default:
			offshore++
		}
	}

	score := math.Min(float64(len(subs))/2, 4)
	score += math.Min(float64(distinctJurisdictions(subs))/2, 3)
	score += math.Min(float64(offshore)/2, 3)

	return round1(math.Min(score, 10))
}

// governanceScore rates board composition on a 0-10 scale: a base of 5
// plus capped terms for board size and role diversity.
func governanceScore(dirs []extraction.Director) float64 {
	roles := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		roles[strings.ToLower(d.Role)] = struct{}{}
	}

	score := 5 + math.Min(float64(len(dirs))/3, 3)
	score += math.Min(float64(len(roles))/4, 2)

	return round1(math.Min(score, 10))
}

// riskLevel classifies the summed top-3-by-value ownership. With no
// owners there is nothing to classify, so the level defaults to MEDIUM.
func riskLevel(owners []extraction.BeneficialOwner) RiskLevel {
	if len(owners) == 0 {
		return RiskMedium
	}

	top := TopOwnershipByValue(owners, 3)
	switch {
	case top > riskHighThreshold:
		return RiskHigh
	case top > riskMediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
