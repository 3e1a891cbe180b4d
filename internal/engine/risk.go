package engine

import (
	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

// Risk scoring: a bounded heuristic summarizing default likelihood from the
// loan's status, credit score, and revenue-to-debt ratio. Deterministic,
// no external state.

const (
	riskBase = 50
	riskMin  = 0
	riskMax  = 100
)

var statusRiskDelta = map[domain.LoanStatus]int{
	domain.StatusCurrent:      -20,
	domain.StatusDelinquent1:  10,
	domain.StatusDelinquent2:  20,
	domain.StatusDelinquent3:  30,
	domain.StatusDefault:      40,
	domain.StatusRestructured: 35,
}

// RiskScore computes the loan's heuristic risk score in [0,100] from its
// already-derived status and its underwriting sub-record.
func RiskScore(status domain.LoanStatus, lead domain.Lead) int {
	score := riskBase + statusRiskDelta[status]

	switch {
	case lead.FICO < 600:
		score += 15
	case lead.FICO < 650:
		score += 5
	case lead.FICO > 700:
		score -= 10
	}

	// The ratio band only applies when the debt aggregate is present;
	// a zero denominator never propagates into the score.
	if lead.AvgMCADebts > 0 {
		ratio := lead.AvgMonthlyRevenue / lead.AvgMCADebts
		if ratio < 2 {
			score += 15
		} else if ratio > 5 {
			score -= 10
		}
	}

	if score < riskMin {
		return riskMin
	}
	if score > riskMax {
		return riskMax
	}
	return score
}
