package engine

import (
	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

// PortfolioSummary aggregates a derived portfolio for reporting.
type PortfolioSummary struct {
	TotalLoans           int
	ByStatus             map[domain.LoanStatus]int
	TotalContractBalance float64
	AverageRiskScore     float64
}

// Summarize folds derived loans into portfolio-level totals. An empty
// portfolio yields a zero-value summary rather than a division by zero.
func Summarize(loans []*domain.Loan) PortfolioSummary {
	s := PortfolioSummary{
		TotalLoans: len(loans),
		ByStatus:   make(map[domain.LoanStatus]int),
	}
	if len(loans) == 0 {
		return s
	}

	riskTotal := 0
	for _, loan := range loans {
		s.ByStatus[loan.Status]++
		s.TotalContractBalance += loan.ContractBalance
		riskTotal += loan.RiskScore
	}
	s.AverageRiskScore = float64(riskTotal) / float64(len(loans))
	return s
}
