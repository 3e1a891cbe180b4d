package engine

import (
	"time"

	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

// Config is the engine's full configuration: the classifier vocabulary,
// the matcher tolerances, and the catch-up threshold. Passing it explicitly
// keeps every derivation function stateless and safe to run concurrently
// across loans.
type Config struct {
	Vocabulary Vocabulary
	Match      MatchConfig
	// CatchUpMultiple is how many installments a single payment credit
	// must cover to count as a catch-up payment.
	CatchUpMultiple float64
}

// DefaultConfig returns the production engine configuration.
func DefaultConfig() Config {
	return Config{
		Vocabulary:      DefaultVocabulary(),
		Match:           DefaultMatchConfig(),
		CatchUpMultiple: 2,
	}
}

// Derive attaches every computed field to the loan: status with its audit
// calculation, catch-up payments, payment matching, and the risk score.
// Derivation reads only the loan's own data plus today's date, so loans can
// be derived in any order or in parallel.
func Derive(loan *domain.Loan, today time.Time, cfg Config) {
	classifier := NewClassifier(cfg.Vocabulary)

	calc := ComputeStatus(loan, today, classifier)
	loan.Status = calc.Status
	loan.StatusCalculation = calc

	loan.CatchUpPayments = catchUpPayments(calc.ActualPayments, loan.InstallmentAmount, cfg.CatchUpMultiple)
	loan.PaymentMatching = MatchPayments(loan.Payments, loan.Transactions, today, cfg.Match)
	loan.RiskScore = RiskScore(loan.Status, loan.Lead)
}

// DeriveAll derives every loan in the slice sequentially, preserving
// assembly order.
func DeriveAll(loans []*domain.Loan, today time.Time, cfg Config) {
	for _, loan := range loans {
		Derive(loan, today, cfg)
	}
}

// catchUpPayments returns the payment credits large enough to cover
// multiple installments in one transaction.
func catchUpPayments(payments []domain.CategorizedTransaction, installment, multiple float64) []domain.Transaction {
	if installment <= 0 {
		return nil
	}
	var out []domain.Transaction
	for _, p := range payments {
		if p.Credit >= multiple*installment {
			out = append(out, p.Transaction)
		}
	}
	return out
}
