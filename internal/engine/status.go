package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

// ComputeStatus derives a loan's performance status as of the given date.
// It is a pure function of (loan, today, classifier vocabulary): the same
// inputs reproduce the same StatusCalculation bit for bit. The loan's
// Payments and Transactions are expected to be date-sorted, which the
// assembler guarantees.
func ComputeStatus(loan *domain.Loan, today time.Time, classifier *Classifier) *domain.StatusCalculation {
	asOf := DayStart(today)
	calc := &domain.StatusCalculation{AsOf: asOf}

	// Expected payments are those scheduled strictly before today,
	// compared as date-only strings so time-of-day can never leak in.
	// Today's own schedule entry is never counted.
	asOfKey := asOf.Format("2006-01-02")
	for _, p := range loan.Payments {
		if p.Date.Format("2006-01-02") < asOfKey {
			calc.ExpectedPayments = append(calc.ExpectedPayments, p)
		}
	}
	calc.TotalExpected = len(calc.ExpectedPayments)

	cls := classifier.Categorize(loan.Transactions)
	calc.Ledger = cls.Ledger
	calc.ActualPayments = cls.Payments
	calc.TotalReceived = cls.TotalReceived

	// Nearest-integer rounding on 2-decimal values absorbs the float noise
	// that cumulative currency sums accumulate.
	if loan.InstallmentAmount > 0 {
		received := round2(calc.TotalReceived)
		installment := round2(loan.InstallmentAmount)
		calc.PaymentsMade = int(math.Round(received / installment))
	}

	calc.MissedPayments = calc.TotalExpected - calc.PaymentsMade
	if calc.MissedPayments < 0 {
		calc.MissedPayments = 0
	}

	// The explicit column flag wins over transaction-derived detection
	// when both apply, and either alone marks the loan restructured.
	switch {
	case loan.Restructured:
		calc.Restructured = true
		calc.RestructureSource = domain.RestructureSourceFlag
	case cls.Restructured:
		calc.Restructured = true
		calc.RestructureSource = domain.RestructureSourceTransaction
	}

	calc.Status, calc.Explanation = assignStatus(calc)
	return calc
}

// assignStatus maps the computed totals to a terminal status label and its
// explanation string.
func assignStatus(calc *domain.StatusCalculation) (domain.LoanStatus, string) {
	if calc.Restructured {
		if calc.RestructureSource == domain.RestructureSourceFlag {
			return domain.StatusRestructured,
				"Loan marked restructured by the restructured column flag."
		}
		return domain.StatusRestructured,
			"Loan marked restructured by settlement/restructure activity in its transactions."
	}

	switch calc.MissedPayments {
	case 0:
		return domain.StatusCurrent, fmt.Sprintf(
			"Current: %d payments made against %d expected.",
			calc.PaymentsMade, calc.TotalExpected)
	case 1:
		return domain.StatusDelinquent1, fmt.Sprintf(
			"Delinquent: 1 missed payment (%d made, %d expected).",
			calc.PaymentsMade, calc.TotalExpected)
	case 2:
		return domain.StatusDelinquent2, fmt.Sprintf(
			"Delinquent: 2 missed payments (%d made, %d expected).",
			calc.PaymentsMade, calc.TotalExpected)
	case 3:
		return domain.StatusDelinquent3, fmt.Sprintf(
			"Delinquent: 3 missed payments (%d made, %d expected).",
			calc.PaymentsMade, calc.TotalExpected)
	default:
		return domain.StatusDefault, fmt.Sprintf(
			"Default: %d missed payments (%d made, %d expected).",
			calc.MissedPayments, calc.PaymentsMade, calc.TotalExpected)
	}
}

// DayStart truncates a time to midnight UTC, the granularity every date
// comparison in the engine runs at.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
