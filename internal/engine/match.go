package engine

import (
	"math"
	"time"

	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

// MatchConfig holds the matcher's pairing tolerances. The defaults mirror
// current servicing practice; neither value is load-bearing enough to
// hardcode.
type MatchConfig struct {
	// WindowDays is how far (in days, either direction) a transaction may
	// sit from the scheduled date and still qualify.
	WindowDays int
	// AmountTolerance is the allowed relative deviation from the scheduled
	// amount, e.g. 0.10 for ±10%.
	AmountTolerance float64
}

// DefaultMatchConfig returns the production pairing tolerances.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{WindowDays: 7, AmountTolerance: 0.10}
}

// MatchPayments pairs scheduled payments with ledger credits. Each
// scheduled payment, processed in schedule order, greedily claims the
// nearest-in-time unclaimed credit inside the day window and amount
// tolerance; a transaction is claimed at most once. Unmatched scheduled
// payments are missed when past due and future otherwise; credits nobody
// claimed come out as extra entries, which is where catch-up and surplus
// payments surface.
//
// Variance is actual minus expected amount, with the absent side read as
// zero: matched entries get credit-minus-scheduled, missed and future get
// the negated scheduled amount, extras get the credited amount.
func MatchPayments(payments []domain.ScheduledPayment, txns []domain.Transaction, today time.Time, cfg MatchConfig) []domain.PaymentMatch {
	asOf := DayStart(today)
	claimed := make([]bool, len(txns))
	matches := make([]domain.PaymentMatch, 0, len(payments))

	for i := range payments {
		sched := payments[i]
		best := -1
		bestDays := 0
		for j := range txns {
			if claimed[j] || txns[j].Credit <= 0 {
				continue
			}
			days := daysApart(sched.Date, txns[j].Date)
			if days > cfg.WindowDays {
				continue
			}
			if math.Abs(txns[j].Credit-sched.Amount) > cfg.AmountTolerance*sched.Amount {
				continue
			}
			// Strict comparison keeps the earliest of equally-near
			// candidates, since transactions are in date order.
			if best == -1 || days < bestDays {
				best = j
				bestDays = days
			}
		}

		if best >= 0 {
			claimed[best] = true
			matches = append(matches, domain.PaymentMatch{
				Scheduled:   &payments[i],
				Transaction: &txns[best],
				Status:      domain.MatchMatched,
				Variance:    txns[best].Credit - sched.Amount,
			})
			continue
		}

		status := domain.MatchFuture
		if sched.Date.Before(asOf) {
			status = domain.MatchMissed
		}
		matches = append(matches, domain.PaymentMatch{
			Scheduled: &payments[i],
			Status:    status,
			Variance:  -sched.Amount,
		})
	}

	for j := range txns {
		if claimed[j] || txns[j].Credit <= 0 {
			continue
		}
		matches = append(matches, domain.PaymentMatch{
			Transaction: &txns[j],
			Status:      domain.MatchExtra,
			Variance:    txns[j].Credit,
		})
	}
	return matches
}

func daysApart(a, b time.Time) int {
	d := int(DayStart(a).Sub(DayStart(b)).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
