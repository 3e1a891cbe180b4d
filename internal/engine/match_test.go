package engine

import (
	"testing"
	"time"

	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

func TestMatchPaymentsPairsWithinWindow(t *testing.T) {
	payments := []domain.ScheduledPayment{
		{Date: date(2024, time.January, 5), Amount: 1000},
	}
	txns := []domain.Transaction{
		{Date: date(2024, time.January, 8), TypeName: "ACH", Credit: 1000},
	}

	matches := MatchPayments(payments, txns, date(2024, time.February, 1), DefaultMatchConfig())
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Status != domain.MatchMatched {
		t.Fatalf("Status = %s, want matched", m.Status)
	}
	if m.Variance != 0 {
		t.Errorf("Variance = %v, want 0", m.Variance)
	}
}

func TestMatchPaymentsWindowBoundary(t *testing.T) {
	sched := []domain.ScheduledPayment{{Date: date(2024, time.January, 10), Amount: 500}}
	cfg := DefaultMatchConfig()
	asOf := date(2024, time.February, 1)

	tests := []struct {
		name    string
		txnDate time.Time
		want    domain.MatchStatus
	}{
		{"SevenDaysBefore", date(2024, time.January, 3), domain.MatchMatched},
		{"SevenDaysAfter", date(2024, time.January, 17), domain.MatchMatched},
		{"EightDaysAfter", date(2024, time.January, 18), domain.MatchMissed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := []domain.Transaction{{Date: tt.txnDate, Credit: 500}}
			matches := MatchPayments(sched, txns, asOf, cfg)
			if matches[0].Status != tt.want {
				t.Errorf("Status = %s, want %s", matches[0].Status, tt.want)
			}
		})
	}
}

func TestMatchPaymentsAmountTolerance(t *testing.T) {
	sched := []domain.ScheduledPayment{{Date: date(2024, time.January, 10), Amount: 1000}}
	cfg := DefaultMatchConfig()
	asOf := date(2024, time.February, 1)

	tests := []struct {
		name   string
		credit float64
		want   domain.MatchStatus
	}{
		{"Exact", 1000, domain.MatchMatched},
		{"TenPercentOver", 1100, domain.MatchMatched},
		{"TenPercentUnder", 900, domain.MatchMatched},
		{"OverTolerance", 1101, domain.MatchMissed},
		{"UnderTolerance", 899, domain.MatchMissed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := []domain.Transaction{{Date: sched[0].Date, Credit: tt.credit}}
			matches := MatchPayments(sched, txns, asOf, cfg)
			if matches[0].Status != tt.want {
				t.Errorf("credit %v: Status = %s, want %s", tt.credit, matches[0].Status, tt.want)
			}
		})
	}
}

func TestMatchPaymentsClaimsNearestOnce(t *testing.T) {
	// Two scheduled payments, one credit sitting between them: the first
	// schedule entry claims it (nearest, earliest on tie) and the second
	// goes unmatched.
	payments := []domain.ScheduledPayment{
		{Date: date(2024, time.January, 5), Amount: 1000},
		{Date: date(2024, time.January, 12), Amount: 1000},
	}
	txns := []domain.Transaction{
		{Date: date(2024, time.January, 7), Credit: 1000},
	}

	matches := MatchPayments(payments, txns, date(2024, time.February, 1), DefaultMatchConfig())
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Status != domain.MatchMatched {
		t.Errorf("first = %s, want matched", matches[0].Status)
	}
	if matches[1].Status != domain.MatchMissed {
		t.Errorf("second = %s, want missed (credit already claimed)", matches[1].Status)
	}
}

func TestMatchPaymentsPrefersNearestInTime(t *testing.T) {
	payments := []domain.ScheduledPayment{
		{Date: date(2024, time.January, 10), Amount: 1000},
	}
	txns := []domain.Transaction{
		{Date: date(2024, time.January, 4), Credit: 1000},  // 6 days away
		{Date: date(2024, time.January, 11), Credit: 1000}, // 1 day away
	}

	matches := MatchPayments(payments, txns, date(2024, time.February, 1), DefaultMatchConfig())
	if matches[0].Transaction == nil || !matches[0].Transaction.Date.Equal(txns[1].Date) {
		t.Errorf("matched %v, want the nearer credit", matches[0].Transaction)
	}
	// The farther credit surfaces as extra.
	if matches[1].Status != domain.MatchExtra {
		t.Errorf("leftover = %s, want extra", matches[1].Status)
	}
}

func TestMatchPaymentsMissedVersusFuture(t *testing.T) {
	payments := []domain.ScheduledPayment{
		{Date: date(2024, time.January, 5), Amount: 1000},
		{Date: date(2024, time.March, 5), Amount: 1000},
	}

	matches := MatchPayments(payments, nil, date(2024, time.February, 1), DefaultMatchConfig())
	if matches[0].Status != domain.MatchMissed {
		t.Errorf("past-due = %s, want missed", matches[0].Status)
	}
	if matches[0].Variance != -1000 {
		t.Errorf("missed Variance = %v, want -1000", matches[0].Variance)
	}
	if matches[1].Status != domain.MatchFuture {
		t.Errorf("upcoming = %s, want future", matches[1].Status)
	}
}

func TestMatchPaymentsExtraCredits(t *testing.T) {
	txns := []domain.Transaction{
		{Date: date(2024, time.January, 7), Credit: 2500},
		{Date: date(2024, time.January, 9), Debit: 300}, // debits never surface
	}

	matches := MatchPayments(nil, txns, date(2024, time.February, 1), DefaultMatchConfig())
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Status != domain.MatchExtra {
		t.Errorf("Status = %s, want extra", matches[0].Status)
	}
	if matches[0].Variance != 2500 {
		t.Errorf("Variance = %v, want 2500", matches[0].Variance)
	}
}

func TestMatchPaymentsVarianceOnPartialMatch(t *testing.T) {
	payments := []domain.ScheduledPayment{
		{Date: date(2024, time.January, 5), Amount: 1000},
	}
	txns := []domain.Transaction{
		{Date: date(2024, time.January, 5), Credit: 950},
	}

	matches := MatchPayments(payments, txns, date(2024, time.February, 1), DefaultMatchConfig())
	if matches[0].Status != domain.MatchMatched {
		t.Fatalf("Status = %s, want matched", matches[0].Status)
	}
	if matches[0].Variance != -50 {
		t.Errorf("Variance = %v, want -50", matches[0].Variance)
	}
}
