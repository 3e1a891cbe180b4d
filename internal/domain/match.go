package domain

// MatchStatus classifies one pairing produced by the payment matcher.
type MatchStatus string

const (
	// MatchMatched pairs a scheduled payment with a qualifying transaction.
	MatchMatched MatchStatus = "matched"
	// MatchMissed is a past-due scheduled payment with no qualifying transaction.
	MatchMissed MatchStatus = "missed"
	// MatchFuture is a scheduled payment that is not due yet.
	MatchFuture MatchStatus = "future"
	// MatchExtra is a credit transaction no scheduled payment claimed.
	MatchExtra MatchStatus = "extra"
)

// PaymentMatch is one row of the matcher's output. Scheduled is nil for
// extra entries; Transaction is nil for missed and future entries.
// Variance is actual minus expected amount, with the absent side as zero.
type PaymentMatch struct {
	Scheduled   *ScheduledPayment
	Transaction *Transaction
	Status      MatchStatus
	Variance    float64
}
