package domain

import (
	"time"
)

// ScheduledPayment is one entry of a loan's payment schedule: a calendar
// date and the amount the loan was expected to pay on it. SourceRow is the
// zero-based spreadsheet row the entry came from.
type ScheduledPayment struct {
	Date      time.Time
	Amount    float64
	SourceRow int
}

// Transaction is one dated ledger entry against a loan's balance. Debit and
// Credit are both always populated; in practice at most one is nonzero.
type Transaction struct {
	Date      time.Time
	Reference string
	TypeID    string
	TypeName  string
	Debit     float64
	Credit    float64
	Balance   float64
	SourceRow int
}

// Client is the borrower sub-record embedded in a loan.
type Client struct {
	Name      string
	Sector    string
	Subsector string
	Founded   *time.Time // nil when the founding date cell is blank or unparseable
	Address   string
	City      string
	State     string
}

// Lead holds the underwriting sub-record: credit score and the
// banking-behavior aggregates captured when the loan was originated.
type Lead struct {
	FICO              int
	AvgMonthlyRevenue float64
	AvgMCADebts       float64
	AdvanceCount      int
	Underwriter       string
	Salesperson       string
}

// Loan is the aggregate root: one borrower's credit record reconstructed
// from a header row plus its continuation rows, with derived performance
// fields attached after assembly.
//
// The derived fields (Status, StatusCalculation, CatchUpPayments,
// PaymentMatching, RiskScore) are fully determined by Payments,
// Transactions, InstallmentAmount, Restructured and the as-of date;
// recomputing from the same inputs yields identical results.
type Loan struct {
	ExternalID string
	LoanNumber string // natural key, unique across the portfolio

	LoanAmount        float64
	ContractBalance   float64
	InstallmentAmount float64
	State             string

	Client Client
	Lead   Lead

	// Restructured is the explicit column flag from the source sheet. The
	// status engine may additionally mark a loan restructured from its
	// transaction content; see StatusCalculation.Restructured.
	Restructured bool

	Payments     []ScheduledPayment
	Transactions []Transaction

	// Derived after assembly.
	Status            LoanStatus
	StatusCalculation *StatusCalculation
	CatchUpPayments   []Transaction
	PaymentMatching   []PaymentMatch
	RiskScore         int
}
