package domain

import "time"

// LoanStatus is the portfolio-performance classification of a loan.
type LoanStatus string

const (
	StatusCurrent      LoanStatus = "current"
	StatusDelinquent1  LoanStatus = "delinquent_1"
	StatusDelinquent2  LoanStatus = "delinquent_2"
	StatusDelinquent3  LoanStatus = "delinquent_3"
	StatusDefault      LoanStatus = "default"
	StatusRestructured LoanStatus = "restructured"
)

// TransactionCategory labels a transaction by what it does to the loan.
type TransactionCategory string

const (
	CategoryPayment     TransactionCategory = "payment"
	CategoryFee         TransactionCategory = "fee"
	CategoryRestructure TransactionCategory = "restructure"
	CategoryOther       TransactionCategory = "other"
)

// RestructureSource records which rule marked a loan restructured.
type RestructureSource string

const (
	// RestructureSourceNone means the loan is not restructured.
	RestructureSourceNone RestructureSource = ""
	// RestructureSourceFlag means the explicit spreadsheet column was set.
	RestructureSourceFlag RestructureSource = "column_flag"
	// RestructureSourceTransaction means a transaction's type name or
	// reference text triggered the restructure vocabulary.
	RestructureSourceTransaction RestructureSource = "transaction"
)

// CategorizedTransaction is a ledger entry with its assigned category.
// SignedAmount is the credited amount for credit entries and the negated
// debit for debit-only entries, kept for audit purposes.
type CategorizedTransaction struct {
	Transaction
	Category     TransactionCategory
	SignedAmount float64
}

// StatusCalculation is the audit record behind a loan's status: every input
// the status engine looked at and every intermediate total it computed.
// Recomputing with the same loan and the same as-of date reproduces it
// exactly.
type StatusCalculation struct {
	AsOf time.Time // calculation date, truncated to midnight

	// ExpectedPayments are the scheduled payments strictly before AsOf.
	ExpectedPayments []ScheduledPayment
	// ActualPayments are the credits the classifier labeled as payments.
	ActualPayments []CategorizedTransaction
	// Ledger is the full categorized transaction list, in date order.
	Ledger []CategorizedTransaction

	TotalExpected  int
	TotalReceived  float64
	PaymentsMade   int
	MissedPayments int

	Restructured      bool
	RestructureSource RestructureSource

	Status      LoanStatus
	Explanation string
}
