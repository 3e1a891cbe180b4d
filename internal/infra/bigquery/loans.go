package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

// LoanRow is the portfolio.loans table schema: one derived loan aggregate
// per ingestion run.
type LoanRow struct {
	LoanNumber     string `bigquery:"loan_number"`      // REQUIRED, natural key
	ExternalID     string `bigquery:"external_id"`      // NULLABLE
	IngestionRunID string `bigquery:"ingestion_run_id"` // REQUIRED

	LoanAmount        *big.Rat `bigquery:"loan_amount"`        // NUMERIC
	ContractBalance   *big.Rat `bigquery:"contract_balance"`   // NUMERIC
	InstallmentAmount *big.Rat `bigquery:"installment_amount"` // NUMERIC
	State             string   `bigquery:"state"`              // NULLABLE

	ClientName   string            `bigquery:"client_name"`    // NULLABLE
	ClientSector string            `bigquery:"client_sector"`  // NULLABLE
	ClientCity   string            `bigquery:"client_city"`    // NULLABLE
	ClientState  string            `bigquery:"client_state"`   // NULLABLE
	Founded      bigquery.NullDate `bigquery:"client_founded"` // NULLABLE

	FICO              int64    `bigquery:"fico"`
	AvgMonthlyRevenue *big.Rat `bigquery:"avg_monthly_revenue"` // NUMERIC
	AvgMCADebts       *big.Rat `bigquery:"avg_mca_debts"`       // NUMERIC

	AsOf              civil.Date `bigquery:"as_of"` // REQUIRED
	Status            string     `bigquery:"status"`
	StatusExplanation string     `bigquery:"status_explanation"`
	Restructured      bool       `bigquery:"restructured"`
	RestructureSource string     `bigquery:"restructure_source"` // NULLABLE

	TotalExpected  int64    `bigquery:"total_expected"`
	TotalReceived  *big.Rat `bigquery:"total_received"` // NUMERIC
	PaymentsMade   int64    `bigquery:"payments_made"`
	MissedPayments int64    `bigquery:"missed_payments"`

	ScheduleCount    int64 `bigquery:"schedule_count"`
	TransactionCount int64 `bigquery:"transaction_count"`
	MatchedCount     int64 `bigquery:"matched_count"`
	MissedMatchCount int64 `bigquery:"missed_match_count"`
	FutureCount      int64 `bigquery:"future_count"`
	ExtraCount       int64 `bigquery:"extra_count"`
	CatchUpCount     int64 `bigquery:"catch_up_count"`

	RiskScore  int64     `bigquery:"risk_score"`
	IngestedTS time.Time `bigquery:"ingested_ts"` // REQUIRED
}

// LoanRowFromDomain flattens a derived loan aggregate into its table row.
// The loan must already have been through engine derivation.
func LoanRowFromDomain(loan *domain.Loan, ingestionRunID string, ingestedAt time.Time) *LoanRow {
	row := &LoanRow{
		LoanNumber:     loan.LoanNumber,
		ExternalID:     loan.ExternalID,
		IngestionRunID: ingestionRunID,

		LoanAmount:        ratFromFloat(loan.LoanAmount),
		ContractBalance:   ratFromFloat(loan.ContractBalance),
		InstallmentAmount: ratFromFloat(loan.InstallmentAmount),
		State:             loan.State,

		ClientName:   loan.Client.Name,
		ClientSector: loan.Client.Sector,
		ClientCity:   loan.Client.City,
		ClientState:  loan.Client.State,

		FICO:              int64(loan.Lead.FICO),
		AvgMonthlyRevenue: ratFromFloat(loan.Lead.AvgMonthlyRevenue),
		AvgMCADebts:       ratFromFloat(loan.Lead.AvgMCADebts),

		Status: string(loan.Status),

		ScheduleCount:    int64(len(loan.Payments)),
		TransactionCount: int64(len(loan.Transactions)),
		CatchUpCount:     int64(len(loan.CatchUpPayments)),

		RiskScore:  int64(loan.RiskScore),
		IngestedTS: ingestedAt,
	}

	if loan.Client.Founded != nil {
		row.Founded = bigquery.NullDate{Date: civil.DateOf(*loan.Client.Founded), Valid: true}
	}

	if calc := loan.StatusCalculation; calc != nil {
		row.AsOf = civil.DateOf(calc.AsOf)
		row.StatusExplanation = calc.Explanation
		row.Restructured = calc.Restructured
		row.RestructureSource = string(calc.RestructureSource)
		row.TotalExpected = int64(calc.TotalExpected)
		row.TotalReceived = ratFromFloat(calc.TotalReceived)
		row.PaymentsMade = int64(calc.PaymentsMade)
		row.MissedPayments = int64(calc.MissedPayments)
	}

	for _, m := range loan.PaymentMatching {
		switch m.Status {
		case domain.MatchMatched:
			row.MatchedCount++
		case domain.MatchMissed:
			row.MissedMatchCount++
		case domain.MatchFuture:
			row.FutureCount++
		case domain.MatchExtra:
			row.ExtraCount++
		}
	}

	return row
}

// ratFromFloat converts a currency float to the NUMERIC wire type.
func ratFromFloat(v float64) *big.Rat {
	r := new(big.Rat)
	r.SetFloat64(v)
	return r
}
