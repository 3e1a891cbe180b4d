package etl

import (
	"sort"
	"strings"

	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

// AssembleResult is the outcome of folding raw rows into loans. OrphanRows
// lists zero-based indexes of continuation rows that appeared before any
// loan header; their data cannot be attributed and is skipped. Callers are
// expected to log them.
type AssembleResult struct {
	Loans      []*domain.Loan
	RowsRead   int
	OrphanRows []int
}

// Assemble folds the ordered row sequence into loan aggregates. Row 0 is
// the header and is skipped. A row opens a new loan exactly when both its
// external-id and loan-number cells are non-empty; every other row is a
// continuation of the most recently opened loan and contributes at most one
// schedule entry and one transaction. The fold's accumulator is (closed
// loans, open loan), so the final loan is flushed when the rows run out
// rather than by a special ending branch.
//
// Each loan's schedule and transactions are sorted ascending by date before
// the result is returned. Assemble does not derive statuses; the engine
// does that on the assembled aggregates.
func Assemble(rows []RawRow) AssembleResult {
	res := AssembleResult{RowsRead: len(rows)}

	var open *domain.Loan
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if startsLoan(row) {
			if open != nil {
				res.Loans = append(res.Loans, open)
			}
			open = newLoan(row)
		}
		if open == nil {
			// Continuation before any header: nothing to attach to.
			if hasSubTableData(row) {
				res.OrphanRows = append(res.OrphanRows, i)
			}
			continue
		}
		collectSubTables(open, row, i)
	}
	if open != nil {
		res.Loans = append(res.Loans, open)
	}

	for _, loan := range res.Loans {
		sortLoan(loan)
	}
	return res
}

// startsLoan reports whether a row opens a new loan: both identity cells
// must be present.
func startsLoan(row RawRow) bool {
	return strings.TrimSpace(row.Cell(colExternalID)) != "" &&
		strings.TrimSpace(row.Cell(colLoanNumber)) != ""
}

// hasSubTableData reports whether a row carries a schedule or transaction
// entry, used only to distinguish meaningful orphan rows from blank ones.
func hasSubTableData(row RawRow) bool {
	return ParseDate(row.Cell(colPaydateDate)) != nil ||
		ParseDate(row.Cell(colTxnDate)) != nil
}

// newLoan builds a loan aggregate from a header row. All cell parsing is
// best-effort per the row-parser contract.
func newLoan(row RawRow) *domain.Loan {
	return &domain.Loan{
		ExternalID:        strings.TrimSpace(row.Cell(colExternalID)),
		LoanNumber:        strings.TrimSpace(row.Cell(colLoanNumber)),
		LoanAmount:        ParseAmount(row.Cell(colLoanAmount)),
		ContractBalance:   ParseAmount(row.Cell(colContractBalance)),
		InstallmentAmount: ParseAmount(row.Cell(colInstallmentAmount)),
		State:             strings.TrimSpace(row.Cell(colState)),
		Restructured:      ParseBool(row.Cell(colRestructured)),
		Client: domain.Client{
			Name:      strings.TrimSpace(row.Cell(colClientName)),
			Sector:    strings.TrimSpace(row.Cell(colClientSector)),
			Subsector: strings.TrimSpace(row.Cell(colClientSubsector)),
			Founded:   ParseDate(row.Cell(colClientFounded)),
			Address:   strings.TrimSpace(row.Cell(colClientAddress)),
			City:      strings.TrimSpace(row.Cell(colClientCity)),
			State:     strings.TrimSpace(row.Cell(colClientState)),
		},
		Lead: domain.Lead{
			FICO:              ParseInt(row.Cell(colFICO)),
			AvgMonthlyRevenue: ParseAmount(row.Cell(colAvgMonthlyRevenue)),
			AvgMCADebts:       ParseAmount(row.Cell(colAvgMCADebts)),
			AdvanceCount:      ParseInt(row.Cell(colAdvanceCount)),
			Underwriter:       strings.TrimSpace(row.Cell(colUnderwriter)),
			Salesperson:       strings.TrimSpace(row.Cell(colSalesperson)),
		},
	}
}

// collectSubTables attaches the row's schedule entry and transaction entry,
// if present, to the open loan. Header rows carry sub-table data too, so
// this runs for every row of a loan.
func collectSubTables(loan *domain.Loan, row RawRow, rowIdx int) {
	if d := ParseDate(row.Cell(colPaydateDate)); d != nil {
		loan.Payments = append(loan.Payments, domain.ScheduledPayment{
			Date:      *d,
			Amount:    ParseAmount(row.Cell(colPaydateAmount)),
			SourceRow: rowIdx,
		})
	}
	if d := ParseDate(row.Cell(colTxnDate)); d != nil {
		loan.Transactions = append(loan.Transactions, domain.Transaction{
			Date:      *d,
			Reference: strings.TrimSpace(row.Cell(colTxnReference)),
			TypeID:    strings.TrimSpace(row.Cell(colTxnTypeID)),
			TypeName:  strings.TrimSpace(row.Cell(colTxnTypeName)),
			Debit:     ParseAmount(row.Cell(colTxnDebit)),
			Credit:    ParseAmount(row.Cell(colTxnCredit)),
			Balance:   ParseAmount(row.Cell(colTxnBalance)),
			SourceRow: rowIdx,
		})
	}
}

func sortLoan(loan *domain.Loan) {
	sort.SliceStable(loan.Payments, func(i, j int) bool {
		return loan.Payments[i].Date.Before(loan.Payments[j].Date)
	})
	sort.SliceStable(loan.Transactions, func(i, j int) bool {
		return loan.Transactions[i].Date.Before(loan.Transactions[j].Date)
	})
}
