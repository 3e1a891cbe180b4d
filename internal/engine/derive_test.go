package engine

import (
	"testing"
	"time"

	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

func TestDeriveAttachesAllFields(t *testing.T) {
	loan := scheduledLoan(1000, 3, 2)
	loan.Lead.FICO = 680

	Derive(loan, date(2024, time.March, 1), DefaultConfig())

	if loan.Status != domain.StatusDelinquent1 {
		t.Errorf("Status = %s, want delinquent_1", loan.Status)
	}
	if loan.StatusCalculation == nil {
		t.Fatal("StatusCalculation not attached")
	}
	if len(loan.PaymentMatching) == 0 {
		t.Error("PaymentMatching not attached")
	}
	if loan.RiskScore != 50+10 {
		t.Errorf("RiskScore = %d, want 60", loan.RiskScore)
	}
}

func TestDeriveCatchUpPayments(t *testing.T) {
	loan := scheduledLoan(1000, 4, 2)
	// One credit covering two installments at once.
	loan.Transactions = append(loan.Transactions, domain.Transaction{
		Date: date(2024, time.January, 25), TypeName: "ACH", Credit: 2000,
	})

	Derive(loan, date(2024, time.March, 1), DefaultConfig())

	if len(loan.CatchUpPayments) != 1 {
		t.Fatalf("got %d catch-up payments, want 1", len(loan.CatchUpPayments))
	}
	if loan.CatchUpPayments[0].Credit != 2000 {
		t.Errorf("catch-up credit = %v, want 2000", loan.CatchUpPayments[0].Credit)
	}
	if loan.Status != domain.StatusCurrent {
		t.Errorf("Status = %s, want current (2 + 2 payments against 4)", loan.Status)
	}
}

func TestDeriveCatchUpNeedsInstallment(t *testing.T) {
	loan := &domain.Loan{InstallmentAmount: 0}
	loan.Transactions = []domain.Transaction{
		{Date: date(2024, time.January, 5), TypeName: "ACH", Credit: 5000},
	}

	Derive(loan, date(2024, time.March, 1), DefaultConfig())

	if loan.CatchUpPayments != nil {
		t.Errorf("catch-up detection with zero installment: %+v", loan.CatchUpPayments)
	}
}

func TestDeriveAllPreservesOrder(t *testing.T) {
	loans := []*domain.Loan{
		scheduledLoan(1000, 2, 2),
		scheduledLoan(1000, 2, 0),
	}
	loans[0].LoanNumber = "K-A"
	loans[1].LoanNumber = "K-B"

	DeriveAll(loans, date(2024, time.March, 1), DefaultConfig())

	if loans[0].LoanNumber != "K-A" || loans[1].LoanNumber != "K-B" {
		t.Error("derivation reordered the slice")
	}
	if loans[0].Status != domain.StatusCurrent {
		t.Errorf("first loan Status = %s, want current", loans[0].Status)
	}
	if loans[1].Status != domain.StatusDelinquent2 {
		t.Errorf("second loan Status = %s, want delinquent_2", loans[1].Status)
	}
}

func TestSummarize(t *testing.T) {
	loans := []*domain.Loan{
		{Status: domain.StatusCurrent, ContractBalance: 10000, RiskScore: 20},
		{Status: domain.StatusCurrent, ContractBalance: 5000, RiskScore: 40},
		{Status: domain.StatusDefault, ContractBalance: 25000, RiskScore: 90},
	}

	s := Summarize(loans)
	if s.TotalLoans != 3 {
		t.Errorf("TotalLoans = %d, want 3", s.TotalLoans)
	}
	if s.ByStatus[domain.StatusCurrent] != 2 || s.ByStatus[domain.StatusDefault] != 1 {
		t.Errorf("ByStatus = %v", s.ByStatus)
	}
	if s.TotalContractBalance != 40000 {
		t.Errorf("TotalContractBalance = %v, want 40000", s.TotalContractBalance)
	}
	if s.AverageRiskScore != 50 {
		t.Errorf("AverageRiskScore = %v, want 50", s.AverageRiskScore)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalLoans != 0 || s.AverageRiskScore != 0 || len(s.ByStatus) != 0 {
		t.Errorf("Summarize(nil) = %+v", s)
	}
}
