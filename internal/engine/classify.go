package engine

import (
	"strings"

	"github.com/SenorMexico1/LPD-sub001/internal/domain"
)

// ClassificationResult is the categorized ledger of one loan.
type ClassificationResult struct {
	// Ledger holds every transaction with its assigned category, in the
	// order the transactions were given (date order after assembly).
	Ledger []domain.CategorizedTransaction
	// Payments are the Ledger entries categorized as payments.
	Payments []domain.CategorizedTransaction
	// TotalReceived is the sum of credited amounts across Payments.
	TotalReceived float64
	// Restructured reports whether any transaction triggered the
	// restructure vocabulary or carried "restructur" in its reference.
	Restructured bool
}

// Classifier maps free-text transaction type names to categories using a
// fixed vocabulary. It is stateless apart from the vocabulary tables and
// safe for concurrent use.
type Classifier struct {
	vocab Vocabulary
}

// NewClassifier returns a classifier over the given vocabulary.
func NewClassifier(vocab Vocabulary) *Classifier {
	return &Classifier{vocab: vocab}
}

// Categorize assigns exactly one category to every transaction and
// accumulates payment credits. Only credit entries are classified by type
// name; debit-only entries are kept as "other" with a negative signed
// amount so the audit ledger stays complete.
func (c *Classifier) Categorize(txns []domain.Transaction) ClassificationResult {
	var res ClassificationResult
	res.Ledger = make([]domain.CategorizedTransaction, 0, len(txns))

	for _, txn := range txns {
		entry := domain.CategorizedTransaction{Transaction: txn}

		if txn.Credit > 0 {
			category, restructure := c.categorizeCredit(txn.TypeName)
			entry.Category = category
			entry.SignedAmount = txn.Credit
			if restructure {
				res.Restructured = true
			}
			if category == domain.CategoryPayment {
				res.TotalReceived += txn.Credit
				res.Payments = append(res.Payments, entry)
			}
		} else {
			entry.Category = domain.CategoryOther
			entry.SignedAmount = -txn.Debit
		}

		// The reference text can mark a restructure even when the type
		// name classifies as something else entirely.
		if strings.Contains(strings.ToLower(txn.Reference), "restructur") {
			res.Restructured = true
		}

		res.Ledger = append(res.Ledger, entry)
	}
	return res
}

// categorizeCredit resolves a credit transaction's type name. Match order
// is fixed: restructure keywords, payment type names, fee keywords, then
// the free-text fallback rules. First match wins.
func (c *Classifier) categorizeCredit(typeName string) (domain.TransactionCategory, bool) {
	name := strings.ToLower(strings.TrimSpace(typeName))

	for _, kw := range c.vocab.RestructureKeywords {
		if strings.Contains(name, strings.ToLower(kw)) {
			return domain.CategoryRestructure, true
		}
	}

	if c.matchesPaymentType(name) {
		return domain.CategoryPayment, false
	}

	for _, kw := range c.vocab.FeeKeywords {
		if strings.Contains(name, strings.ToLower(kw)) {
			return domain.CategoryFee, false
		}
	}

	// Fallback heuristics for type names the tables don't know yet.
	if strings.Contains(name, "payment") {
		return domain.CategoryPayment, false
	}
	if strings.Contains(name, "collection") &&
		!strings.Contains(name, "fee") &&
		!strings.Contains(name, "origination") &&
		!strings.Contains(name, "initiation") {
		return domain.CategoryPayment, false
	}

	return domain.CategoryOther, false
}

func (c *Classifier) matchesPaymentType(name string) bool {
	for _, entry := range c.vocab.PaymentTypes {
		lowered := strings.ToLower(entry)
		if name == lowered {
			return true
		}
		// Transfer-style entries tolerate prefixes and suffixes the
		// servicer appends ("Wire Transfer - June", "Transfer to Advance #2").
		if strings.Contains(lowered, "transfer") && strings.Contains(name, "transfer") {
			return true
		}
	}
	return false
}
