package engine

// Vocabulary holds the free-text type-name tables the classifier matches
// against. The lists are data, not logic: they are expected to grow as the
// servicer invents new transaction type names, so they live in one versioned
// table instead of inline literals.
type Vocabulary struct {
	// Version identifies the table revision for audit output.
	Version string

	// PaymentTypes are matched by case-insensitive equality against the
	// transaction type name. Entries containing "transfer" additionally
	// match any type name containing "transfer".
	PaymentTypes []string

	// FeeKeywords are matched by case-insensitive substring.
	FeeKeywords []string

	// RestructureKeywords are matched by case-insensitive substring and
	// take precedence over every other table.
	RestructureKeywords []string
}

// DefaultVocabulary returns the vocabulary currently used in production,
// transcribed from the servicer's ledger export.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Version: "2024-06",
		PaymentTypes: []string{
			"ACH",
			"Credit Card",
			"Credit Card Payment Received",
			"Debit Card",
			"Successful Payment",
			"Down Payment",
			"Wire Transfer",
			"Transfer to Advance",
			"Transfer from Advance",
			"Dedicated - Recovered Collections",
			"Check Deposit",
			"Account Credit",
			"Kalamata Credit",
			"Repay Manual Debit",
		},
		FeeKeywords: []string{
			"origination",
			"initiation",
			"merchant fee",
			"stamp tax",
			"accrued interest",
			"nsf",
			"legal fee",
			"restructure penalty",
		},
		RestructureKeywords: []string{
			"settlement",
			"write-off",
			"write off",
			"restructure",
			"discount adjustment",
		},
	}
}
