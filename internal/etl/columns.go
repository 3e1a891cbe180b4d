package etl

// The export carries 76 positional columns per physical row. Column
// positions are fixed by the upstream reporting tool; the constants below
// are the only place the layout is spelled out. Ranges not named here are
// present in the file but not consumed by the engine.
const (
	// Identity and financial terms.
	colExternalID        = 0 // upstream CRM record id
	colLoanNumber        = 1 // natural key, unique across the portfolio
	colFundedDate        = 2
	colLoanAmount        = 3
	colPaybackAmount     = 4 // gross payback, informational
	colFactorRate        = 5 // informational
	colTermMonths        = 6 // informational
	colPaymentFrequency  = 7 // informational
	colInstallmentAmount = 8
	colContractBalance   = 9
	colState             = 10
	colRestructured      = 11 // "Yes" / blank

	// Client sub-record.
	colClientName      = 12
	colClientSector    = 13
	colClientSubsector = 14
	colClientFounded   = 15
	colClientAddress   = 16
	colClientCity      = 17
	colClientState     = 18

	// Lead / underwriting sub-record.
	colFICO              = 19
	colAvgMonthlyRevenue = 20
	colAvgMCADebts       = 21
	colAdvanceCount      = 22
	colUnderwriter       = 23
	colSalesperson       = 24

	// 25-42: banking-behavior aggregates (deposit counts, NSF history,
	// negative-day counts). Not consumed by the engine.

	// 43-52: debt summary block. Unused; the upstream tool stopped
	// populating these but still emits the columns.

	// 53-59: servicing and collection-note fields. Not consumed.

	// Payment-schedule sub-table (one entry per physical row).
	colPaydateDate   = 60
	colPaydateAmount = 61

	// Transaction sub-table (one entry per physical row).
	colTxnDate      = 62
	colTxnReference = 63
	colTxnTypeID    = 64
	colTxnTypeName  = 65
	colTxnDebit     = 66
	colTxnCredit    = 67
	colTxnBalance   = 68

	// 69-75: report-only display fields. Not consumed.

	// numColumns is the width of the fixed column contract.
	numColumns = 76
)
