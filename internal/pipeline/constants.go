package pipeline

// Default values for portfolio ingestion. These can be overridden via flags
// on the individual binaries.
const (
	// DefaultDatasetID is the BigQuery dataset holding portfolio tables.
	DefaultDatasetID = "portfolio"

	// EngineVersion is recorded on every ingestion run so derived rows can
	// be traced back to the rules that produced them.
	EngineVersion = "v1"
)
