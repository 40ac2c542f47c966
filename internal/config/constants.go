package config

// Application constants
const (
	AppName = "acidentes"

	// Persisted snapshot of the cleaned dataset
	SnapshotFileName = "acidentes_tratados.parquet"

	// Legacy export names used when the export paths are enabled without a value
	LegacyCSVFileName     = "acidentes_tratados.csv"
	CleaningReportName    = "acidentes_tratados.report.json"
	SQLiteExportName      = "acidentes_tratados.db"
	DefaultSampleCap      = 4000
	DefaultSampleSeed     = 42
	DefaultDirPermission  = 0755
	DefaultFilePermission = 0644
)
