package excel

// RawRowData represents a row of raw sheet data keyed by header
type RawRowData map[string]string

// ExcelData represents one parsed sheet or CSV file
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}
