package excel

// ExcelConfig holds configuration for the semester file source
type ExcelConfig struct {
	Dir       string    `json:"dir"`
	SheetName string    `json:"sheet_name"` // empty means the first sheet
	Columns   ColumnMap `json:"columns"`
}

// DefaultExcelConfig returns sensible defaults for semester file processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Dir:     ".",
		Columns: DefaultColumnMap(),
	}
}
