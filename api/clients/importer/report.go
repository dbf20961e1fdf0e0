package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Erros"

// BuildErrorReport serializes the collected validation errors into an
// xlsx blob, one row per error, keyed by the original line number so
// the office staff can fix the source sheet and re-upload.
func BuildErrorReport(errs []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), reportSheet)
	if err := f.SetSheetRow(reportSheet, "A1", &[]interface{}{"Linha", "Campo", "Valor", "Mensagem"}); err != nil {
		return nil, err
	}
	for i, e := range errs {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(reportSheet, cell, &[]interface{}{e.Line, e.Field, e.Value, e.Message}); err != nil {
			return nil, err
		}
	}
	// widths are cosmetic only
	f.SetColWidth(reportSheet, "B", "B", 16)
	f.SetColWidth(reportSheet, "C", "C", 28)
	f.SetColWidth(reportSheet, "D", "D", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReportFileName derives the report name from the source file and the
// run date. Deterministic: re-running the same file on the same day
// collides, and the storage layer may overwrite or version.
func ReportFileName(sourceName string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	base = strings.ReplaceAll(strings.TrimSpace(base), " ", "_")
	if base == "" || base == "." {
		base = "importacao"
	}
	return fmt.Sprintf("erros_%s_%s.xlsx", base, now.Format("2006-01-02"))
}
