// Package export renders opt-out and warm-lead lists as CSV or XLSX.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tree-service-leads/internal/domain/model"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Table is a header row plus string cells.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

func OptOuts(rows []*model.OptOut) Table {
	t := Table{Name: "opt_outs", Headers: []string{"Phone_Number", "Date", "Source"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.PhoneNumber, stamp(r.Date), r.Source})
	}
	return t
}

func WarmLeads(rows []*model.WarmLead) Table {
	t := Table{
		Name:    "warm_leads",
		Headers: []string{"Phone_Number", "Full_Name", "Address", "First_Reply_Text", "Reply_Time", "Source_Campaign"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.PhoneNumber,
			deref(r.FullName),
			deref(r.Address),
			deref(r.FirstReplyText),
			stamp(r.ReplyTime),
			deref(r.SourceCampaign),
		})
	}
	return t
}

// CSV writes the header unquoted and every data cell double-quoted with
// embedded quotes doubled. Lines are joined by "\n" with no trailing newline.
func CSV(t Table) []byte {
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Headers, ","))
	cells := make([]string, 0, len(t.Headers))
	for _, row := range t.Rows {
		cells = cells[:0]
		for _, c := range row {
			cells = append(cells, `"`+strings.ReplaceAll(c, `"`, `""`)+`"`)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}

// XLSX writes t to a single-sheet workbook named after the table.
func XLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := t.Name
	if sheet == "" {
		sheet = "Sheet1"
	}
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}
	for i, h := range t.Headers {
		if err := write(i+1, 1, h); err != nil {
			return nil, err
		}
	}
	for r, row := range t.Rows {
		for c, v := range row {
			if err := write(c+1, r+2, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Render picks the encoder for format and returns the body and its content
// type.
func Render(t Table, format string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		return CSV(t), ContentTypeCSV, nil
	case FormatXLSX:
		b, err := XLSX(t)
		return b, ContentTypeXLSX, err
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
