package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary      = "Summary"
	sheetTechnicians  = "Technicians"
	sheetServiceTypes = "Service Types"
)

var (
	technicianHeaders  = []string{"Technician", "Orders", "Completed", "Avg duration (h)"}
	serviceTypeHeaders = []string{"Service type", "Orders"}
)

// Filename is the suggested download name for the workbook.
func (s *Summary) Filename() string {
	return fmt.Sprintf("service_orders_%s_%s.xlsx", s.Range.From.Format("20060102"), s.Range.To.Format("20060102"))
}

// WriteXLSX renders the summary as a three-sheet workbook.
func (s *Summary) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for _, name := range []string{sheetTechnicians, sheetServiceTypes} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating summary style: %w", err)
	}

	s.writeSummarySheet(f, headerStyle)
	s.writeTechnicianSheet(f, headerStyle, boldStyle)
	s.writeServiceTypeSheet(f, headerStyle, boldStyle)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func (s *Summary) writeSummarySheet(f *excelize.File, headerStyle int) {
	sheet := sheetSummary

	f.SetCellValue(sheet, "A1", "Metric")
	f.SetCellValue(sheet, "B1", "Value")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)

	rows := [][2]any{
		{"From", s.Range.From.Format(time.DateOnly)},
		{"To", s.Range.To.Format(time.DateOnly)},
		{"Total orders", s.Total},
	}

	for _, st := range States {
		rows = append(rows, [2]any{"State: " + string(st), s.ByState[st]})
	}

	rows = append(rows,
		[2]any{"Invoiced revenue", s.InvoicedRevenue.InexactFloat64()},
		[2]any{"Average duration (h)", s.AvgDuration},
	)

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1])
	}

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 16)
}

func writeHeaders(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func (s *Summary) writeTechnicianSheet(f *excelize.File, headerStyle, boldStyle int) {
	sheet := sheetTechnicians
	writeHeaders(f, sheet, technicianHeaders, headerStyle)

	var orders, completed int

	for i, t := range s.Technicians {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), t.Orders)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), t.Completed)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), t.AvgDuration)

		orders += t.Orders
		completed += t.Completed
	}

	totalRow := len(s.Technicians) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow), orders)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", totalRow), completed)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("D%d", totalRow), boldStyle)

	for i, w := range []float64{24, 10, 12, 18} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
}

func (s *Summary) writeServiceTypeSheet(f *excelize.File, headerStyle, boldStyle int) {
	sheet := sheetServiceTypes
	writeHeaders(f, sheet, serviceTypeHeaders, headerStyle)

	var orders int

	for i, st := range s.ServiceTypes {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), st.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), st.Orders)

		orders += st.Orders
	}

	totalRow := len(s.ServiceTypes) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow), orders)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("B%d", totalRow), boldStyle)

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 10)
}
