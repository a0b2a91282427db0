package equipcsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	enc "github.com/MrJamesThe3rd/fieldservice/internal/encoding"
	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
)

var dateLayouts = []string{time.DateOnly, "02/01/2006", "02-01-2006"}

// Parser reads equipment spreadsheets exported as CSV. It detects the
// charset, the delimiter, and which header profile the file uses.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader, customerID uuid.UUID) ([]equipment.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching equipment layout found: expected name and serial number columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx, customerID)
}

// detectDelimiter picks ';' when the first line has more semicolons than commas.
func detectDelimiter(content []byte) rune {
	line, _, _ := bytes.Cut(content, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}

	return ','
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || name == "" {
		return ""
	}

	return cellValue(row, idx)
}

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows to create params. headerIdx is the 0-based
// header position in the file and is used to report 1-based row numbers.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerIdx int, customerID uuid.UUID) ([]equipment.CreateParams, error) {
	var out []equipment.CreateParams

	for i, row := range rows {
		rowNum := headerIdx + i + 2

		name := cols.get(row, p.NameCol)
		serial := cols.get(row, p.SerialCol)

		if name == "" && serial == "" {
			continue
		}

		if name == "" {
			return nil, fmt.Errorf("row %d: missing name", rowNum)
		}

		params := equipment.CreateParams{
			CustomerID:   customerID,
			Name:         name,
			SerialNumber: serial,
			Model:        cols.get(row, p.ModelCol),
			Manufacturer: cols.get(row, p.MakerCol),
			Location:     cols.get(row, p.LocationCol),
			Notes:        cols.get(row, p.NotesCol),
		}

		dates := []struct {
			col string
			dst **time.Time
		}{
			{p.PurchaseCol, &params.PurchaseDate},
			{p.WarrantyFrom, &params.WarrantyStart},
			{p.WarrantyTo, &params.WarrantyEnd},
		}

		for _, d := range dates {
			v, err := parseDate(cols.get(row, d.col))
			if err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", rowNum, d.col, err)
			}

			*d.dst = v
		}

		if s := cols.get(row, p.IntervalCol); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", rowNum, p.IntervalCol, err)
			}

			params.ServiceIntervalDays = n
		}

		out = append(out, params)
	}

	return out, nil
}

// parseDate returns nil for an empty cell.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("unrecognized date %q", s)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
