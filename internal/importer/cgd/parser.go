package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/moneyballs/internal/encoding"
	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

var ErrUnknownFormat = errors.New("no matching CGD format found: expected columns for conta, extrato, or cartão")

// Parser reads CGD bank CSV exports. The export flavour (conta, extrato,
// cartão) is picked by matching the header row against known profiles.
// Expenses come out as negative amounts.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]entry.Form, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrUnknownFormat
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex, len(row))

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if cols.hasAll(profiles[i].requiredCols()) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func (c colIndex) hasAll(names []string) bool {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows turns the data rows after the header into forms. Rows without a
// date or a non-zero amount, such as footers and page markers, are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerIdx int) ([]entry.Form, error) {
	var forms []entry.Form

	for i, row := range rows {
		if !hasDate(cellValue(row, cols[p.DateCol])) {
			continue
		}

		name := cellValue(row, cols[p.NameCol])
		if name == "" {
			return nil, fmt.Errorf("row %d: missing description", headerIdx+i+2)
		}

		amount, ok := rowAmount(p, cols, row)
		if !ok {
			continue
		}

		forms = append(forms, entry.Form{Name: name, Amount: &amount})
	}

	return forms, nil
}

func hasDate(s string) bool {
	_, err := time.Parse("02-01-2006", s)
	return err == nil
}

func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	if p.AmountMode == amountSigned {
		return nonZero(cellValue(row, cols[p.AmountCol]))
	}

	if d, ok := nonZero(cellValue(row, cols[p.DebitCol])); ok {
		return d.Abs().Neg(), true
	}

	if d, ok := nonZero(cellValue(row, cols[p.CreditCol])); ok {
		return d.Abs(), true
	}

	return decimal.Zero, false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
