package products

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ParseCSV reads a comma separated document with a header row into products.
// Blank lines and rows without any non-blank cell are skipped; short rows
// leave the missing columns empty.
func ParseCSV(r io.Reader) ([]Product, error) {
	reader := csv.NewReader(r)
	reader.Comma = ','
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: ErrMissingHeader}
		}
		return nil, &ParseError{Line: lineOf(err, 1), Err: err}
	}
	columns := normalizeHeader(header)

	out := make([]Product, 0, 128)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: lineOf(err, 0), Err: err}
		}
		if blankRow(row) {
			continue
		}
		fields := make(map[string]string, len(columns))
		for i, column := range columns {
			if column == "" {
				continue
			}
			if i < len(row) {
				fields[column] = row[i]
			} else {
				fields[column] = ""
			}
		}
		out = append(out, FromFields(fields))
	}
	return out, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func lineOf(err error, fallback int) int {
	var perr *csv.ParseError
	if errors.As(err, &perr) && perr.Line > 0 {
		return perr.Line
	}
	return fallback
}
