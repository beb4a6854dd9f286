package sample

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses a comma-separated sample whose first record holds the
// column names. Blank lines are skipped by the csv reader.
func ReadCSV(r io.Reader) (*Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("sample: read header: %w", err)
	}
	for j := range header {
		header[j] = strings.TrimSpace(header[j])
	}

	var rows [][]float64
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sample: line %d: %w", line, err)
		}
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("sample: line %d column %q: %w", line, header[j], err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	return New(header, rows)
}

// WriteCSV writes the sample with a header record.
func (s *Sample) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.names); err != nil {
		return err
	}
	rec := make([]string, s.Dim())
	for i := 0; i < s.Size(); i++ {
		for j := range rec {
			rec[j] = strconv.FormatFloat(s.data.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
