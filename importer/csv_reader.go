package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

type CSVReader struct{}

func (r *CSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(headers) > 0 {
		// Spreadsheet exports often prefix the first header with a BOM.
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
	normalizedHeaders := normalizeHeaders(headers)

	records := make([]Record, 0, 128)
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNumber+1, err)
		}

		rowNumber++
		records = append(records, buildRecord(normalizedHeaders, row, rowNumber))
	}

	return records, nil
}
