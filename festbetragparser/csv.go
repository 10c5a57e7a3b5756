package festbetragparser

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"festbetrag/festbetragparser/entities"
	"festbetrag/logging"
)

// rowMap turns an exemption entry into its CSV column set. Optional columns
// are omitted when empty so the written header reflects what the data
// actually carries.
func rowMap(entry entities.Zuzahlungsbefreiung) map[string]string {
	row := map[string]string{
		"pzn":  entry.Pzn,
		"name": entry.Name,
	}
	if entry.Preis != "" {
		row["preis"] = entry.Preis
	}
	if entry.Hersteller != "" {
		row["hersteller"] = entry.Hersteller
	}
	return row
}

// WriteZuzahlungCSV writes exemption entries to a CSV snapshot. The header is
// the sorted union of all columns present across the entries, so downstream
// imports do not depend on any single row being complete.
func WriteZuzahlungCSV(path string, entries []entities.Zuzahlungsbefreiung) error {
	columns := make(map[string]bool)
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		row := rowMap(entry)
		for column := range row {
			columns[column] = true
		}
		rows = append(rows, row)
	}

	header := make([]string, 0, len(columns))
	for column := range columns {
		header = append(header, column)
	}
	sort.Strings(header)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, column := range header {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	logging.Info("Zuzahlung CSV snapshot written", "path", path, "entries", len(rows))
	return nil
}

// ReadZuzahlungCSV loads a previously written exemption snapshot. Columns are
// resolved by header name, and PZNs are zero-padded back to eight digits
// because spreadsheet round-trips strip leading zeros.
func ReadZuzahlungCSV(path string) ([]entities.Zuzahlungsbefreiung, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columnIndex := make(map[string]int, len(records[0]))
	for i, column := range records[0] {
		columnIndex[strings.TrimSpace(strings.ToLower(column))] = i
	}
	if _, ok := columnIndex["pzn"]; !ok {
		return nil, fmt.Errorf("%s has no pzn column", path)
	}

	field := func(row []string, column string) string {
		idx, ok := columnIndex[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	entries := make([]entities.Zuzahlungsbefreiung, 0, len(records)-1)
	for _, row := range records[1:] {
		pzn := field(row, "pzn")
		if pzn == "" {
			continue
		}
		if len(pzn) < 8 {
			pzn = strings.Repeat("0", 8-len(pzn)) + pzn
		}
		entries = append(entries, entities.Zuzahlungsbefreiung{
			Pzn:        pzn,
			Name:       field(row, "name"),
			Hersteller: field(row, "hersteller"),
			Preis:      strings.ReplaceAll(field(row, "preis"), ",", "."),
		})
	}
	return entries, nil
}
