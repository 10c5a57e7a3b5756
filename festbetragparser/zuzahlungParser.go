package festbetragparser

import (
	"fmt"
	"regexp"
	"strings"

	"festbetrag/festbetragparser/entities"
	"festbetrag/interfaces"
	"festbetrag/logging"
)

// The exemption list is column-drifted text, so the PZN is located anywhere
// in the line, not just at its end.
var (
	pznAnywhereRegex   = regexp.MustCompile(`\b(\d{8})\b`)
	zuzahlungPreisRegex = regexp.MustCompile(`\d+[,.]\d{2}`)
)

// Lines shorter than this are page furniture or column fragments, never a
// full exemption entry.
const minZuzahlungLineLength = 20

// Column captions of the exemption list.
var zuzahlungSkipVocabulary = []string{
	"Arzneimittelname",
	"PZN",
	"Wirkstoff",
}

func isZuzahlungHeaderFooter(line string) bool {
	for _, vocab := range zuzahlungSkipVocabulary {
		if strings.Contains(line, vocab) {
			return true
		}
	}
	return false
}

// ParseZuzahlungsListe scans a co-payment exemption list text file and
// extracts one entry per line that carries a PZN. Entries are keyed by PZN
// alone; the price column is informational and may be absent on wrapped
// lines.
func ParseZuzahlungsListe(path string) ([]entities.Zuzahlungsbefreiung, *interfaces.ImportReport, error) {
	scanner, err := openLines(path)
	if err != nil {
		return nil, nil, err
	}

	report := &interfaces.ImportReport{StandDatum: StandDatumFromFilename(path)}

	var entries []entities.Zuzahlungsbefreiung

	for scanner.Scan() {
		report.TotalLines++

		entry, outcome := processZuzahlungLine(scanner.Text())
		switch outcome {
		case outcomeRecord:
			entries = append(entries, *entry)
			report.Accepted++
		case outcomeEmpty:
			report.SkippedEmpty++
		case outcomeHeaderFooter:
			report.SkippedHeaderFooter++
		case outcomeNoPZN:
			report.SkippedNoPZN++
		case outcomeNoContext:
			report.SkippedNoContext++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	logging.Info("Zuzahlungsbefreiungsliste scan completed",
		"total_lines", report.TotalLines,
		"accepted", report.Accepted,
		"skipped_no_pzn", report.SkippedNoPZN,
		"skipped_short_or_empty", report.SkippedEmpty,
		"skipped_header_footer", report.SkippedHeaderFooter)

	return entries, report, nil
}

// processZuzahlungLine extracts a single exemption entry. The name is
// everything before the first PZN, the price is the last decimal amount after
// it. Both the name and price columns wrap independently in the source
// layout, so only the PZN is required.
func processZuzahlungLine(raw string) (*entities.Zuzahlungsbefreiung, lineOutcome) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < minZuzahlungLineLength {
		return nil, outcomeEmpty
	}

	if isZuzahlungHeaderFooter(trimmed) {
		return nil, outcomeHeaderFooter
	}

	loc := pznAnywhereRegex.FindStringSubmatchIndex(trimmed)
	if loc == nil {
		return nil, outcomeNoPZN
	}
	pzn := trimmed[loc[2]:loc[3]]

	name := strings.TrimSpace(trimmed[:loc[2]])
	if name == "" {
		return nil, outcomeNoContext
	}

	var preis string
	rest := trimmed[loc[3]:]
	if amounts := zuzahlungPreisRegex.FindAllString(rest, -1); len(amounts) > 0 {
		preis = strings.ReplaceAll(amounts[len(amounts)-1], ",", ".")
	}

	return &entities.Zuzahlungsbefreiung{
		Pzn:     pzn,
		Name:    name,
		Preis:   preis,
		RawLine: trimmed,
	}, outcomeRecord
}
