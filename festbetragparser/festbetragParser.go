package festbetragparser

import (
	"fmt"
	"regexp"
	"strings"

	"festbetrag/festbetragparser/entities"
	"festbetrag/interfaces"
	"festbetrag/logging"
)

// A medication line terminates in the 8-digit PZN.
var pznSuffixRegex = regexp.MustCompile(`(\d{8})\s*$`)

// Minimum token count for a medication line: two substance amounts, package
// size, dosage form, three prices, at least one name token, and the PZN.
const minMedicationTokens = 9

// lineOutcome classifies what a single scanned line produced.
type lineOutcome int

const (
	outcomeRecord lineOutcome = iota
	outcomeHeader
	outcomeEmpty
	outcomeHeaderFooter
	outcomeNoPZN
	outcomeNumericTokens
	outcomeNoDarreichungsform
	outcomeNoContext
)

// ParseFestbetragListe scans a reference-price list text file in a single
// sequential pass and extracts one Medication per parseable line. Group
// headers must be observed in source order before the records they govern,
// so the scan is never chunked or reordered. Per-line failures are counted
// in the report and never abort the run; only an unreadable source stream
// is an error.
func ParseFestbetragListe(path string) ([]entities.Medication, *interfaces.ImportReport, error) {
	scanner, err := openLines(path)
	if err != nil {
		return nil, nil, err
	}

	standDatum := StandDatumFromFilename(path)
	report := &interfaces.ImportReport{StandDatum: standDatum}

	var medications []entities.Medication
	var ctx GroupContext

	for scanner.Scan() {
		report.TotalLines++

		med, newCtx, outcome := processFestbetragLine(scanner.Text(), ctx, standDatum)
		ctx = newCtx

		switch outcome {
		case outcomeRecord:
			medications = append(medications, *med)
			report.Accepted++
		case outcomeHeader:
			report.GroupHeaders++
		case outcomeEmpty:
			report.SkippedEmpty++
		case outcomeHeaderFooter:
			report.SkippedHeaderFooter++
		case outcomeNoPZN:
			report.SkippedNoPZN++
		case outcomeNumericTokens:
			report.SkippedNumericTokens++
		case outcomeNoDarreichungsform:
			report.SkippedNoDarreichungsform++
		case outcomeNoContext:
			report.SkippedNoContext++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	logging.Info("Festbetragsliste scan completed",
		"total_lines", report.TotalLines,
		"group_headers", report.GroupHeaders,
		"accepted", report.Accepted,
		"skipped_no_pzn", report.SkippedNoPZN,
		"skipped_numeric_tokens", report.SkippedNumericTokens,
		"skipped_no_darreichungsform", report.SkippedNoDarreichungsform,
		"skipped_no_context", report.SkippedNoContext,
		"stand_datum", standDatum)

	return medications, report, nil
}

// processFestbetragLine is the per-line step of the scan. The group context
// accumulator is passed in and returned so the scan stays single-writer and
// the step is independently testable.
func processFestbetragLine(raw string, ctx GroupContext, standDatum string) (*entities.Medication, GroupContext, lineOutcome) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ctx, outcomeEmpty
	}

	if isFestbetragHeaderFooter(raw) {
		return nil, ctx, outcomeHeaderFooter
	}

	// Header recognition runs before the PZN check, matching source order:
	// a header replaces the context and yields no record.
	if newCtx, ok := MatchGroupHeader(trimmed); ok {
		return nil, newCtx, outcomeHeader
	}

	pznMatch := pznSuffixRegex.FindStringSubmatch(trimmed)
	if pznMatch == nil {
		return nil, ctx, outcomeNoPZN
	}

	med, outcome := extractMedication(trimmed, pznMatch[1], ctx, standDatum)
	return med, ctx, outcome
}

// extractMedication maps a medication line's tokens, plus the active group
// context, to a typed record. Field positions are located by counting
// numeric tokens from both ends of the line: the first three are the
// substance amounts and the package size, the last three are price,
// reference price and difference regardless of how many tokens lie between.
func extractMedication(line, pzn string, ctx GroupContext, standDatum string) (*entities.Medication, lineOutcome) {
	tokens := Tokenize(line)
	if len(tokens) < minMedicationTokens {
		return nil, outcomeNumericTokens
	}

	pznIdx := -1
	for _, token := range tokens {
		if token.Raw == pzn {
			pznIdx = token.Index
			break
		}
	}
	if pznIdx < 0 {
		return nil, outcomeNoPZN
	}

	numeric := NumericIndices(tokens[:pznIdx])
	if len(numeric) < 6 {
		return nil, outcomeNumericTokens
	}

	sizeIdx := numeric[2]
	preisIdx := numeric[len(numeric)-3]

	// The dosage form is the first all-uppercase alphabetic token strictly
	// between the package size and the price region.
	dformIdx := -1
	for i := sizeIdx + 1; i < preisIdx; i++ {
		if IsDarreichungsformToken(tokens[i].Raw) {
			dformIdx = i
			break
		}
	}
	if dformIdx < 0 {
		return nil, outcomeNoDarreichungsform
	}

	nameParts := make([]string, 0, preisIdx-dformIdx-1)
	for i := dformIdx + 1; i < preisIdx; i++ {
		nameParts = append(nameParts, tokens[i].Raw)
	}
	name := strings.TrimSpace(strings.Join(nameParts, " "))

	if name == "" || !ctx.Active() {
		return nil, outcomeNoContext
	}

	return &entities.Medication{
		Stufe:             ctx.Stufe,
		Festbetragsgruppe: ctx.Gruppe,
		Wirkstoff:         ctx.Wirkstoff,
		Wirkstoffmenge1:   tokens[numeric[0]].Value,
		Wirkstoffmenge2:   tokens[numeric[1]].Value,
		Packungsgroesse:   int(tokens[numeric[2]].Value.IntPart()),
		Darreichungsform:  tokens[dformIdx].Raw,
		Preis:             tokens[preisIdx].Value,
		Festbetrag:        tokens[numeric[len(numeric)-2]].Value,
		Differenz:         tokens[numeric[len(numeric)-1]].Value,
		Arzneimittelname:  name,
		Pzn:               pzn,
		StandDatum:        standDatum,
	}, outcomeRecord
}
