package festbetragparser

import (
	"regexp"
	"strings"
)

// GroupContext is the Festbetrag group state carried across a file scan. A
// group header line replaces it and every following medication line inherits
// it until the next header. It is passed into and returned from the per-line
// step explicitly; there is no ambient parser state.
type GroupContext struct {
	Stufe     string // regulatory level, the leading integer of the header
	Gruppe    string // group name as printed, "Gruppe N" suffix stripped
	Wirkstoff string // active substance, derived from the group name
}

// Active reports whether a group header has been seen yet. Medication lines
// before the first header cannot be attributed and are skipped.
func (g GroupContext) Active() bool {
	return g.Wirkstoff != ""
}

// Header format: "  1    Abirateron, Gruppe 1" or "  2    5-Fluorouracil".
// The leading integer is the Stufe, the rest is the group name with an
// optional ", Gruppe N" annotation.
var (
	gruppenHeaderRegex = regexp.MustCompile(`^(\d+)\s+(.+?)(?:,\s*Gruppe\s*\d+)?$`)
	gruppenSuffixRegex = regexp.MustCompile(`,\s*Gruppe\s*\d+`)
)

// MatchGroupHeader checks a trimmed line against the group-header pattern and
// returns the replacement context when it matches. Header lines yield no
// record.
func MatchGroupHeader(line string) (GroupContext, bool) {
	match := gruppenHeaderRegex.FindStringSubmatch(line)
	if match == nil {
		return GroupContext{}, false
	}

	gruppe := strings.TrimSpace(match[2])
	wirkstoff := strings.TrimSpace(gruppenSuffixRegex.ReplaceAllString(gruppe, ""))

	return GroupContext{
		Stufe:     match[1],
		Gruppe:    gruppe,
		Wirkstoff: wirkstoff,
	}, true
}

// Repeating page furniture of the Festbetragsliste. Any line containing one
// of these is dropped before header or record extraction is attempted.
var festbetragSkipVocabulary = []string{
	"GKV-Spitzenverband",
	"Seite",
	"Festbetrags",
	"Stufe Festbetragsgruppe",
}

func isFestbetragHeaderFooter(line string) bool {
	for _, vocab := range festbetragSkipVocabulary {
		if strings.Contains(line, vocab) {
			return true
		}
	}
	// The column caption row spells "Wirkstoff" and "menge" in two stacked
	// cells that pdftotext merges onto one line.
	return strings.Contains(line, "Wirkstoff") && strings.Contains(line, "menge")
}
