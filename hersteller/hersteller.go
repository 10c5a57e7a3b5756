// Package hersteller derives the manufacturer from a medication name. List
// names follow the "WIRKSTOFF HERSTELLER DOSIERUNG" convention, so the
// extraction is a known-abbreviation match first and a positional heuristic
// second.
package hersteller

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Map resolves manufacturer abbreviations and brand fragments, as they appear
// inside medication names, to full company names.
var Map = map[string]string{
	// Common German pharmaceutical manufacturers
	"ABZ":      "AbZ Pharma GmbH",
	"ACCORD":   "Accord Healthcare GmbH",
	"AL":       "ALIUD Pharma GmbH",
	"ALIUD":    "ALIUD Pharma GmbH",
	"ARISTO":   "Aristo Pharma GmbH",
	"ARX":      "ARX Healthcare",
	"AXIROMED": "Axiromed GmbH",
	"BASICS":   "BASICS GmbH",
	"BETA":     "betapharm Arzneimittel GmbH",
	"CIPLA":    "Cipla Europe NV",
	"CT":       "CT Arzneimittel GmbH",
	"DEVATIS":  "Devatis GmbH",
	"GLENMARK": "Glenmark Pharmaceuticals",
	"HEUMANN":  "HEUMANN PHARMA GmbH",
	"HEXAL":    "Hexal AG",
	"HOLSTEN":  "Holsten Pharma",
	"KRKA":     "KRKA Pharma",
	"MEDAC":    "medac GmbH",
	"MYLAN":    "Mylan Healthcare GmbH",
	"QILU":     "Qilu Pharma",
	"RATIO":    "ratiopharm GmbH",
	"RATIOPHARM": "ratiopharm GmbH",
	"SANDOZ":   "Sandoz Pharmaceuticals GmbH",
	"STADA":    "STADA Arzneimittel AG",
	"SUN":      "Sun Pharmaceutical",
	"TEVA":     "TEVA GmbH",
	"UROPHARM": "Uropharm GmbH",
	"VIVANTA":  "Vivanta Pharma",
	"VITANE":   "Vitane Pharma",
	"ZEN":      "Zentiva Pharma",
	"ZENTIVA":  "Zentiva Pharma",
	"1A":       "1A Pharma GmbH",
	"1 A":      "1A Pharma GmbH",

	// Additional manufacturers
	"BENDA":         "Benda Healthcare",
	"CC PHARMA":     "CC Pharma GmbH",
	"FAIRMED":       "Fair-Med Healthcare",
	"GRY":           "GRY Pharma",
	"HIK":           "Hikma Pharma",
	"PHARES":        "Phares Pharma",
	"PUREN":         "Puren Pharma",
	"PHARMA":        "Pharma GmbH",
	"AMGEN":         "Amgen GmbH",
	"ASTRAZENECA":   "AstraZeneca GmbH",
	"BAYER":         "Bayer Vital GmbH",
	"BERLIN-CHEMIE": "Berlin-Chemie AG",
	"BOEHRINGER":    "Boehringer Ingelheim",
	"MSD":           "MSD Sharp & Dohme",
	"NOVARTIS":      "Novartis Pharma",
	"PFIZER":        "Pfizer Pharma",
	"ROCHE":         "Roche Pharma AG",
	"SANOFI":        "Sanofi-Aventis Deutschland",

	// Brand names where the brand identifies the manufacturer
	"VELMETIA": "MSD Sharp & Dohme",
	"JANUVIA":  "MSD Sharp & Dohme",
	"ZYTIGA":   "Janssen-Cilag",
}

// Longest abbreviations are matched first so "RATIOPHARM" wins over "RATIO"
// and "1 A" over "AL" fragments.
var byLength = func() []string {
	keys := make([]string, 0, len(Map))
	for key := range Map {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

var (
	boundaryPatterns = func() map[string]*regexp.Regexp {
		patterns := make(map[string]*regexp.Regexp, len(Map))
		for key := range Map {
			patterns[key] = regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`)
		}
		return patterns
	}()

	digitRegex  = regexp.MustCompile(`\d`)
	germanTitle = cases.Title(language.German)
)

// Dosage units that disqualify the second name token as a manufacturer
// candidate.
var dosageUnits = map[string]bool{
	"MG": true,
	"ML": true,
	"G":  true,
	"ST": true,
}

// ExtractFromName derives a manufacturer from a medication name. Known
// abbreviations are matched as whole words, longest first; failing that, the
// second name token is taken as a brand candidate unless it reads like a
// dosage. Returns "" when neither strategy applies.
func ExtractFromName(name string) string {
	if name == "" {
		return ""
	}

	nameUpper := strings.ToUpper(name)
	for _, key := range byLength {
		if boundaryPatterns[key].MatchString(nameUpper) {
			return Map[key]
		}
	}

	parts := strings.Fields(name)
	if len(parts) < 2 {
		return ""
	}

	second := strings.ToUpper(parts[1])
	if digitRegex.MatchString(second) || dosageUnits[second] {
		return ""
	}
	if len(second) < 3 || strings.HasSuffix(second, "MG") {
		return ""
	}
	return germanTitle.String(strings.ToLower(second))
}
