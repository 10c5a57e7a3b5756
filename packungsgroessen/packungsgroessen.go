// Package packungsgroessen classifies package sizes into the statutory
// N1/N2/N3 bands of the Packungsgroessenverordnung. The thresholds vary by
// dosage-form family and must stay exactly as listed for compatibility with
// previously classified data.
package packungsgroessen

import (
	"fmt"
	"strings"
)

// Grenzen is an upper-bound pair for one dosage form: sizes up to N1Max are
// N1, up to N2Max are N2, everything above is N3.
type Grenzen struct {
	N1Max int
	N2Max int
}

// Regeln maps dosage-form codes to their band thresholds. Units differ per
// family (units, ml, g, single doses); the bounds already reflect that.
var Regeln = map[string]Grenzen{
	// Solid oral forms
	"TABL":  {10, 30},
	"FTBL":  {10, 30},
	"TBLM":  {10, 30},
	"TABR":  {10, 30},
	"TABRM": {10, 30},
	"TABMD": {10, 30},
	"KAPS":  {10, 30},
	"KAPM":  {10, 30},
	"KAPR":  {10, 30},
	"DRAG":  {10, 30},
	"KTAB":  {10, 30},
	"TABB":  {10, 30},
	"TBLL":  {10, 30},
	"SUTA":  {10, 30},
	"STABL": {10, 30},
	"UTBL":  {10, 30},

	// Liquid oral forms (ml)
	"LSG":   {50, 100},
	"TROP":  {10, 30},
	"SUSP":  {50, 100},
	"EMULE": {50, 100},
	"SIRP":  {100, 200},

	// Rectal and vaginal forms
	"SUPP": {5, 10},
	"VASP": {5, 10},
	"VAGT": {6, 12},

	// Topical forms (g or ml)
	"CREM": {20, 50},
	"SALB": {20, 50},
	"GEL":  {20, 50},
	"LOTI": {30, 100},

	// Ophthalmic forms
	"AUGT": {5, 10},
	"AUGG": {3, 10},

	// Nasal forms (ml)
	"NSPR": {10, 20},
	"NTRP": {10, 20},

	// Inhalants
	"INHP": {30, 100},
	"INHL": {20, 60},

	// Injectables (ampoules)
	"AMP":  {5, 10},
	"IJLG": {5, 10},

	// Transdermal patches
	"PFLA": {4, 12},

	// Granulates and powders (sachets)
	"GRAN":  {10, 30},
	"PULVE": {10, 30},
}

// Default thresholds for codes without a family-specific rule.
var Default = Grenzen{10, 30}

// Band names.
const (
	N1      = "N1"
	N2      = "N2"
	N3      = "N3"
	Unknown = "Unknown"
)

// N classifies a package size under the thresholds for the given dosage-form
// code. Sizes of zero or less cannot be banded and yield Unknown.
func N(packungsgroesse int, darreichungsform string) string {
	if packungsgroesse <= 0 {
		return Unknown
	}

	grenzen, ok := Regeln[strings.ToUpper(strings.TrimSpace(darreichungsform))]
	if !ok {
		grenzen = Default
	}

	switch {
	case packungsgroesse <= grenzen.N1Max:
		return N1
	case packungsgroesse <= grenzen.N2Max:
		return N2
	default:
		return N3
	}
}

// Beschreibung returns the statutory description of a band, or "" for
// Unknown or unrecognized input.
func Beschreibung(nGroesse string) string {
	switch nGroesse {
	case N1:
		return "Kleinpackung"
	case N2:
		return "Normalpackung"
	case N3:
		return "Großpackung"
	}
	return ""
}

// MitBeschreibung classifies and annotates in one step, e.g. "N3
// (Großpackung)". Returns "" when the size cannot be banded.
func MitBeschreibung(packungsgroesse int, darreichungsform string) string {
	nGroesse := N(packungsgroesse, darreichungsform)
	if nGroesse == Unknown {
		return ""
	}
	return fmt.Sprintf("%s (%s)", nGroesse, Beschreibung(nGroesse))
}
