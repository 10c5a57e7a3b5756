// Package darreichungsformen resolves dosage-form codes to their long German
// descriptions. Resolution is three-tiered: the official code table, a
// fallback table of non-standard codes observed in source data, and finally
// identity passthrough of the uppercased code.
package darreichungsformen

import (
	"fmt"
	"strings"
)

// Offiziell is the official dosage-form code table (BfArM list, Stand
// 01.10.2025).
var Offiziell = map[string]string{
	"AMP":   "Ampullen",
	"AMPD":  "Depotampullen",
	"AMPT":  "Trinkampullen",
	"ANSLB": "Augen- und Nasensalbe",
	"AUGG":  "Augengel",
	"AUGS":  "Augensalbe",
	"AUGT":  "Augentropfen",
	"BTL":   "Beutel",
	"CREM":  "Creme",
	"DA":    "Druckgasinhalation",
	"DRAG":  "Dragees",
	"EDAT":  "Augentropfen (Einzeldosis)",
	"EDGL":  "Augengel (Einzeldosis)",
	"EMUL":  "Emulsion zur Anwendung auf der Haut",
	"EMULE": "Emulsion zum Einnehmen",
	"EXPT":  "Expidettäfelchen",
	"FTBL":  "Filmtabletten",
	"FTBM":  "Magensaftresistente Filmtabletten",
	"GEL":   "Gel",
	"GELE":  "Gel zum Einnehmen",
	"GRAM":  "Magensaftresistentes Granulat",
	"GRAN":  "Granulat",
	"IFIJ":  "Injektions-/Infusionslösung",
	"IFLG":  "Infusionslösung",
	"IJLG":  "Injektionslösung",
	"IJSU":  "Injektionssuspension",
	"INHK":  "Hartkapseln mit Pulver zur Inhalation",
	"INHL":  "Lösung zur Inhalation",
	"INHP":  "Pulver zur Inhalation",
	"KAPM":  "Magensaftresistente Kapseln",
	"KAPR":  "Retardkapseln",
	"KAPS":  "Kapseln",
	"KGUM":  "Kaugummis",
	"KOMB":  "Kombipackung",
	"KTAB":  "Kautabletten",
	"LOTI":  "Lotion",
	"LSG":   "Lösung zum Einnehmen",
	"LYOP":  "Lyophilisat zum Einnehmen",
	"NCREM": "Nasencreme",
	"NGEL":  "Nasengel",
	"NSPR":  "Nasenspray",
	"NTRP":  "Nasentropfen",
	"PAST":  "Paste",
	"PFLA":  "Transdermale Pflaster",
	"PLVD":  "Einzeldosiertes Pulver zur Inhalation",
	"PSTI":  "Pastillen",
	"PULV":  "Pulver",
	"PULVE": "Pulver zum Einnehmen",
	"RGRAN": "Retardgranulat",
	"RSCHA": "Rektalschaum",
	"RSUSP": "Rektalsuspension",
	"SALB":  "Salbe",
	"SCHAU": "Schaum zur Anwendung auf der Haut",
	"SIRP":  "Sirup",
	"SPRY":  "Spray zur Anwendung in der Mundhöhle",
	"SPRYX": "Spray zur Anwendung auf der Haut",
	"STABL": "Schmelztabletten",
	"SUPP":  "Zäpfchen",
	"SUSP":  "Suspension zum Einnehmen",
	"SUTA":  "Sublingualtabletten",
	"TABB":  "Brausetabletten",
	"TABL":  "Tabletten",
	"TABMD": "Tabletten mit veränderter Wirkstofffreisetzung",
	"TABR":  "Retardtabletten",
	"TABRM": "Magensaftresistente Retardtabletten",
	"TBLL":  "Lutschtabletten",
	"TBLM":  "Magensaftresistente Tabletten",
	"TROP":  "Tropfen zum Einnehmen",
	"TTAB":  "Tabletten zur Herstellung einer Lösung",
	"UTBL":  "Überzogene Tabletten",
	"VACR":  "Vaginalcreme",
	"VAGT":  "Vaginaltabletten",
	"VASP":  "Vaginalzäpfchen",
}

// Fallback covers code variants that appear in extracted list text but are
// not on the official list, mostly print abbreviations and legacy spellings.
var Fallback = map[string]string{
	"TAB":  "Tabletten",
	"TBL":  "Tabletten",
	"FTA":  "Filmtabletten",
	"FILM": "Filmtabletten",
	"KAP":  "Kapseln",
	"HKP":  "Hartkapseln",
	"WKP":  "Weichkapseln",
	"RET":  "Retardtabletten",
	"REK":  "Retardkapseln",
	"BTA":  "Brausetabletten",
	"LUT":  "Lutschtabletten",
	"SMT":  "Schmelztabletten",
	"AMPU": "Ampullen",
	"INJ":  "Injektionslösung",
	"INF":  "Infusionslösung",
	"SUP":  "Zäpfchen",
	"TRO":  "Tropfen zum Einnehmen",
	"SIR":  "Sirup",
	"SLB":  "Salbe",
	"CRE":  "Creme",
	"PLV":  "Pulver",
	"GRA":  "Granulat",
	"SPR":  "Spray",
	"PFL":  "Transdermale Pflaster",
}

// Lang resolves a code to its long form, or returns the code unchanged when
// no tier knows it.
func Lang(kuerzel string) string {
	if kuerzel == "" {
		return ""
	}

	upper := strings.ToUpper(strings.TrimSpace(kuerzel))
	if lang, ok := Offiziell[upper]; ok {
		return lang
	}
	if lang, ok := Fallback[upper]; ok {
		return lang
	}
	return kuerzel
}

// MitKuerzel resolves a code to "Langform (CODE)". Codes unknown to both
// tables pass through as the bare uppercased code.
func MitKuerzel(kuerzel string) string {
	if kuerzel == "" {
		return ""
	}

	upper := strings.ToUpper(strings.TrimSpace(kuerzel))
	if lang, ok := Offiziell[upper]; ok {
		return fmt.Sprintf("%s (%s)", lang, upper)
	}
	if lang, ok := Fallback[upper]; ok {
		return fmt.Sprintf("%s (%s)", lang, upper)
	}
	return upper
}
