package festbetragparser

import (
	"festbetrag/festbetragparser/entities"
	"festbetrag/interfaces"
)

// FestbetragParser implements the ListParser contract over the package-level
// scan functions.
type FestbetragParser struct{}

// NewFestbetragParser creates a new parser instance.
func NewFestbetragParser() *FestbetragParser {
	return &FestbetragParser{}
}

// ParseFestbetragListe scans a reference-price list text file.
func (p *FestbetragParser) ParseFestbetragListe(path string) ([]entities.Medication, *interfaces.ImportReport, error) {
	return ParseFestbetragListe(path)
}

// ParseZuzahlungsListe scans a co-payment exemption list text file.
func (p *FestbetragParser) ParseZuzahlungsListe(path string) ([]entities.Zuzahlungsbefreiung, *interfaces.ImportReport, error) {
	return ParseZuzahlungsListe(path)
}

// Ensure FestbetragParser implements the ListParser contract.
var _ interfaces.ListParser = (*FestbetragParser)(nil)
