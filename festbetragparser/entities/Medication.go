package entities

import "github.com/shopspring/decimal"

// Medication is one package configuration of a product from the
// Festbetragsliste. The composite key (Pzn, Packungsgroesse,
// Darreichungsform) identifies a row; distinct package configurations of the
// same product are separate rows sharing the group attributes.
type Medication struct {
	Stufe             string          `json:"stufe"`
	Festbetragsgruppe string          `json:"festbetragsgruppe"`
	Wirkstoff         string          `json:"wirkstoff"`
	Wirkstoffmenge1   decimal.Decimal `json:"wirkstoffmenge1"`
	Wirkstoffmenge2   decimal.Decimal `json:"wirkstoffmenge2"`
	Packungsgroesse   int             `json:"packungsgroesse"`
	Darreichungsform  string          `json:"darreichungsform"`
	Preis             decimal.Decimal `json:"preis"`
	Festbetrag        decimal.Decimal `json:"festbetrag"`
	Differenz         decimal.Decimal `json:"differenz"`
	Arzneimittelname  string          `json:"arzneimittelname"`
	Pzn               string          `json:"pzn"`
	StandDatum        string          `json:"standDatum"`
	Zuzahlungsbefreit bool            `json:"zuzahlungsbefreit"`
	Hersteller        string          `json:"hersteller,omitempty"`
}
