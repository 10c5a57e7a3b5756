package entities

// Zuzahlungsbefreiung is one entry of the co-payment exemption list. It never
// creates medication rows, it only flags existing ones by PZN match. Preis is
// kept as the normalized source string ("13.96") because the list sometimes
// omits it and the entry is still useful as a status/manufacturer update.
type Zuzahlungsbefreiung struct {
	Pzn        string `json:"pzn"`
	Name       string `json:"name"`
	Hersteller string `json:"hersteller,omitempty"`
	Preis      string `json:"preis,omitempty"`
	RawLine    string `json:"-"`
}
