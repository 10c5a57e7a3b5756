package festbetragparser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProcessZuzahlungLine_FullEntry(t *testing.T) {
	entry, outcome := processZuzahlungLine("IBUPROFEN AL 400 akut Filmtabletten    11223344      12,50")

	if outcome != outcomeRecord {
		t.Fatalf("Expected a record, got outcome %d", outcome)
	}
	if entry.Pzn != "11223344" {
		t.Errorf("Expected PZN '11223344', got %q", entry.Pzn)
	}
	if entry.Name != "IBUPROFEN AL 400 akut Filmtabletten" {
		t.Errorf("Unexpected name %q", entry.Name)
	}
	if entry.Preis != "12.50" {
		t.Errorf("Expected normalized price '12.50', got %q", entry.Preis)
	}
}

func TestProcessZuzahlungLine_MissingPriceStillValid(t *testing.T) {
	entry, outcome := processZuzahlungLine("PARACETAMOL STADA 500mg Tabletten   55667788")

	if outcome != outcomeRecord {
		t.Fatalf("Expected a record without price, got outcome %d", outcome)
	}
	if entry.Preis != "" {
		t.Errorf("Expected empty price, got %q", entry.Preis)
	}
	if entry.Pzn != "55667788" {
		t.Errorf("Expected PZN '55667788', got %q", entry.Pzn)
	}
}

func TestProcessZuzahlungLine_PZNAnywhere(t *testing.T) {
	entry, outcome := processZuzahlungLine("METFORMIN HEXAL 850  99887766  N3 Grosspackung  7,25")

	if outcome != outcomeRecord {
		t.Fatalf("Expected a record, got outcome %d", outcome)
	}
	if entry.Pzn != "99887766" {
		t.Errorf("Expected first 8-digit run as PZN, got %q", entry.Pzn)
	}
	if entry.Name != "METFORMIN HEXAL 850" {
		t.Errorf("Expected name before the PZN, got %q", entry.Name)
	}
}

func TestProcessZuzahlungLine_Skips(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		expected lineOutcome
	}{
		{"TooShort", "kurz", outcomeEmpty},
		{"Blank", "      ", outcomeEmpty},
		{"ColumnCaption", "Arzneimittelname                    PZN    Preis", outcomeHeaderFooter},
		{"NoPZN", "IBUPROFEN AL 400 akut Filmtabletten 12,50", outcomeNoPZN},
		{"NoName", "                  11223344    12,50    Festbetragsstufe II", outcomeNoContext},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, outcome := processZuzahlungLine(tc.line)
			if outcome != tc.expected {
				t.Errorf("Expected outcome %d, got %d", tc.expected, outcome)
			}
			if entry != nil {
				t.Error("Expected no entry for a skipped line")
			}
		})
	}
}

func TestParseZuzahlungsListe(t *testing.T) {
	content := "" +
		"Arzneimittelname                              PZN        Preis\n" +
		"IBUPROFEN AL 400 akut Filmtabletten           11223344   12,50\n" +
		"PARACETAMOL STADA 500mg Tabletten             55667788\n" +
		"short\n"

	dir := t.TempDir()
	path := filepath.Join(dir, "zuzahlungsbefreit.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	entries, report, err := ParseZuzahlungsListe(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if report.Accepted != 2 {
		t.Errorf("Expected 2 accepted, got %d", report.Accepted)
	}
	if report.SkippedHeaderFooter != 1 {
		t.Errorf("Expected 1 caption skip, got %d", report.SkippedHeaderFooter)
	}
	if report.SkippedEmpty != 1 {
		t.Errorf("Expected 1 short-line skip, got %d", report.SkippedEmpty)
	}
}
