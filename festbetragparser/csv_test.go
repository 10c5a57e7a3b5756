package festbetragparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"festbetrag/festbetragparser/entities"
)

func TestWriteZuzahlungCSV_UnionHeader(t *testing.T) {
	entries := []entities.Zuzahlungsbefreiung{
		{Pzn: "11223344", Name: "IBUPROFEN AL 400", Preis: "12.50"},
		{Pzn: "55667788", Name: "PARACETAMOL STADA"},
		{Pzn: "99887766", Name: "METFORMIN HEXAL", Hersteller: "Hexal AG"},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "zuzahlungsbefreit.csv")

	if err := WriteZuzahlungCSV(path, entries); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if lines[0] != "hersteller,name,preis,pzn" {
		t.Errorf("Expected sorted union header, got %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("Expected header plus 3 rows, got %d lines", len(lines))
	}
}

func TestReadZuzahlungCSV_RoundTrip(t *testing.T) {
	entries := []entities.Zuzahlungsbefreiung{
		{Pzn: "11223344", Name: "IBUPROFEN AL 400", Preis: "12.50"},
		{Pzn: "55667788", Name: "PARACETAMOL STADA", Hersteller: "STADA Arzneimittel AG"},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "zuzahlungsbefreit.csv")
	if err := WriteZuzahlungCSV(path, entries); err != nil {
		t.Fatal(err)
	}

	got, err := ReadZuzahlungCSV(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].Pzn != "11223344" || got[0].Preis != "12.50" {
		t.Errorf("Unexpected first entry: %+v", got[0])
	}
	if got[1].Hersteller != "STADA Arzneimittel AG" {
		t.Errorf("Expected manufacturer to round-trip, got %q", got[1].Hersteller)
	}
}

func TestReadZuzahlungCSV_ZeroPadsPZN(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")

	// Spreadsheet exports strip leading zeros from the PZN column.
	content := "name,preis,pzn\nNIEDRIGPREIS GENERIKUM,3.99,123456\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadZuzahlungCSV(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(got))
	}
	if got[0].Pzn != "00123456" {
		t.Errorf("Expected zero-padded PZN '00123456', got %q", got[0].Pzn)
	}
}

func TestReadZuzahlungCSV_MissingPZNColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv")
	if err := os.WriteFile(path, []byte("name,preis\nX,1.00\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadZuzahlungCSV(path); err == nil {
		t.Error("Expected an error for a CSV without a pzn column")
	}
}
