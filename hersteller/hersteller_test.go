package hersteller

import "testing"

func TestExtractFromName_KnownAbbreviations(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"ABIRATERON QILU 500MG", "Qilu Pharma"},
		{"BENAZEPRIL AL 5MG", "ALIUD Pharma GmbH"},
		{"IBUPROFEN ABZ 400MG", "AbZ Pharma GmbH"},
		{"Metformin Hexal 850mg", "Hexal AG"},
		{"SIMVASTATIN 1A 20MG", "1A Pharma GmbH"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractFromName(tc.name); got != tc.expected {
				t.Errorf("ExtractFromName(%q) = %q, expected %q", tc.name, got, tc.expected)
			}
		})
	}
}

func TestExtractFromName_LongestMatchWins(t *testing.T) {
	// RATIOPHARM must not be shadowed by its prefix RATIO.
	if got := ExtractFromName("IBUPROFEN RATIOPHARM 400"); got != "ratiopharm GmbH" {
		t.Errorf("Expected 'ratiopharm GmbH', got %q", got)
	}
}

func TestExtractFromName_WordBoundary(t *testing.T) {
	// "CT" must only match as a whole word, not inside other tokens.
	if got := ExtractFromName("OCTREOTID DEVATIS 0,1MG"); got != "Devatis GmbH" {
		t.Errorf("Expected whole-word match 'Devatis GmbH', got %q", got)
	}
}

func TestExtractFromName_BrandNames(t *testing.T) {
	if got := ExtractFromName("Sitagliptin JANUVIA 50MG"); got != "MSD Sharp & Dohme" {
		t.Errorf("Expected brand mapping to 'MSD Sharp & Dohme', got %q", got)
	}
	if got := ExtractFromName("ZYTIGA 500MG FTBL"); got != "Janssen-Cilag" {
		t.Errorf("Expected 'Janssen-Cilag', got %q", got)
	}
}

func TestExtractFromName_SecondWordHeuristic(t *testing.T) {
	if got := ExtractFromName("WIRKSTOFF NEWBRAND 50MG"); got != "Newbrand" {
		t.Errorf("Expected title-cased second word, got %q", got)
	}
}

func TestExtractFromName_SecondWordRejectsDosage(t *testing.T) {
	testCases := []string{
		"WIRKSTOFF 500MG",
		"WIRKSTOFF MG",
		"WIRKSTOFF ML",
		"WIRKSTOFF XY",
	}

	for _, name := range testCases {
		if got := ExtractFromName(name); got != "" {
			t.Errorf("Expected no manufacturer for %q, got %q", name, got)
		}
	}
}

func TestExtractFromName_Empty(t *testing.T) {
	if got := ExtractFromName(""); got != "" {
		t.Errorf("Expected empty result, got %q", got)
	}
	if got := ExtractFromName("EINWORT"); got != "" {
		t.Errorf("Expected empty result for a single token, got %q", got)
	}
}
