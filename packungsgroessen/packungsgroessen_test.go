package packungsgroessen

import "testing"

func TestN_TabletThresholds(t *testing.T) {
	testCases := []struct {
		size     int
		expected string
	}{
		{1, "N1"},
		{10, "N1"},
		{11, "N2"},
		{30, "N2"},
		{31, "N3"},
		{500, "N3"},
	}

	for _, tc := range testCases {
		if got := N(tc.size, "TABL"); got != tc.expected {
			t.Errorf("N(%d, TABL) = %q, expected %q", tc.size, got, tc.expected)
		}
	}
}

func TestN_NonPositiveSizeIsUnknown(t *testing.T) {
	if got := N(0, "TABL"); got != Unknown {
		t.Errorf("Expected Unknown for size 0, got %q", got)
	}
	if got := N(-5, "FTBL"); got != Unknown {
		t.Errorf("Expected Unknown for negative size, got %q", got)
	}
}

func TestN_FamilySpecificThresholds(t *testing.T) {
	testCases := []struct {
		size     int
		form     string
		expected string
	}{
		{100, "SIRP", "N1"},  // syrup small band reaches 100ml
		{150, "SIRP", "N2"},
		{201, "SIRP", "N3"},
		{5, "SUPP", "N1"},
		{10, "SUPP", "N2"},
		{11, "SUPP", "N3"},
		{3, "AUGG", "N1"},
		{4, "AUGG", "N2"},
		{4, "PFLA", "N1"},
		{12, "PFLA", "N2"},
		{13, "PFLA", "N3"},
	}

	for _, tc := range testCases {
		if got := N(tc.size, tc.form); got != tc.expected {
			t.Errorf("N(%d, %s) = %q, expected %q", tc.size, tc.form, got, tc.expected)
		}
	}
}

func TestN_UnmappedFormUsesDefault(t *testing.T) {
	if got := N(10, "KOMB"); got != "N1" {
		t.Errorf("Expected default thresholds for unmapped code, got %q", got)
	}
	if got := N(31, "KOMB"); got != "N3" {
		t.Errorf("Expected default thresholds for unmapped code, got %q", got)
	}
	if got := N(10, ""); got != "N1" {
		t.Errorf("Expected default thresholds for empty code, got %q", got)
	}
}

func TestN_NormalizesCode(t *testing.T) {
	if got := N(100, " sirp "); got != "N1" {
		t.Errorf("Expected trimmed, uppercased lookup, got %q", got)
	}
}

func TestBeschreibung(t *testing.T) {
	testCases := map[string]string{
		"N1":      "Kleinpackung",
		"N2":      "Normalpackung",
		"N3":      "Großpackung",
		"Unknown": "",
		"N4":      "",
	}

	for input, expected := range testCases {
		if got := Beschreibung(input); got != expected {
			t.Errorf("Beschreibung(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestMitBeschreibung(t *testing.T) {
	if got := MitBeschreibung(31, "TABL"); got != "N3 (Großpackung)" {
		t.Errorf("Expected 'N3 (Großpackung)', got %q", got)
	}
	if got := MitBeschreibung(0, "TABL"); got != "" {
		t.Errorf("Expected empty result for unclassifiable size, got %q", got)
	}
}
