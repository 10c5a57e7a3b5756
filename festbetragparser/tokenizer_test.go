package festbetragparser

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTokenize_DecimalComma(t *testing.T) {
	tokens := Tokenize("500,00 TABL 12,50")

	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(tokens))
	}

	if !tokens[0].Numeric {
		t.Error("Expected '500,00' to be classified numeric")
	}
	if !tokens[0].Value.Equal(decimal.NewFromFloat(500.00)) {
		t.Errorf("Expected value 500.00, got %s", tokens[0].Value)
	}

	if tokens[1].Numeric {
		t.Error("Expected 'TABL' to be classified textual")
	}

	if !tokens[2].Numeric {
		t.Error("Expected '12,50' to be classified numeric")
	}
	if !tokens[2].Value.Equal(decimal.NewFromFloat(12.50)) {
		t.Errorf("Expected value 12.50, got %s", tokens[2].Value)
	}
}

func TestTokenize_DotAndInteger(t *testing.T) {
	tokens := Tokenize("10 12.50")

	if !tokens[0].Numeric || !tokens[0].Value.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected integer token 10 to be numeric, got %+v", tokens[0])
	}
	if !tokens[1].Numeric || !tokens[1].Value.Equal(decimal.NewFromFloat(12.50)) {
		t.Errorf("Expected dot-decimal token to be numeric, got %+v", tokens[1])
	}
}

func TestTokenize_MixedTokensNotNumeric(t *testing.T) {
	testCases := []string{"500MG", "N3", "A,B", "10ML"}

	for _, raw := range testCases {
		tokens := Tokenize(raw)
		if tokens[0].Numeric {
			t.Errorf("Expected %q to be classified textual", raw)
		}
	}
}

func TestNumericIndices(t *testing.T) {
	tokens := Tokenize("500,00 1,00 20 TABL IBUPROFEN AL 120,50 95,00 25,50 12345678")

	indices := NumericIndices(tokens)
	expected := []int{0, 1, 2, 6, 7, 8, 9}

	if len(indices) != len(expected) {
		t.Fatalf("Expected %d numeric indices, got %d", len(expected), len(indices))
	}
	for i, idx := range expected {
		if indices[i] != idx {
			t.Errorf("Expected index %d at position %d, got %d", idx, i, indices[i])
		}
	}
}

func TestIsDarreichungsformToken(t *testing.T) {
	testCases := []struct {
		raw      string
		expected bool
	}{
		{"TABL", true},
		{"FTBL", true},
		{"IJLG", true},
		{"Tabl", false},
		{"TAB1", false},
		{"500MG", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			if got := IsDarreichungsformToken(tc.raw); got != tc.expected {
				t.Errorf("IsDarreichungsformToken(%q) = %v, expected %v", tc.raw, got, tc.expected)
			}
		})
	}
}
