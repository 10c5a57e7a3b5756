// Package validation provides data validation for parsed medication records
// before they reach the store.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"festbetrag/darreichungsformen"
	"festbetrag/festbetragparser/entities"
	"festbetrag/interfaces"
	"festbetrag/logging"
)

// Validator checks parsed records and reports data quality.
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateMedication checks if a medication record is valid
func (v *Validator) ValidateMedication(m *entities.Medication) error {
	if m == nil {
		return fmt.Errorf("medication is nil")
	}

	if _, err := v.ValidatePZN(m.Pzn); err != nil {
		return fmt.Errorf("invalid PZN: %w", err)
	}

	if strings.TrimSpace(m.Arzneimittelname) == "" {
		return fmt.Errorf("empty name for PZN %s", m.Pzn)
	}

	if len(m.Arzneimittelname) > 200 {
		return fmt.Errorf("name too long for PZN %s: %d characters", m.Pzn, len(m.Arzneimittelname))
	}

	if strings.TrimSpace(m.Darreichungsform) == "" {
		return fmt.Errorf("empty dosage form for PZN %s", m.Pzn)
	}

	if len(m.Darreichungsform) > 10 {
		return fmt.Errorf("dosage form too long for PZN %s: %s", m.Pzn, m.Darreichungsform)
	}

	if m.Packungsgroesse < 0 {
		return fmt.Errorf("negative package size for PZN %s: %d", m.Pzn, m.Packungsgroesse)
	}

	if m.Preis.IsNegative() || m.Festbetrag.IsNegative() {
		return fmt.Errorf("negative price for PZN %s", m.Pzn)
	}

	if strings.TrimSpace(m.Wirkstoff) == "" {
		return fmt.Errorf("missing active substance for PZN %s", m.Pzn)
	}

	return nil
}

// ValidatePZN validates a PZN string
// PZNs are numeric identifiers exactly 8 digits long
// No regex used - strconv.Atoi() validates numeric format for free
func (v *Validator) ValidatePZN(input string) (int, error) {
	trimmedInput := strings.TrimSpace(input)
	if trimmedInput == "" {
		return -1, fmt.Errorf("input cannot be empty")
	}

	// Reject if original input contained whitespace (spaces, tabs, etc.)
	if len(input) != len(trimmedInput) {
		return -1, fmt.Errorf("input contains invalid characters. Only numeric characters are allowed")
	}

	if len(trimmedInput) != 8 {
		return -1, fmt.Errorf("PZN should have 8 digits")
	}

	pzn, err := strconv.Atoi(trimmedInput)
	if err != nil {
		return -1, fmt.Errorf("input contains invalid characters. Only numeric characters are allowed")
	}

	return pzn, nil
}

// ValidateDataIntegrity performs validation across a whole parsed set
func (v *Validator) ValidateDataIntegrity(meds []entities.Medication) error {
	if len(meds) == 0 {
		return fmt.Errorf("no medications found")
	}

	for i := range meds {
		if err := v.ValidateMedication(&meds[i]); err != nil {
			return fmt.Errorf("invalid medication PZN %s: %w", meds[i].Pzn, err)
		}
	}

	return nil
}

// ReportQuality surveys a parsed set for issues that do not block the import
// but are worth surfacing: repeated composite keys, dosage-form codes no
// lookup tier knows, records without manufacturer, and records priced below
// the reference price.
func (v *Validator) ReportQuality(meds []entities.Medication) *interfaces.QualityReport {
	report := &interfaces.QualityReport{
		DuplicateCompositeKeys:  []string{},
		UnknownDarreichungsform: make(map[string]int),
	}

	seen := make(map[string]bool, len(meds))
	for _, med := range meds {
		key := fmt.Sprintf("%s|%d|%s", med.Pzn, med.Packungsgroesse, med.Darreichungsform)
		if seen[key] {
			report.DuplicateCompositeKeys = append(report.DuplicateCompositeKeys, key)
		}
		seen[key] = true

		// Lang returns the input unchanged when no table knows the code.
		if darreichungsformen.Lang(med.Darreichungsform) == med.Darreichungsform {
			report.UnknownDarreichungsform[med.Darreichungsform]++
		}

		if strings.TrimSpace(med.Hersteller) == "" {
			report.WithoutHersteller++
		}

		if med.Differenz.IsNegative() {
			report.NegativeDifferenz++
		}
	}

	if len(report.DuplicateCompositeKeys) > 0 {
		logging.Warn("Duplicate composite keys in parsed set",
			"count", len(report.DuplicateCompositeKeys))
	}

	if len(report.UnknownDarreichungsform) > 0 {
		logging.Warn("Unknown dosage-form codes in parsed set",
			"codes", len(report.UnknownDarreichungsform))
	}

	return report
}
