// Package interfaces defines core abstractions for the Festbetrag importer
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"time"

	"festbetrag/festbetragparser/entities"
)

// ImportReport is the aggregate outcome of one import run. It is the
// integration contract for calling tooling: no single malformed line aborts a
// run, so correctness is assessed through these counters (yield rate) rather
// than per-line failure inspection.
type ImportReport struct {
	TotalLines                int    `json:"total_lines"`
	GroupHeaders              int    `json:"group_headers"`
	Accepted                  int    `json:"accepted"`
	SkippedEmpty              int    `json:"skipped_empty"`
	SkippedHeaderFooter       int    `json:"skipped_header_footer"`
	SkippedNoPZN              int    `json:"skipped_no_pzn"`
	SkippedNumericTokens      int    `json:"skipped_numeric_tokens"`
	SkippedNoDarreichungsform int    `json:"skipped_no_darreichungsform"`
	SkippedNoContext          int    `json:"skipped_no_context"`
	DuplicateKeys             int    `json:"duplicate_keys"`
	ZuzahlungApplied          int    `json:"zuzahlung_applied"`
	ZuzahlungNotFound         int    `json:"zuzahlung_not_found"`
	StandDatum                string `json:"stand_datum,omitempty"`
}

// Skipped returns the total number of lines that were examined but produced
// no record, excluding group headers (which are state, not failures).
func (r *ImportReport) Skipped() int {
	return r.SkippedEmpty + r.SkippedHeaderFooter + r.SkippedNoPZN +
		r.SkippedNumericTokens + r.SkippedNoDarreichungsform + r.SkippedNoContext
}

// QualityReport summarizes data issues found in a parsed medication set
// before it reaches the store.
type QualityReport struct {
	DuplicateCompositeKeys  []string       // pzn|groesse|form seen more than once
	UnknownDarreichungsform map[string]int // codes missing from every lookup tier
	WithoutHersteller       int
	NegativeDifferenz       int // priced below the reference price
}

// ListParser defines the contract for turning extracted list text into
// structured records.
type ListParser interface {
	// ParseFestbetragListe scans a reference-price list text file.
	ParseFestbetragListe(path string) ([]entities.Medication, *ImportReport, error)

	// ParseZuzahlungsListe scans a co-payment exemption list text file.
	ParseZuzahlungsListe(path string) ([]entities.Zuzahlungsbefreiung, *ImportReport, error)
}

// RecordStore defines the contract for the persistence sink. Implementations
// enforce the composite uniqueness key (pzn, packungsgroesse,
// darreichungsform) and treat collisions as countable skips, not errors.
type RecordStore interface {
	Migrate() error
	EnsureColumns() error

	// UpsertMedications writes records in batches; returns inserted and
	// duplicate-key counts.
	UpsertMedications(meds []entities.Medication) (inserted, duplicates int, err error)

	// ApplyZuzahlungsbefreiungen flags all package variants of each PZN;
	// returns applied and not-found counts.
	ApplyZuzahlungsbefreiungen(entries []entities.Zuzahlungsbefreiung) (updated, notFound int, err error)

	FillHerstellerFromNames() (updated int, err error)
	CountMedications() (int, error)
	CountZuzahlungsbefreit() (int, error)
}

// ImportStatus provides thread-safe visibility into the last import for
// health checks and the status endpoints.
type ImportStatus interface {
	GetRecordCount() int64
	GetLastImported() time.Time
	GetLastReport() *ImportReport
	GetServerStartTime() time.Time
	IsUpdating() bool

	SetRecordCount(count int64)
	SetLastReport(report *ImportReport)
	SetServerStartTime(startTime time.Time)
	BeginUpdate() bool
	EndUpdate()
}

// Scheduler defines the contract for import scheduling and staleness
// monitoring.
type Scheduler interface {
	Start() error
	Stop()
}
