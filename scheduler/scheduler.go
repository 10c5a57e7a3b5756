// Package scheduler runs the daily import and staleness monitoring. It
// coordinates the list parsers, the validator and the store, and publishes
// the run outcome to the status container using dependency injection.
package scheduler

import (
	"fmt"
	"os"
	"time"

	"github.com/go-co-op/gocron"

	"festbetrag/config"
	"festbetrag/festbetragparser"
	"festbetrag/festbetragparser/entities"
	"festbetrag/interfaces"
	"festbetrag/logging"
	"festbetrag/metrics"
	"festbetrag/validation"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles import runs and staleness monitoring using dependency
// injection
type Scheduler struct {
	cfg       *config.Config
	parser    interfaces.ListParser
	store     interfaces.RecordStore
	status    interfaces.ImportStatus
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(cfg *config.Config, parser interfaces.ListParser, store interfaces.RecordStore, status interfaces.ImportStatus) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		parser:    parser,
		store:     store,
		status:    status,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial import and schedules the daily runs
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.runImport(); err != nil {
		logging.Error("Failed to perform initial import", "error", err)
		return fmt.Errorf("initial import failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(s.cfg.ImportTime).Do(func() {
		if err := s.runImport(); err != nil {
			logging.Error("Failed to run scheduled import", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule imports", "error", err)
		return fmt.Errorf("failed to schedule imports: %w", err)
	}

	s.scheduler.StartAsync()

	// Start staleness monitoring
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// runImport performs a complete import run: parse the reference-price list,
// validate, persist, apply the exemption list, derive manufacturers and
// publish the outcome.
func (s *Scheduler) runImport() error {
	// Prevent concurrent runs
	if !s.status.BeginUpdate() {
		logging.Info("Import already in progress, skipping...")
		return nil
	}
	defer s.status.EndUpdate()

	logging.Info("Starting import run", "at", time.Now().Format(time.RFC3339))
	start := time.Now()

	meds, report, err := s.parser.ParseFestbetragListe(s.cfg.FestbetragPath())
	if err != nil {
		metrics.RecordImportFailure()
		logging.Error("Failed to parse reference-price list", "error", err)
		return fmt.Errorf("failed to parse reference-price list: %w", err)
	}

	validator := validation.NewValidator()

	// Per-record validation drops bad records; it never aborts the run.
	valid := meds[:0]
	invalid := 0
	for i := range meds {
		if err := validator.ValidateMedication(&meds[i]); err != nil {
			logging.Warn("Dropping invalid record", "pzn", meds[i].Pzn, "error", err)
			invalid++
			continue
		}
		valid = append(valid, meds[i])
	}
	if invalid > 0 {
		logging.Warn("Invalid records dropped before persistence", "count", invalid)
	}

	quality := validator.ReportQuality(valid)
	if quality.NegativeDifferenz > 0 {
		logging.Info("Records priced below the reference price",
			"count", quality.NegativeDifferenz)
	}

	_, duplicates, err := s.store.UpsertMedications(valid)
	if err != nil {
		metrics.RecordImportFailure()
		logging.Error("Failed to persist medications", "error", err)
		return fmt.Errorf("failed to persist medications: %w", err)
	}
	report.DuplicateKeys = duplicates

	if err := s.applyZuzahlungen(report); err != nil {
		// The exemption list is an enrichment pass; its absence does not
		// invalidate the imported price data.
		logging.Warn("Exemption pass skipped", "error", err)
	}

	if _, err := s.store.FillHerstellerFromNames(); err != nil {
		logging.Warn("Manufacturer derivation failed", "error", err)
	}

	count, err := s.store.CountMedications()
	if err != nil {
		metrics.RecordImportFailure()
		logging.Error("Failed to count medications", "error", err)
		return fmt.Errorf("failed to count medications: %w", err)
	}

	exempt, err := s.store.CountZuzahlungsbefreit()
	if err != nil {
		logging.Warn("Failed to count exempt medications", "error", err)
	}

	s.status.SetRecordCount(int64(count))
	s.status.SetLastReport(report)

	elapsed := time.Since(start)
	metrics.RecordImportRun(report, count, exempt, elapsed)

	logging.Info("Import run completed",
		"duration", elapsed.String(),
		"record_count", count,
		"exempt_count", exempt,
		"accepted", report.Accepted,
		"skipped", report.Skipped(),
		"duplicate_keys", report.DuplicateKeys)

	return nil
}

// applyZuzahlungen loads the exemption list, flags the matching rows and
// refreshes the CSV snapshot.
func (s *Scheduler) applyZuzahlungen(report *interfaces.ImportReport) error {
	entries, fromSnapshot, err := s.loadZuzahlungen()
	if err != nil {
		return err
	}

	updated, notFound, err := s.store.ApplyZuzahlungsbefreiungen(entries)
	if err != nil {
		return fmt.Errorf("failed to apply exemptions: %w", err)
	}
	report.ZuzahlungApplied = updated
	report.ZuzahlungNotFound = notFound

	if !fromSnapshot {
		if err := festbetragparser.WriteZuzahlungCSV(s.cfg.ZuzahlungCSVPath(), entries); err != nil {
			logging.Warn("Failed to write exemption CSV snapshot", "error", err)
		}
	}

	return nil
}

// loadZuzahlungen prefers the extracted text list and falls back to the CSV
// snapshot left by a previous run.
func (s *Scheduler) loadZuzahlungen() ([]entities.Zuzahlungsbefreiung, bool, error) {
	path := s.cfg.ZuzahlungPath()
	if _, err := os.Stat(path); err == nil {
		entries, _, err := s.parser.ParseZuzahlungsListe(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse exemption list: %w", err)
		}
		return entries, false, nil
	}

	snapshot := s.cfg.ZuzahlungCSVPath()
	if _, err := os.Stat(snapshot); err != nil {
		return nil, false, fmt.Errorf("no exemption list available in %s", s.cfg.DataDir)
	}

	logging.Info("Exemption text list missing, using CSV snapshot", "path", snapshot)
	entries, err := festbetragparser.ReadZuzahlungCSV(snapshot)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read exemption CSV snapshot: %w", err)
	}
	return entries, true, nil
}

// startStalenessMonitoring warns when no import has completed recently
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastImport := s.status.GetLastImported()
			if time.Since(lastImport) > 25*time.Hour {
				logging.Warn("Data hasn't been imported in over 25 hours")
			}
		}
	}()
}
