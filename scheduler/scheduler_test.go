package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"festbetrag/config"
	"festbetrag/data"
	"festbetrag/festbetragparser/entities"
	"festbetrag/interfaces"
)

// mockParser returns canned parse results.
type mockParser struct {
	meds      []entities.Medication
	report    *interfaces.ImportReport
	entries   []entities.Zuzahlungsbefreiung
	parseErr  error
	calledFor []string
}

func (m *mockParser) ParseFestbetragListe(path string) ([]entities.Medication, *interfaces.ImportReport, error) {
	m.calledFor = append(m.calledFor, path)
	if m.parseErr != nil {
		return nil, nil, m.parseErr
	}
	return m.meds, m.report, nil
}

func (m *mockParser) ParseZuzahlungsListe(path string) ([]entities.Zuzahlungsbefreiung, *interfaces.ImportReport, error) {
	m.calledFor = append(m.calledFor, path)
	return m.entries, &interfaces.ImportReport{}, nil
}

// mockStore records what the scheduler persists.
type mockStore struct {
	upserted   []entities.Medication
	applied    []entities.Zuzahlungsbefreiung
	duplicates int
	filled     bool
}

func (m *mockStore) Migrate() error       { return nil }
func (m *mockStore) EnsureColumns() error { return nil }

func (m *mockStore) UpsertMedications(meds []entities.Medication) (int, int, error) {
	m.upserted = append(m.upserted, meds...)
	return len(meds), m.duplicates, nil
}

func (m *mockStore) ApplyZuzahlungsbefreiungen(entries []entities.Zuzahlungsbefreiung) (int, int, error) {
	m.applied = append(m.applied, entries...)
	return len(entries), 0, nil
}

func (m *mockStore) FillHerstellerFromNames() (int, error) {
	m.filled = true
	return 0, nil
}

func (m *mockStore) CountMedications() (int, error)      { return len(m.upserted), nil }
func (m *mockStore) CountZuzahlungsbefreit() (int, error) { return len(m.applied), nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	// The exemption pass checks file existence before parsing.
	if err := os.WriteFile(filepath.Join(dir, "zuzahlungsbefreit.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	return &config.Config{
		DataDir:        dir,
		FestbetragFile: "festbetraege.txt",
		ZuzahlungFile:  "zuzahlungsbefreit.txt",
		ZuzahlungCSV:   "zuzahlungsbefreit.csv",
		ImportTime:     "06:00",
	}
}

func schedulerMedication(pzn string) entities.Medication {
	return entities.Medication{
		Stufe:            "2",
		Wirkstoff:        "Ibuprofen",
		Packungsgroesse:  20,
		Darreichungsform: "TABL",
		Preis:            decimal.NewFromFloat(12.50),
		Festbetrag:       decimal.NewFromFloat(10.00),
		Arzneimittelname: "IBUPROFEN AL 400",
		Pzn:              pzn,
	}
}

func TestRunImport_PublishesOutcome(t *testing.T) {
	cfg := testConfig(t)
	parser := &mockParser{
		meds:    []entities.Medication{schedulerMedication("11111111"), schedulerMedication("22222222")},
		report:  &interfaces.ImportReport{TotalLines: 10, Accepted: 2},
		entries: []entities.Zuzahlungsbefreiung{{Pzn: "11111111", Name: "IBUPROFEN AL 400"}},
	}
	store := &mockStore{duplicates: 1}
	status := data.NewStatusContainer()

	sched := NewScheduler(cfg, parser, store, status)
	if err := sched.runImport(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(store.upserted) != 2 {
		t.Errorf("Expected 2 persisted records, got %d", len(store.upserted))
	}
	if len(store.applied) != 1 {
		t.Errorf("Expected 1 applied exemption, got %d", len(store.applied))
	}
	if !store.filled {
		t.Error("Expected manufacturer derivation to run")
	}

	if status.GetRecordCount() != 2 {
		t.Errorf("Expected record count 2, got %d", status.GetRecordCount())
	}

	report := status.GetLastReport()
	if report == nil {
		t.Fatal("Expected a published report")
	}
	if report.DuplicateKeys != 1 {
		t.Errorf("Expected duplicate count from store in report, got %d", report.DuplicateKeys)
	}
	if report.ZuzahlungApplied != 1 {
		t.Errorf("Expected 1 applied exemption in report, got %d", report.ZuzahlungApplied)
	}
	if status.IsUpdating() {
		t.Error("Expected updating flag cleared after the run")
	}

	// The exemption pass must leave a CSV snapshot behind.
	if _, err := os.Stat(cfg.ZuzahlungCSVPath()); err != nil {
		t.Errorf("Expected CSV snapshot at %s: %v", cfg.ZuzahlungCSVPath(), err)
	}
}

func TestRunImport_DropsInvalidRecords(t *testing.T) {
	cfg := testConfig(t)

	bad := schedulerMedication("123") // malformed PZN
	parser := &mockParser{
		meds:   []entities.Medication{schedulerMedication("11111111"), bad},
		report: &interfaces.ImportReport{Accepted: 2},
	}
	store := &mockStore{}
	status := data.NewStatusContainer()

	sched := NewScheduler(cfg, parser, store, status)
	if err := sched.runImport(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(store.upserted) != 1 {
		t.Errorf("Expected invalid record dropped, persisted %d", len(store.upserted))
	}
	if store.upserted[0].Pzn != "11111111" {
		t.Errorf("Expected the valid record to survive, got PZN %s", store.upserted[0].Pzn)
	}
}

func TestRunImport_ParseFailure(t *testing.T) {
	cfg := testConfig(t)
	parser := &mockParser{parseErr: fmt.Errorf("no such file")}
	status := data.NewStatusContainer()

	sched := NewScheduler(cfg, parser, &mockStore{}, status)
	if err := sched.runImport(); err == nil {
		t.Error("Expected an error when the list cannot be parsed")
	}
	if status.IsUpdating() {
		t.Error("Expected updating flag cleared after a failed run")
	}
}

func TestRunImport_SkipsWhileUpdating(t *testing.T) {
	cfg := testConfig(t)
	parser := &mockParser{report: &interfaces.ImportReport{}}
	status := data.NewStatusContainer()
	status.BeginUpdate()

	sched := NewScheduler(cfg, parser, &mockStore{}, status)
	if err := sched.runImport(); err != nil {
		t.Fatalf("Expected concurrent run to be a silent skip, got: %v", err)
	}
	if len(parser.calledFor) != 0 {
		t.Error("Expected no parsing while another run is in progress")
	}
}

func TestRunImport_FallsBackToCSVSnapshot(t *testing.T) {
	cfg := testConfig(t)
	if err := os.Remove(cfg.ZuzahlungPath()); err != nil {
		t.Fatal(err)
	}

	snapshot := "name,preis,pzn\nIBUPROFEN AL 400,12.50,11111111\n"
	if err := os.WriteFile(cfg.ZuzahlungCSVPath(), []byte(snapshot), 0644); err != nil {
		t.Fatal(err)
	}

	parser := &mockParser{
		meds:   []entities.Medication{schedulerMedication("11111111")},
		report: &interfaces.ImportReport{Accepted: 1},
	}
	store := &mockStore{}
	status := data.NewStatusContainer()

	sched := NewScheduler(cfg, parser, store, status)
	if err := sched.runImport(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(store.applied) != 1 {
		t.Fatalf("Expected 1 exemption from the snapshot, got %d", len(store.applied))
	}
	if store.applied[0].Pzn != "11111111" {
		t.Errorf("Expected snapshot PZN applied, got %s", store.applied[0].Pzn)
	}
}

func TestRunImport_MissingExemptionListIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	if err := os.Remove(cfg.ZuzahlungPath()); err != nil {
		t.Fatal(err)
	}

	parser := &mockParser{
		meds:   []entities.Medication{schedulerMedication("11111111")},
		report: &interfaces.ImportReport{Accepted: 1},
	}
	store := &mockStore{}
	status := data.NewStatusContainer()

	sched := NewScheduler(cfg, parser, store, status)
	if err := sched.runImport(); err != nil {
		t.Fatalf("Expected missing exemption list to be non-fatal, got: %v", err)
	}
	if len(store.applied) != 0 {
		t.Errorf("Expected no exemptions applied, got %d", len(store.applied))
	}
}
