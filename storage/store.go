// Package storage persists medication records to SQLite. The composite key
// (pzn, packungsgroesse, darreichungsform) is enforced by the schema itself,
// so duplicate lines in the source lists surface as countable collisions
// instead of extra rows.
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"festbetrag/festbetragparser/entities"
	"festbetrag/hersteller"
	"festbetrag/interfaces"
	"festbetrag/logging"
)

// Records per transaction during bulk writes.
const batchSize = 500

// Store is the SQLite persistence sink.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// A single writer keeps SQLite lock contention out of the picture.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the medications table and its indexes. Safe to call on
// every startup.
func (s *Store) Migrate() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS medications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stufe TEXT,
			festbetragsgruppe TEXT,
			wirkstoff TEXT,
			wirkstoffmenge_1 REAL,
			wirkstoffmenge_2 REAL,
			packungsgroesse INTEGER,
			darreichungsform TEXT,
			preis REAL,
			festbetrag REAL,
			differenz REAL,
			arzneimittelname TEXT,
			pzn TEXT,
			stand_datum TEXT,
			zuzahlungsbefreit INTEGER DEFAULT 0,
			hersteller TEXT,
			UNIQUE(pzn, packungsgroesse, darreichungsform)
		)`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create medications table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_pzn ON medications(pzn)",
		"CREATE INDEX IF NOT EXISTS idx_wirkstoff ON medications(wirkstoff)",
		"CREATE INDEX IF NOT EXISTS idx_festbetragsgruppe ON medications(festbetragsgruppe)",
		"CREATE INDEX IF NOT EXISTS idx_arzneimittelname ON medications(arzneimittelname)",
		"CREATE INDEX IF NOT EXISTS idx_zuzahlungsbefreit ON medications(zuzahlungsbefreit)",
	}
	for _, index := range indexes {
		if _, err := s.db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// EnsureColumns adds columns introduced after the initial schema to databases
// created by older versions. Column presence is probed through the table
// metadata because SQLite has no ADD COLUMN IF NOT EXISTS.
func (s *Store) EnsureColumns() error {
	rows, err := s.db.Query("PRAGMA table_info(medications)")
	if err != nil {
		return fmt.Errorf("failed to inspect medications schema: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			columnType string
			notNull    int
			defaultVal sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &columnType, &notNull, &defaultVal, &primaryKey); err != nil {
			return fmt.Errorf("failed to scan column info: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read column info: %w", err)
	}

	additions := map[string]string{
		"zuzahlungsbefreit": "ALTER TABLE medications ADD COLUMN zuzahlungsbefreit INTEGER DEFAULT 0",
		"hersteller":        "ALTER TABLE medications ADD COLUMN hersteller TEXT",
	}
	for column, statement := range additions {
		if existing[column] {
			continue
		}
		if _, err := s.db.Exec(statement); err != nil {
			return fmt.Errorf("failed to add column %s: %w", column, err)
		}
		logging.Info("Added missing database column", "column", column)
	}

	return nil
}

// UpsertMedications writes records in batched transactions. A record whose
// composite key already exists counts as a duplicate and refreshes the
// mutable fields of the existing row, so re-importing the same list is
// idempotent.
func (s *Store) UpsertMedications(meds []entities.Medication) (inserted, duplicates int, err error) {
	for start := 0; start < len(meds); start += batchSize {
		end := start + batchSize
		if end > len(meds) {
			end = len(meds)
		}

		batchInserted, batchDuplicates, err := s.upsertBatch(meds[start:end])
		if err != nil {
			return inserted, duplicates, err
		}
		inserted += batchInserted
		duplicates += batchDuplicates
	}

	logging.Info("Medications written",
		"inserted", inserted,
		"duplicates", duplicates,
		"total", len(meds))
	return inserted, duplicates, nil
}

func (s *Store) upsertBatch(meds []entities.Medication) (inserted, duplicates int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert, err := tx.Prepare(`
		INSERT OR IGNORE INTO medications (
			stufe, festbetragsgruppe, wirkstoff,
			wirkstoffmenge_1, wirkstoffmenge_2,
			packungsgroesse, darreichungsform,
			preis, festbetrag, differenz,
			arzneimittelname, pzn, stand_datum
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	refresh, err := tx.Prepare(`
		UPDATE medications SET
			stufe = ?, festbetragsgruppe = ?, wirkstoff = ?,
			wirkstoffmenge_1 = ?, wirkstoffmenge_2 = ?,
			preis = ?, festbetrag = ?, differenz = ?,
			arzneimittelname = ?, stand_datum = ?
		WHERE pzn = ? AND packungsgroesse = ? AND darreichungsform = ?`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare refresh: %w", err)
	}
	defer refresh.Close()

	for _, med := range meds {
		result, err := insert.Exec(
			med.Stufe, med.Festbetragsgruppe, med.Wirkstoff,
			med.Wirkstoffmenge1.InexactFloat64(), med.Wirkstoffmenge2.InexactFloat64(),
			med.Packungsgroesse, med.Darreichungsform,
			med.Preis.InexactFloat64(), med.Festbetrag.InexactFloat64(), med.Differenz.InexactFloat64(),
			med.Arzneimittelname, med.Pzn, med.StandDatum)
		if err != nil {
			return inserted, duplicates, fmt.Errorf("failed to insert pzn %s: %w", med.Pzn, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, duplicates, fmt.Errorf("failed to read insert result: %w", err)
		}
		if affected > 0 {
			inserted++
			continue
		}

		// Existing row under the composite key: refresh prices and context
		// so newer list data wins.
		duplicates++
		if _, err := refresh.Exec(
			med.Stufe, med.Festbetragsgruppe, med.Wirkstoff,
			med.Wirkstoffmenge1.InexactFloat64(), med.Wirkstoffmenge2.InexactFloat64(),
			med.Preis.InexactFloat64(), med.Festbetrag.InexactFloat64(), med.Differenz.InexactFloat64(),
			med.Arzneimittelname, med.StandDatum,
			med.Pzn, med.Packungsgroesse, med.Darreichungsform); err != nil {
			return inserted, duplicates, fmt.Errorf("failed to refresh pzn %s: %w", med.Pzn, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, duplicates, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, duplicates, nil
}

// ApplyZuzahlungsbefreiungen flags medications as co-payment exempt. Every
// package variant sharing the PZN is flagged, since the exemption list keys
// by PZN only. The manufacturer from an entry fills the column only when it
// is still empty.
func (s *Store) ApplyZuzahlungsbefreiungen(entries []entities.Zuzahlungsbefreiung) (updated, notFound int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE medications SET
			zuzahlungsbefreit = 1,
			hersteller = CASE
				WHEN ? != '' AND (hersteller IS NULL OR hersteller = '') THEN ?
				ELSE hersteller
			END
		WHERE pzn = ?`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare exemption update: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		result, err := stmt.Exec(entry.Hersteller, entry.Hersteller, entry.Pzn)
		if err != nil {
			return updated, notFound, fmt.Errorf("failed to flag pzn %s: %w", entry.Pzn, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return updated, notFound, fmt.Errorf("failed to read exemption result: %w", err)
		}
		if affected > 0 {
			updated++
		} else {
			notFound++
		}
	}

	if err := tx.Commit(); err != nil {
		return updated, notFound, fmt.Errorf("failed to commit exemptions: %w", err)
	}

	logging.Info("Co-payment exemptions applied",
		"updated", updated,
		"not_found", notFound,
		"entries", len(entries))
	return updated, notFound, nil
}

// FillHerstellerFromNames derives the manufacturer column from the medication
// name for every row where it is still empty.
func (s *Store) FillHerstellerFromNames() (updated int, err error) {
	rows, err := s.db.Query(`
		SELECT id, arzneimittelname
		FROM medications
		WHERE hersteller IS NULL OR hersteller = ''`)
	if err != nil {
		return 0, fmt.Errorf("failed to query medications without manufacturer: %w", err)
	}
	defer rows.Close()

	type update struct {
		id         int64
		hersteller string
	}
	var updates []update

	for rows.Next() {
		var (
			id   int64
			name sql.NullString
		)
		if err := rows.Scan(&id, &name); err != nil {
			return 0, fmt.Errorf("failed to scan medication row: %w", err)
		}
		if derived := hersteller.ExtractFromName(name.String); derived != "" {
			updates = append(updates, update{id: id, hersteller: derived})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read medication rows: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE medications SET hersteller = ? WHERE id = ?")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare manufacturer update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.Exec(u.hersteller, u.id); err != nil {
			return updated, fmt.Errorf("failed to update manufacturer: %w", err)
		}
		updated++
	}

	if err := tx.Commit(); err != nil {
		return updated, fmt.Errorf("failed to commit manufacturer updates: %w", err)
	}

	logging.Info("Manufacturers derived from names", "updated", updated)
	return updated, nil
}

// CountMedications returns the total number of stored records.
func (s *Store) CountMedications() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM medications").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count medications: %w", err)
	}
	return count, nil
}

// CountZuzahlungsbefreit returns the number of co-payment exempt records.
func (s *Store) CountZuzahlungsbefreit() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM medications WHERE zuzahlungsbefreit = 1").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count exempt medications: %w", err)
	}
	return count, nil
}

// Ensure Store implements the RecordStore contract.
var _ interfaces.RecordStore = (*Store)(nil)
