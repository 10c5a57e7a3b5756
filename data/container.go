// Package data provides thread-safe visibility into the state of the last
// import run. The StatusContainer is read by the health checker and the
// status endpoints while the scheduler updates it.
package data

import (
	"sync/atomic"
	"time"

	"festbetrag/interfaces"
	"festbetrag/logging"
)

// Compile-time check to ensure StatusContainer implements ImportStatus
var _ interfaces.ImportStatus = (*StatusContainer)(nil)

// StatusContainer holds import run state with atomic values so readers never
// block an import in progress.
type StatusContainer struct {
	recordCount     atomic.Int64
	lastImported    atomic.Value // time.Time
	lastReport      atomic.Value // *interfaces.ImportReport
	serverStartTime atomic.Value // time.Time
	updating        atomic.Bool
}

// NewStatusContainer creates a new StatusContainer with empty state
func NewStatusContainer() *StatusContainer {
	sc := &StatusContainer{}
	sc.lastImported.Store(time.Time{})
	sc.lastReport.Store((*interfaces.ImportReport)(nil))
	sc.serverStartTime.Store(time.Time{})
	return sc
}

// GetRecordCount returns the stored medication count after the last import
func (sc *StatusContainer) GetRecordCount() int64 {
	return sc.recordCount.Load()
}

// SetRecordCount sets the stored medication count
func (sc *StatusContainer) SetRecordCount(count int64) {
	sc.recordCount.Store(count)
}

// GetLastImported returns the timestamp of the last completed import
func (sc *StatusContainer) GetLastImported() time.Time {
	if v := sc.lastImported.Load(); v != nil {
		if lastImported, ok := v.(time.Time); ok {
			return lastImported
		}
	}

	logging.Warn("Could not get the last imported value")
	return time.Time{}
}

// GetLastReport returns the report of the last completed import, or nil when
// no import has run yet
func (sc *StatusContainer) GetLastReport() *interfaces.ImportReport {
	if v := sc.lastReport.Load(); v != nil {
		if report, ok := v.(*interfaces.ImportReport); ok {
			return report
		}
	}

	logging.Warn("Could not get the last import report")
	return nil
}

// SetLastReport stores the report of a completed import and stamps the
// completion time
func (sc *StatusContainer) SetLastReport(report *interfaces.ImportReport) {
	sc.lastReport.Store(report)
	sc.lastImported.Store(time.Now())
}

// SetServerStartTime sets the server start time
func (sc *StatusContainer) SetServerStartTime(startTime time.Time) {
	sc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (sc *StatusContainer) GetServerStartTime() time.Time {
	if v := sc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// IsUpdating returns true if an import is currently in progress
func (sc *StatusContainer) IsUpdating() bool {
	return sc.updating.Load()
}

// BeginUpdate marks the start of an import run
// Returns true if the import can proceed, false if another run is in progress
func (sc *StatusContainer) BeginUpdate() bool {
	return sc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of an import run
func (sc *StatusContainer) EndUpdate() {
	sc.updating.Store(false)
}
