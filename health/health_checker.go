// Package health provides health checking for the importer's status server.
package health

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"festbetrag/interfaces"
)

// HealthChecker reports the freshness and size of the imported data set.
type HealthChecker struct {
	status     interfaces.ImportStatus
	importTime string
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(status interfaces.ImportStatus, importTime string) *HealthChecker {
	return &HealthChecker{
		status:     status,
		importTime: importTime,
	}
}

// HealthCheck returns HTTP-specific health data
// Used by /health HTTP endpoint
func (h *HealthChecker) HealthCheck() (status string, data map[string]any, httpStatus int) {
	recordCount := h.status.GetRecordCount()
	lastImported := h.status.GetLastImported()
	isUpdating := h.status.IsUpdating()
	report := h.status.GetLastReport()

	dataAge := time.Since(lastImported)

	// The lists are published on a daily cadence, so anything older than two
	// days means imports are broken, one day means they are late.
	switch {
	case recordCount == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 48*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 25*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_import":    lastImported.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"records":        recordCount,
		"is_updating":    isUpdating,
		"next_import":    h.CalculateNextImport().Format(time.RFC3339),
	}

	if report != nil {
		data["accepted"] = report.Accepted
		data["skipped"] = report.Skipped()
		data["duplicate_keys"] = report.DuplicateKeys
		data["exempt_applied"] = report.ZuzahlungApplied
		if report.StandDatum != "" {
			data["stand_datum"] = report.StandDatum
		}
	}

	return status, data, httpStatus
}

// CalculateNextImport returns the next scheduled import time
func (h *HealthChecker) CalculateNextImport() time.Time {
	now := time.Now()

	hour, minute := parseImportTime(h.importTime)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

	if now.Before(next) {
		return next
	}
	return next.AddDate(0, 0, 1)
}

// parseImportTime splits an HH:MM string; the config layer already validated
// the format.
func parseImportTime(importTime string) (hour, minute int) {
	parts := strings.SplitN(importTime, ":", 2)
	if len(parts) != 2 {
		return 6, 0
	}
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	return hour, minute
}
