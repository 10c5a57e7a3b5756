package config

import (
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range GetEnvVars() {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected default address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.DBPath != "data/festbetrag.db" {
		t.Errorf("Expected default DB path, got %s", cfg.DBPath)
	}
	if cfg.FestbetragFile != "festbetraege.txt" {
		t.Errorf("Expected default list file name, got %s", cfg.FestbetragFile)
	}
	if cfg.ImportTime != "06:00" {
		t.Errorf("Expected default import time 06:00, got %s", cfg.ImportTime)
	}
}

func TestLoad_PathHelpers(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_DIR", "lists")
	t.Setenv("ZUZAHLUNG_FILE", "befreit.txt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got := cfg.ZuzahlungPath(); got != filepath.Join("lists", "befreit.txt") {
		t.Errorf("Expected joined exemption path, got %s", got)
	}
	if got := cfg.FestbetragPath(); got != filepath.Join("lists", "festbetraege.txt") {
		t.Errorf("Expected joined list path, got %s", got)
	}
	if got := cfg.ZuzahlungCSVPath(); got != filepath.Join("lists", "zuzahlungsbefreit.csv") {
		t.Errorf("Expected joined CSV path, got %s", got)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"NonNumericPort", "PORT", "abc"},
		{"PrivilegedPort", "PORT", "80"},
		{"PortOutOfRange", "PORT", "70000"},
		{"BadAddress", "ADDRESS", "not-an-ip"},
		{"BadEnv", "ENV", "production!"},
		{"BadLogLevel", "LOG_LEVEL", "verbose"},
		{"FileNameWithSlash", "ZUZAHLUNG_FILE", "../escape.txt"},
		{"ImportTimeNoColon", "IMPORT_TIME", "0600"},
		{"ImportTimeBadHour", "IMPORT_TIME", "25:00"},
		{"ImportTimeBadMinute", "IMPORT_TIME", "06:60"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected an error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_ValidImportTimes(t *testing.T) {
	for _, value := range []string{"0:00", "06:00", "6:30", "23:59"} {
		clearEnv(t)
		t.Setenv("IMPORT_TIME", value)

		if _, err := Load(); err != nil {
			t.Errorf("Expected IMPORT_TIME=%s to be valid, got: %v", value, err)
		}
	}
}

func TestLoad_InvalidRetentionFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_RETENTION_WEEKS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.LogRetentionWeeks != 4 {
		t.Errorf("Expected default retention of 4 weeks, got %d", cfg.LogRetentionWeeks)
	}
}
