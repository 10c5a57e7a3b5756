// Package config has the configuration file for the app
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               string
	LogLevel          string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	DBPath            string
	DataDir           string // Directory holding the extracted list text files
	FestbetragFile    string // Reference-price list file name inside DataDir
	ZuzahlungFile     string // Exemption list file name inside DataDir
	ZuzahlungCSV      string // CSV snapshot written after each exemption parse
	ImportTime        string // Daily import time, HH:MM
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               getEnvWithDefault("ENV", "dev"),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		DBPath:            getEnvWithDefault("DB_PATH", "data/festbetrag.db"),
		DataDir:           getEnvWithDefault("DATA_DIR", "data"),
		FestbetragFile:    getEnvWithDefault("FESTBETRAG_FILE", "festbetraege.txt"),
		ZuzahlungFile:     getEnvWithDefault("ZUZAHLUNG_FILE", "zuzahlungsbefreit.txt"),
		ZuzahlungCSV:      getEnvWithDefault("ZUZAHLUNG_CSV", "zuzahlungsbefreit.csv"),
		ImportTime:        getEnvWithDefault("IMPORT_TIME", "06:00"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FestbetragPath returns the full path of the reference-price list file.
func (c *Config) FestbetragPath() string {
	return filepath.Join(c.DataDir, c.FestbetragFile)
}

// ZuzahlungPath returns the full path of the exemption list file.
func (c *Config) ZuzahlungPath() string {
	return filepath.Join(c.DataDir, c.ZuzahlungFile)
}

// ZuzahlungCSVPath returns the full path of the exemption CSV snapshot.
func (c *Config) ZuzahlungCSVPath() string {
	return filepath.Join(c.DataDir, c.ZuzahlungCSV)
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	// Validate PORT
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	// Validate ADDRESS
	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	// Validate ENV
	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	// Validate LOG_LEVEL
	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	// Validate LOG_RETENTION_WEEKS
	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	// Validate MAX_LOG_FILE_SIZE
	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	// Validate DB_PATH
	if err := validatePath(cfg.DBPath, "DB_PATH"); err != nil {
		return err
	}

	// Validate DATA_DIR
	if err := validatePath(cfg.DataDir, "DATA_DIR"); err != nil {
		return err
	}

	// Validate the list file names
	for name, value := range map[string]string{
		"FESTBETRAG_FILE": cfg.FestbetragFile,
		"ZUZAHLUNG_FILE":  cfg.ZuzahlungFile,
		"ZUZAHLUNG_CSV":   cfg.ZuzahlungCSV,
	} {
		if err := validateFileName(value, name); err != nil {
			return err
		}
	}

	// Validate IMPORT_TIME
	if err := validateImportTime(cfg.ImportTime); err != nil {
		return fmt.Errorf("invalid IMPORT_TIME: %w", err)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Check for privileged ports
	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	// Check for localhost/loopback addresses first
	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		// This is acceptable for development
		return nil
	}

	// Check if it's a valid IP address
	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	// Check for private network ranges (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16)
	ip := net.ParseIP(address)
	if ip != nil && !ip.IsLoopback() && !ip.IsPrivate() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be positive, got: %d", size)
	}

	// Minimum 1MB, maximum 1GB
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validatePath validates a path-valued configuration variable
func validatePath(path, configName string) error {
	if path == "" {
		return fmt.Errorf("invalid %s: cannot be empty", configName)
	}

	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("invalid %s: contains NUL byte", configName)
	}

	return nil
}

// validateFileName validates a file-name-valued configuration variable
func validateFileName(name, configName string) error {
	if name == "" {
		return fmt.Errorf("invalid %s: cannot be empty", configName)
	}

	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("invalid %s: must be a bare file name, got: %s", configName, name)
	}

	return nil
}

var importTimeRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// validateImportTime validates the IMPORT_TIME environment variable
func validateImportTime(importTime string) error {
	if importTime == "" {
		return fmt.Errorf("IMPORT_TIME cannot be empty")
	}

	if !importTimeRegex.MatchString(importTime) {
		return fmt.Errorf("IMPORT_TIME must be HH:MM (24h), got: %s", importTime)
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"DB_PATH",
		"DATA_DIR",
		"FESTBETRAG_FILE",
		"ZUZAHLUNG_FILE",
		"ZUZAHLUNG_CSV",
		"IMPORT_TIME",
	}
}
