package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// File name prefix for import log files.
const logFilePrefix = "import"

// RotatingLogger writes to weekly log files and rotates mid-week when a file
// reaches the size limit. Old files are removed after the retention period.
type RotatingLogger struct {
	logDir      string
	currentFile *os.File
	currentWeek string
	retention   time.Duration
	maxFileSize int64
	currentSize atomic.Int64
	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	cleanupDone chan struct{}
}

// NewRotatingLogger creates a rotating logger with the given retention and
// per-file size limit.
func NewRotatingLogger(logDir string, retentionWeeks int, maxFileSize int64) *RotatingLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &RotatingLogger{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}
}

// weekKey returns the ISO week key, e.g. "2026-W35".
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write appends to the current log file, rotating first when the week changed
// or the size limit is reached.
func (rl *RotatingLogger) Write(p []byte) (n int, err error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(time.Now())
	needsRotation := rl.currentWeek != week
	if rl.maxFileSize > 0 && !needsRotation {
		size := rl.currentSize.Load()
		if size >= rl.maxFileSize || size+int64(len(p)) > rl.maxFileSize {
			needsRotation = true
			rl.currentSize.Store(rl.maxFileSize)
		}
	}

	if needsRotation {
		if err = rl.rotate(week); err != nil {
			return 0, err
		}
	}

	if rl.currentFile == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err = rl.currentFile.Write(p)
	rl.currentSize.Add(int64(n))
	return n, err
}

// rotate switches to the log file for targetWeek. Caller must hold the lock.
func (rl *RotatingLogger) rotate(targetWeek string) error {
	if rl.currentFile != nil {
		if err := rl.currentFile.Close(); err != nil {
			slog.Warn("Failed to close log file during rotation", "error", err)
		}
	}

	sizeRotation := rl.maxFileSize > 0 && rl.currentSize.Load() >= rl.maxFileSize
	fileName, fresh := rl.pickLogFile(targetWeek, sizeRotation)

	logPath := filepath.Join(rl.logDir, fileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	rl.currentFile = file
	rl.currentWeek = targetWeek

	if fresh {
		rl.currentSize.Store(0)
	} else if info, err := os.Stat(logPath); err == nil {
		rl.currentSize.Store(info.Size())
	}

	return nil
}

// pickLogFile chooses the file for the target week: the base weekly file when
// it still has room, otherwise the next numbered continuation file.
func (rl *RotatingLogger) pickLogFile(targetWeek string, sizeRotation bool) (name string, fresh bool) {
	baseName := fmt.Sprintf("%s-%s.log", logFilePrefix, targetWeek)
	basePath := filepath.Join(rl.logDir, baseName)

	if !sizeRotation {
		info, err := os.Stat(basePath)
		if err != nil || rl.maxFileSize == 0 || info.Size() < rl.maxFileSize {
			return baseName, false
		}
	}

	highest, lastPath, lastSize := rl.highestNumberedFile(targetWeek)
	if lastPath != "" && lastSize < rl.maxFileSize {
		return filepath.Base(lastPath), false
	}

	return fmt.Sprintf("%s-%s_%02d.log", logFilePrefix, targetWeek, highest+1), true
}

var numberedLogRegex = regexp.MustCompile(`-\d{4}-W\d{2}_(\d{2})\.log$`)

// highestNumberedFile finds the highest continuation file of the week.
func (rl *RotatingLogger) highestNumberedFile(targetWeek string) (highest int, lastPath string, lastSize int64) {
	pattern := fmt.Sprintf("%s-%s_??.log", logFilePrefix, targetWeek)
	matches, _ := filepath.Glob(filepath.Join(rl.logDir, pattern))

	for _, match := range matches {
		sub := numberedLogRegex.FindStringSubmatch(filepath.Base(match))
		if len(sub) < 2 {
			continue
		}
		num, _ := strconv.Atoi(sub[1])
		if num > highest {
			highest = num
			lastPath = match
			if info, err := os.Stat(match); err == nil {
				lastSize = info.Size()
			} else {
				lastSize = 0
			}
		}
	}

	return highest, lastPath, lastSize
}

// cleanupOldLogs removes log files past the retention period.
func (rl *RotatingLogger) cleanupOldLogs() error {
	entries, err := os.ReadDir(rl.logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rl.retention)
	deleted := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), logFilePrefix+"-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rl.logDir, entry.Name())); err == nil {
				deleted++
			}
		}
	}

	if deleted > 0 {
		// Console only, to avoid logging through the writer being cleaned.
		fmt.Printf("Cleaned up %d old log files\n", deleted)
	}

	return nil
}

// Close stops the cleanup goroutine and closes the current file.
func (rl *RotatingLogger) Close() error {
	rl.cancel()

	select {
	case <-rl.cleanupDone:
	case <-time.After(5 * time.Second):
		fmt.Printf("Warning: log cleanup goroutine did not shut down gracefully\n")
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.currentFile != nil {
		return rl.currentFile.Close()
	}
	return nil
}

// SetupLogger configures slog to write text to the console and JSON to a
// rotating weekly file. Falls back to console-only when the log directory
// cannot be used.
func SetupLogger(logDir string, retentionWeeks int, maxFileSize int64, level slog.Level) *slog.Logger {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if err := os.MkdirAll(logDir, 0755); err != nil {
		consoleLogger := slog.New(consoleHandler)
		consoleLogger.Error("Failed to create logs directory", "error", err)
		return consoleLogger
	}

	rotating := NewRotatingLogger(logDir, retentionWeeks, maxFileSize)

	rotating.mu.Lock()
	rotateErr := rotating.rotate(weekKey(time.Now()))
	rotating.mu.Unlock()
	if rotateErr != nil {
		consoleLogger := slog.New(consoleHandler)
		consoleLogger.Error("Failed to initialize rotating logger", "error", rotateErr)
		return consoleLogger
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		defer close(rotating.cleanupDone)

		for {
			select {
			case <-rotating.ctx.Done():
				return
			case <-ticker.C:
				if err := rotating.cleanupOldLogs(); err != nil {
					slog.Warn("Failed to cleanup old logs", "error", err)
				}
			}
		}
	}()

	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: level})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}

// ParseLevel maps a configured level name to a slog level. Unknown names fall
// back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// multiHandler fans a record out to every handler that accepts its level.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
