package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Level  string
	Format string
	Writer io.Writer
}

// New creates a structured logger: text or JSON, at the configured level.
func New(cfg Config) *slog.Logger {
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}
	options := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "text") {
		return slog.New(slog.NewTextHandler(writer, options))
	}
	return slog.New(slog.NewJSONHandler(writer, options))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DailyFile writes to LOG_DIR/app-YYYY-MM-DD.log and switches to a new file
// when the date changes. Files older than the retention window are removed
// on every switch.
type DailyFile struct {
	dir           string
	retentionDays int
	now           func() time.Time

	mu   sync.Mutex
	date string
	file *os.File
}

func OpenDailyFile(dir string, retentionDays int) (*DailyFile, error) {
	if retentionDays < 1 {
		retentionDays = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	d := &DailyFile{dir: dir, retentionDays: retentionDays, now: time.Now}
	if err := d.rotate(d.now().Format("2006-01-02")); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if date := d.now().Format("2006-01-02"); date != d.date {
		if err := d.rotate(date); err != nil && d.file == nil {
			return 0, err
		}
	}
	return d.file.Write(p)
}

// rotate must be called with mu held, or before the file is shared.
func (d *DailyFile) rotate(date string) error {
	filename := filepath.Join(d.dir, fmt.Sprintf("app-%s.log", date))
	next, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if d.file != nil {
		_ = d.file.Close()
	}
	d.file = next
	d.date = date
	CleanupOldLogs(d.dir, d.retentionDays, d.now())
	return nil
}

func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// CleanupOldLogs keeps the app-*.log files of the last retentionDays days,
// today included.
func CleanupOldLogs(dir string, retentionDays int, now time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, 0, -(retentionDays - 1))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, "app-"), ".log")
		logDate, err := time.Parse("2006-01-02", datePart)
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}
