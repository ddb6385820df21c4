package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shopbackend/internal/logger"
)

const (
	defaultRetentionDays = 30
	maxDeletionPerRun    = 25 // Maximum log files to delete per run
)

// Retention converts a day count into a duration; non-positive means the default
func Retention(days int) time.Duration {
	if days <= 0 {
		days = defaultRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// PruneLogs removes log files written by the logger that were last modified
// before now-retention. The file currently being written is never removed.
func PruneLogs(cfg logger.Config, retention time.Duration, now time.Time) (int, error) {
	format := cfg.LogFileFormat
	if format == "" {
		format = "shop_%s.log"
	}
	pattern := strings.Replace(format, "%s", "*", 1)
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(cfg.LogsDirectory, pattern)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid log file pattern %q: %w", pattern, err)
	}

	cutoffTime := now.Add(-retention)
	current := logger.GetLogFilePath()
	removed := 0

	for _, path := range matches {
		if removed >= maxDeletionPerRun {
			logger.LogWarn("Log cleanup stopped after %d files; the rest will be removed next run", removed)
			break
		}
		if sameFile(path, current) {
			continue
		}

		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoffTime) {
			continue
		}
		if err := os.Remove(path); err != nil {
			logger.LogError("Failed to remove old log file %s: %v", path, err)
			continue
		}
		removed++
	}

	if removed == 0 {
		logger.LogInfo("Log cleanup completed - nothing older than %v", cutoffTime.Format("2006-01-02 15:04:05"))
	} else {
		logger.LogInfo("Log cleanup completed - %d old log files removed", removed)
	}
	return removed, nil
}

func sameFile(a, b string) bool {
	if b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
