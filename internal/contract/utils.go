package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/codepulse/schema"
	"github.com/mattn/go-runewidth"
	log "github.com/sirupsen/logrus"
)

// Color variables for console output.
var (
	AboveColor  = color.New(color.FgGreen, color.Bold) // AboveColor marks buckets well over the average.
	SteadyColor = color.New(color.FgCyan)              // SteadyColor marks buckets near the average.
	BelowColor  = color.New(color.FgYellow)            // BelowColor marks buckets under the average.
	IdleColor   = color.New(color.FgHiBlack)           // IdleColor marks buckets without activity.
)

// GetPlainLabel returns the plain text label of an activity level.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(level schema.ActivityLevel) string {
	return string(level)
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(level schema.ActivityLevel) string {
	text := GetPlainLabel(level)

	switch level {
	case schema.AboveLevel:
		return AboveColor.Sprint(text)
	case schema.SteadyLevel:
		return SteadyColor.Sprint(text)
	case schema.BelowLevel:
		return BelowColor.Sprint(text)
	default:
		return IdleColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// ConfigureLogging points the diagnostic logger at stderr with the given level.
func ConfigureLogging(level log.Level) {
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
}

// GetStoreDBFilePath returns the path to the SQLite DB file for record storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".codepulse.db"
	}
	return filepath.Join(homeDir, ".codepulse.db")
}

// TruncateName truncates a name to a maximum display width with an ellipsis suffix.
// Wide runes such as CJK count as two columns.
func TruncateName(name string, maxWidth int) string {
	if maxWidth <= 3 || runewidth.StringWidth(name) <= maxWidth {
		return name
	}
	return runewidth.Truncate(name, maxWidth, "...")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
