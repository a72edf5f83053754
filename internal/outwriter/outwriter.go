// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/codepulse/internal/contract"
	"golang.org/x/term"
)

// Bounds for the name column of breakdown tables.
const (
	minNameWidth = 12
	maxNameWidth = 48
)

// GetMaxTableNameWidth calculates the maximum width for breakdown names in table output
// based on terminal width and the width taken by the other columns.
func GetMaxTableNameWidth(cfg *contract.Config, fixedColumns int) int {
	termWidth := cfg.Width // Absolute override from flag/env

	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - fixedColumns - 10
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}
