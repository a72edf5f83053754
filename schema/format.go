package schema

import (
	"fmt"
	"strings"
)

// DurationParts holds the display fields derived from a number of seconds.
type DurationParts struct {
	Digital string `json:"digital"`
	Text    string `json:"text"`
	Hours   int64  `json:"hours"`
	Minutes int64  `json:"minutes"`
	Seconds int64  `json:"seconds"`
}

// TotalSeconds rebuilds the duration the parts were derived from.
func (p DurationParts) TotalSeconds() int64 {
	return p.Hours*3600 + p.Minutes*60 + p.Seconds
}

// FormatDuration derives every display field of a breakdown entry from its seconds.
// It is the only place these fields are produced; callers never edit them by hand.
func FormatDuration(totalSeconds int64) DurationParts {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	return DurationParts{
		Digital: fmt.Sprintf("%d:%02d", h, m),
		Text:    formatText(h, m),
		Hours:   h,
		Minutes: m,
		Seconds: totalSeconds % 60,
	}
}

// FormatRecordDuration is FormatDuration for a whole day or window, whose text always
// spells out both units ("6 hrs 0 mins"). An empty day keeps the "0 secs" placeholder.
func FormatRecordDuration(totalSeconds int64) DurationParts {
	parts := FormatDuration(totalSeconds)
	if totalSeconds > 0 {
		parts.Text = recordText(parts.Hours, parts.Minutes)
	}
	return parts
}

func recordText(h, m int64) string {
	return fmt.Sprintf("%d hrs %d mins", h, m)
}

func formatText(h, m int64) string {
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d hrs %d mins", h, m)
	case h > 0:
		return fmt.Sprintf("%d hrs", h)
	case m > 0:
		return fmt.Sprintf("%d mins", m)
	default:
		return "0 secs"
	}
}

// plural picks the singular or plural unit for n.
func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatDetailed renders seconds as "7 hours 40 minutes 12 seconds".
func FormatDetailed(totalSeconds float64) string {
	s := int64(totalSeconds)
	if s <= 0 {
		return "0 seconds"
	}
	h, m, sec := s/3600, (s%3600)/60, s%60

	var parts []string
	if h > 0 {
		parts = append(parts, plural(h, "hour"))
	}
	if m > 0 {
		parts = append(parts, plural(m, "minute"))
	}
	if sec > 0 || len(parts) == 0 {
		parts = append(parts, plural(sec, "second"))
	}
	return strings.Join(parts, " ")
}

// FormatHoursMinutes renders seconds as "7 hours 40 minutes", dropping seconds.
func FormatHoursMinutes(totalSeconds float64) string {
	s := int64(totalSeconds)
	if s <= 0 {
		return "0 minutes"
	}
	h, m := s/3600, (s%3600)/60

	var parts []string
	if h > 0 {
		parts = append(parts, plural(h, "hour"))
	}
	if m > 0 || len(parts) == 0 {
		parts = append(parts, plural(m, "minute"))
	}
	return strings.Join(parts, " ")
}

// FormatCompact renders seconds as "7h 40m 12s".
func FormatCompact(totalSeconds float64) string {
	s := int64(totalSeconds)
	if s <= 0 {
		return "0s"
	}
	h, m, sec := s/3600, (s%3600)/60, s%60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if sec > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", sec))
	}
	return strings.Join(parts, " ")
}
