package pipeline

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// epochSentinel is returned for unparseable timestamps. It always loses a
// "more recent wins" comparison against any real export timestamp.
var epochSentinel = time.Unix(0, 0).UTC()

// timestampPatterns are tried in order. Each index list maps the capture
// groups onto (year, month, day, hour, minute, second).
var timestampPatterns = []struct {
	re    *regexp.Regexp
	order [6]int
}{
	// DD/MM/YYYY HH:mm(:ss)
	{regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})\s+(\d{2}):(\d{2})(?::(\d{2}))?`), [6]int{3, 2, 1, 4, 5, 6}},
	// YYYY-MM-DD HH:mm(:ss)
	{regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})\s+(\d{2}):(\d{2})(?::(\d{2}))?`), [6]int{1, 2, 3, 4, 5, 6}},
	// MM/DD/YY HH:mm(:ss)
	{regexp.MustCompile(`(\d{2})/(\d{2})/(\d{2})\s+(\d{2}):(\d{2})(?::(\d{2}))?`), [6]int{3, 1, 2, 4, 5, 6}},
}

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseTimestamp converts a status-sheet date string into an instant. Any
// trailing "+offset" suffix is stripped before matching. Two-digit years
// are read as 2000+yy. Unparseable input yields the epoch sentinel; this
// function never fails.
func ParseTimestamp(raw string) time.Time {
	if raw == "" {
		return epochSentinel
	}

	// Exports occasionally append a timezone offset the formats don't carry.
	raw = strings.TrimSpace(strings.SplitN(raw, "+", 2)[0])

	for _, pattern := range timestampPatterns {
		match := pattern.re.FindStringSubmatch(raw)
		if match == nil {
			continue
		}

		var parts [7]int
		for i := 1; i < len(match) && i <= 6; i++ {
			parts[i], _ = strconv.Atoi(match[i])
		}

		year := parts[pattern.order[0]]
		if year < 100 {
			year += 2000
		}

		// time.Date normalizes out-of-range fields the same way the source
		// data relies on, so no extra validation here.
		return time.Date(year,
			time.Month(parts[pattern.order[1]]),
			parts[pattern.order[2]],
			parts[pattern.order[3]],
			parts[pattern.order[4]],
			parts[pattern.order[5]],
			0, time.UTC)
	}

	for _, layout := range fallbackLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}

	log.Printf("[DateParser] Unable to parse date: %q", raw)
	return epochSentinel
}
