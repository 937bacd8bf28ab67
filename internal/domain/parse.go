package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// ParseFatalities parses a fatalities cell as a non-negative integer.
// Returns nil for empty, non-numeric, or negative values — the row is kept
// with an unknown count rather than dropped or zeroed.
func ParseFatalities(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// SplitLocalTime splits a raw archive date cell on the first "at" token:
//
//	"Sep 10, 2017 at 1130 LT"  →  ("Sep 10, 2017 ", " 1130 LT")
//
// The surrounding spaces are preserved, so date+"at"+localTime reconstructs
// the original cell. Cells without "at" (older entries carry no time) keep
// the whole text as the date with an empty local time.
func SplitLocalTime(raw string) (date, localTime string) {
	before, after, found := strings.Cut(raw, "at")
	if !found {
		return raw, ""
	}
	return before, after
}

// SplitLocalTimes applies SplitLocalTime to each record in place. Records
// that already carry a local time are left untouched, so the pass is safe
// to run on checkpoint data that was split on a previous run.
func SplitLocalTimes(records []AccidentRecord) {
	for i := range records {
		if records[i].LocalTime != "" {
			continue
		}
		records[i].Date, records[i].LocalTime = SplitLocalTime(records[i].Date)
	}
}

// generateID produces a deterministic ID from the record's key fields.
// Deterministic IDs make replays idempotent — re-crawling the same archive
// window yields the same IDs, so sinks can deduplicate without coordination.
func generateID(date, location, model, fatalities string) string {
	input := fmt.Sprintf("%s|%s|%s|%s", date, location, model, fatalities)
	hash := sha256.Sum256([]byte(input))
	return "crash-" + hex.EncodeToString(hash[:8])
}
