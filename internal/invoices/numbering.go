package invoices

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NumberPrefix returns the year-scoped prefix, e.g. "INV-2026-".
func NumberPrefix(year int) string {
	return fmt.Sprintf("INV-%d-", year)
}

// NextNumber suggests the next invoice number for now's year given the
// numbers already issued under that year's prefix. The sequence continues
// from the highest numeric trailing segment; numbers whose trailing segment
// is not numeric, or too large to be followed, are skipped, so a prefix holding none that parse starts at 1.
func NextNumber(now time.Time, existing []string) string {
	prefix := NumberPrefix(now.Year())
	highest := 0
	for _, number := range existing {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		seq, ok := parseSequence(number)
		if !ok {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}

func parseSequence(number string) (int, bool) {
	segment := number[strings.LastIndex(number, "-")+1:]
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	seq, err := strconv.Atoi(segment)
	if err != nil || seq == math.MaxInt {
		return 0, false
	}
	return seq, true
}
