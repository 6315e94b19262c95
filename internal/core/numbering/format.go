package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DatePrefix computes the fixed-width date-derived prefix of an identifier:
// cfg.Prefix + YYYYMMDD (or YYMMDD when ShortYear is set).
//
// No time zone conversion is performed; the caller supplies a timestamp
// already in the deployment's business day.
func DatePrefix(now time.Time, cfg SequenceConfig) string {
	layout := "20060102"
	if cfg.ShortYear {
		layout = "060102"
	}
	return cfg.Prefix + now.Format(layout)
}

// ExtractSequence pulls the numeric sequence out of an existing identifier.
// The date prefix is stripped if present, then the last digits characters of
// the remainder must all be decimal digits (trailing-anchor match, not a
// full-string match). Legacy values with embedded garbage such as
// "20240315-ABC-010" still yield a usable sequence as long as the tail is
// numeric. Returns false when no such tail exists.
func ExtractSequence(identifier, datePrefix string, digits int) (int, bool) {
	if digits < 1 {
		return 0, false
	}
	rest := strings.TrimPrefix(identifier, datePrefix)
	if len(rest) < digits {
		return 0, false
	}
	tail := rest[len(rest)-digits:]
	for i := 0; i < len(tail); i++ {
		if tail[i] < '0' || tail[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tail)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatSequence zero-pads n to the configured width.
// The caller must have applied wraparound already, so n < 10^digits.
func FormatSequence(n, digits int) string {
	return fmt.Sprintf("%0*d", digits, n)
}
