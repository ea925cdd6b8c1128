package payload

import (
	"time"

	"github.com/araddon/dateparse"
)

// parseDate accepts anything dateparse understands. Strings without a zone
// are read as UTC so comparisons do not depend on the host timezone.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func sameInstant(a, b time.Time) bool {
	return a.UnixMilli() == b.UnixMilli()
}
