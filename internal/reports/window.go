package reports

import (
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// Window is the inclusive time range a report covers.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w Window) period() Period {
	return Period{Start: w.Start, End: w.End}
}

// ResolveWindow parses caller supplied bounds. A missing start falls back to
// now minus fallback, a missing end to now, and the end always runs to the
// last millisecond of its day.
func ResolveWindow(startRaw, endRaw string, fallback time.Duration, now time.Time) (Window, error) {
	now = now.UTC()

	end := now
	if raw := strings.TrimSpace(endRaw); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return Window{}, dateError("endDate")
		}
		end = parsed
	}
	end = endOfDay(end)

	start := now.Add(-fallback)
	if raw := strings.TrimSpace(startRaw); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return Window{}, dateError("startDate")
		}
		start = parsed
	}

	if end.Before(start) {
		return Window{}, pkgerrors.New(pkgerrors.CodeValidation, "endDate must not be before startDate").
			WithDetails(map[string]any{"field": "endDate"})
	}
	return Window{Start: start, End: end}, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(dateLayout, raw)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

func dateError(field string) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be RFC3339 or YYYY-MM-DD", field).
		WithDetails(map[string]any{"field": field})
}
