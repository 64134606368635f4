package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AbsoluteDateLayout is the fallback layout for dates shown in full
const AbsoluteDateLayout = "Jan 2, 2006"

var relativePattern = regexp.MustCompile(`(\d+)\s*(mo|yr|h|m|d|w)`)

var relativeUnits = map[string]time.Duration{
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  24 * time.Hour,
	"w":  7 * 24 * time.Hour,
	"mo": 30 * 24 * time.Hour,
	"yr": 365 * 24 * time.Hour,
}

// maxRelativeAge caps relative dates well below the range of time.Duration
const maxRelativeAge = 100 * 365 * 24 * time.Hour

// NormalizeDate converts a feed timestamp into RFC 3339. Relative forms such
// as "3h", "2mo" or "1yr • Edited" are subtracted from now; otherwise the
// text must match AbsoluteDateLayout. Empty input yields nil without error.
func NormalizeDate(raw string, now time.Time) (*string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, nil
	}

	if m := relativePattern.FindStringSubmatch(strings.ToLower(text)); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("relative date %q: %w", text, err)
		}
		unit := relativeUnits[m[2]]
		if n > int(maxRelativeAge/unit) {
			return nil, fmt.Errorf("relative date %q is more than %d years ago", text, int(maxRelativeAge/relativeUnits["yr"]))
		}
		ts := now.Add(-time.Duration(n) * unit).UTC().Format(time.RFC3339)
		return &ts, nil
	}

	t, err := time.Parse(AbsoluteDateLayout, text)
	if err != nil {
		return nil, fmt.Errorf("unrecognized date %q", text)
	}
	ts := t.UTC().Format(time.RFC3339)
	return &ts, nil
}
