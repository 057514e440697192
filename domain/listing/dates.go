package listing

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"golang.org/x/xerrors"

	"github.com/shelterseek/goapi/domain"
)

const dateLayout = "2006-01-02"

// NormalizeDate strips the time-of-day component so calendar dates compare
// equal regardless of how they were submitted.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeDates normalizes, deduplicates and sorts a date list so
// unavailableDates is always a proper set.
func NormalizeDates(ts []time.Time) []time.Time {
	seen := map[time.Time]bool{}
	res := []time.Time{}
	for _, t := range ts {
		n := NormalizeDate(t)
		if seen[n] {
			continue
		}
		seen[n] = true
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Before(res[j]) })
	return res
}

// ParseDates accepts the two external forms of the date list: repeated form
// values, or a single serialized JSON array.
func ParseDates(values []string) ([]time.Time, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var arr []string
		if err := json.Unmarshal([]byte(values[0]), &arr); err != nil {
			return nil, xerrors.Errorf("parse date list: %w", domain.ErrInvalidJsonFormat)
		}
		values = arr
	}

	res := []time.Time{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		t, err := parseDate(v)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return NormalizeDates(res), nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, xerrors.Errorf("invalid date %q: %w", v, domain.ErrBadParamInput)
}
