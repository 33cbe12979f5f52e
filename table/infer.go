package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/cellmatch/core"
)

// missingMarkers are cell texts read as missing values.
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"#N/A": {},
}

// dateLayouts are tried in order; a column is a date column only if one layout parses
// every non-missing cell.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2 January 2006",
}

func isMissing(cell string) bool {
	_, ok := missingMarkers[strings.TrimSpace(cell)]
	return ok
}

// inferColumn builds a typed column from raw cells.
// Integer wins over float, float over date, date over text. A missing cell in an
// otherwise integer column makes it a float column.
func inferColumn(name string, cells []string, parseDates bool) *core.Column {
	present := 0
	for _, c := range cells {
		if !isMissing(c) {
			present++
		}
	}
	if present == 0 {
		return textColumn(name, cells)
	}

	if ints, ok := parseAll(cells, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}); ok {
		if present == len(cells) {
			return &core.Column{Name: name, Kind: core.KindInteger, Values: ints}
		}
		return &core.Column{Name: name, Kind: core.KindFloat, Values: toFloats(ints)}
	}

	if floats, ok := parseAll(cells, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}); ok {
		return &core.Column{Name: name, Kind: core.KindFloat, Values: floats}
	}

	if parseDates {
		for _, layout := range dateLayouts {
			if dates, ok := parseAll(cells, func(s string) (time.Time, error) {
				return time.Parse(layout, s)
			}); ok {
				return &core.Column{Name: name, Kind: core.KindDate, Values: dates}
			}
		}
	}

	return textColumn(name, cells)
}

func textColumn(name string, cells []string) *core.Column {
	values := make([]any, len(cells))
	for i, c := range cells {
		if isMissing(c) {
			continue
		}
		values[i] = c
	}
	return &core.Column{Name: name, Kind: core.KindTextual, Values: values}
}

func parseAll[T any](cells []string, parse func(string) (T, error)) ([]any, bool) {
	values := make([]any, len(cells))
	for i, c := range cells {
		if isMissing(c) {
			continue
		}
		v, err := parse(strings.TrimSpace(c))
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func toFloats(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if n, ok := v.(int64); ok {
			out[i] = float64(n)
		}
	}
	return out
}
