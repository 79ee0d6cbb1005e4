package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Values treated as missing, compared case-insensitively
var nullTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"nan":  {},
	"none": {},
}

// IsNullToken reports whether a raw cell should be treated as missing
func IsNullToken(v string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// Datetime layouts tried during inference, most common first
var datetimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-01-02T15:04:05",
}

// inferSampleLimit caps how many non-null values type inference examines
const inferSampleLimit = 10000

func parseNumeric(v string) (float64, bool) {
	s := strings.TrimSpace(v)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "t", "y":
		return true, true
	case "false", "no", "f", "n":
		return false, true
	}
	return false, false
}

// ParseDatetime parses a cell against the known layouts
func ParseDatetime(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InferDType classifies a column from its non-null values. Every sampled
// value must parse for a type to win; otherwise the column is categorical.
func InferDType(values []string, nulls []bool) DType {
	sampled := 0
	numeric, boolean, datetime := true, true, true

	for i, v := range values {
		if nulls[i] {
			continue
		}
		if sampled >= inferSampleLimit {
			break
		}
		sampled++

		if numeric {
			if _, ok := parseNumeric(v); !ok {
				numeric = false
			}
		}
		if boolean {
			if _, ok := parseBool(v); !ok {
				boolean = false
			}
		}
		if datetime {
			if _, ok := ParseDatetime(v); !ok {
				datetime = false
			}
		}
		if !numeric && !boolean && !datetime {
			return DTypeCategorical
		}
	}

	if sampled == 0 {
		return DTypeCategorical
	}

	// Boolean wins over numeric so 0/1 flags stay numeric but t/f stays boolean
	switch {
	case boolean && !numeric:
		return DTypeBoolean
	case numeric:
		return DTypeNumeric
	case datetime:
		return DTypeDatetime
	case boolean:
		return DTypeBoolean
	}
	return DTypeCategorical
}
