package normalize

import (
	"strconv"
	"strings"
)

// CoerceKind selects how a raw string value becomes a typed column value.
type CoerceKind int

const (
	CoerceString CoerceKind = iota // passthrough, empty-string default
	CoerceInt                      // strip formatting, parse; nil on failure
	CoerceFloat                    // strip thousand separators, parse; nil on failure
	CoerceDate                     // passthrough string, nil when empty
)

// asInteger strips non-numeric formatting and parses. Empty or unparseable
// input yields nil rather than a zero that would overwrite real data.
func asInteger(raw string) interface{} {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, strings.TrimSpace(raw))

	if cleaned == "" || cleaned == "-" {
		return nil
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil
	}
	return n
}

// asFloat removes thousand separators and parses. "1,234.50" -> 1234.5.
func asFloat(raw string) interface{} {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return f
}

// asDate passes the source's date string through untouched; the store
// column owns parsing. Empty input becomes nil.
func asDate(raw string) interface{} {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return trimmed
}

func asString(raw string) interface{} {
	return raw
}

func coerce(kind CoerceKind, raw string) interface{} {
	switch kind {
	case CoerceInt:
		return asInteger(raw)
	case CoerceFloat:
		return asFloat(raw)
	case CoerceDate:
		return asDate(raw)
	default:
		return asString(raw)
	}
}
