package normalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go-datasync/internal/features/source"
)

// TypedRow is a destination row: column name -> integer, float, date
// string, string or nil.
type TypedRow map[string]interface{}

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// Normalize turns raw source rows into typed destination rows for table.
// Pure apart from the appended wall-clock timestamp.
func Normalize(table string, rows []source.RawRow) []TypedRow {
	desc := Lookup(table)

	out := make([]TypedRow, 0, len(rows))
	for i, raw := range rows {
		var typed TypedRow
		if desc.Generic {
			typed = normalizeGeneric(raw, i)
		} else {
			typed = normalizeMapped(desc, raw)
		}

		switch desc.Key {
		case KeySequential:
			if typed[desc.IDField] == nil {
				typed[desc.IDField] = int64(i + 1)
			}
		case KeyComposite:
			if typed["pkey"] == nil {
				typed["pkey"] = compositeKey(typed, desc, i)
			}
		}

		typed["timestamp"] = nowFunc().UTC().Format(time.RFC3339)
		out = append(out, typed)
	}
	return out
}

func normalizeMapped(desc Descriptor, raw source.RawRow) TypedRow {
	typed := TypedRow{}
	for _, rule := range desc.Fields {
		typed[rule.Dest] = coerce(rule.Coerce, raw[rule.Source])
	}
	// Line-item searches sometimes carry a ready-made composite key.
	if pkey, ok := raw["pkey"]; ok && pkey != "" {
		typed["pkey"] = pkey
	}
	return typed
}

// normalizeGeneric infers coercion per field from name-substring
// heuristics and synthesizes an id when no identifier-like field exists.
func normalizeGeneric(raw source.RawRow, rowIndex int) TypedRow {
	labels := make([]string, 0, len(raw))
	for label := range raw {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	typed := TypedRow{}
	hasID := false
	for _, label := range labels {
		typed[toColumn(label)] = coerce(inferCoercion(label), raw[label])
		if strings.Contains(strings.ToLower(label), "id") {
			hasID = true
		}
	}
	if !hasID {
		typed["id"] = int64(rowIndex + 1)
	}
	return typed
}

func inferCoercion(label string) CoerceKind {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "id"):
		return CoerceInt
	case strings.Contains(lower, "amount"), strings.Contains(lower, "price"), strings.Contains(lower, "total"):
		return CoerceFloat
	case strings.Contains(lower, "date"):
		return CoerceDate
	default:
		return CoerceString
	}
}

// compositeKey builds "{parentID}_{lineID}", falling back to rowIndex+1
// for either component. Fallback keys are stable only within one run if
// the source omits the IDs; that risk is inherited, not masked.
func compositeKey(typed TypedRow, desc Descriptor, rowIndex int) string {
	parent := typed[desc.IDField]
	if parent == nil {
		parent = int64(rowIndex + 1)
	}
	line := typed[desc.LineField]
	if line == nil {
		line = int64(rowIndex + 1)
	}
	return fmt.Sprintf("%v_%v", parent, line)
}

func toColumn(label string) string {
	col := strings.ToLower(strings.TrimSpace(label))
	var sb strings.Builder
	for _, r := range col {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
