// Package extract turns raw extractor output into typed record updates and
// merges them into the accumulated record.
package extract

import (
	"strconv"
	"strings"

	"evaluator/internal/model"
	"evaluator/internal/schema"
)

var ceilingWords = map[string]float64{
	"small":   7,
	"low":     7,
	"average": 8,
	"normal":  8,
	"large":   9,
	"high":    9,
}

// Normalize cleans a raw extractor payload in place and returns it.
// Null sections become empty, the literal string "null" becomes absent, a
// top-level apartment_entry_buffer moves into privacy_between_units and
// qualitative ceiling heights become numbers.
func Normalize(raw map[string]any) map[string]any {
	if raw == nil {
		return map[string]any{}
	}

	for _, s := range model.Sections {
		v, ok := raw[string(s)]
		if !ok {
			continue
		}
		if v == nil {
			raw[string(s)] = map[string]any{}
			continue
		}
		section, ok := v.(map[string]any)
		if !ok {
			continue
		}
		for k, fv := range section {
			if str, ok := fv.(string); ok && strings.EqualFold(strings.TrimSpace(str), "null") {
				section[k] = nil
			}
		}
	}

	entryKey := string(model.FieldApartmentEntryBuffer)
	if v, ok := raw[entryKey]; ok {
		units, _ := raw[string(model.SectionBetweenUnits)].(map[string]any)
		if units == nil {
			units = map[string]any{}
			raw[string(model.SectionBetweenUnits)] = units
		}
		units[entryKey] = v
		delete(raw, entryKey)
	}

	if room, ok := raw[string(model.SectionInRoom)].(map[string]any); ok {
		if s, ok := room[string(model.FieldCeilingHeightFt)].(string); ok {
			room[string(model.FieldCeilingHeightFt)] = ceilingValue(s)
		}
	}

	return raw
}

// ceilingValue maps a qualitative or textual height to feet, or nil
func ceilingValue(s string) any {
	t := strings.ToLower(strings.TrimSpace(s))
	if v, ok := ceilingWords[t]; ok {
		return v
	}
	t = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(t, "feet"), "ft"), "'"))
	if v, err := strconv.ParseFloat(t, 64); err == nil {
		return v
	}
	return s
}

// enumToken lowercases an enum candidate and joins words with underscores
func enumToken(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.Join(strings.FieldsFunc(t, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
	return t
}

func coerce(spec schema.FieldSpec, v any) (any, bool) {
	switch spec.Kind {
	case schema.KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		tok := enumToken(s)
		for _, allowed := range spec.Values {
			if allowed == tok {
				return tok, true
			}
		}
		return nil, false

	case schema.KindBool:
		switch b := v.(type) {
		case bool:
			return b, true
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true", "yes", "y":
				return true, true
			case "false", "no", "n":
				return false, true
			}
		}
		return nil, false

	case schema.KindNumber:
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case string:
			if f, ok := ceilingValue(n).(float64); ok {
				return f, true
			}
		}
		return nil, false
	}
	return nil, false
}
