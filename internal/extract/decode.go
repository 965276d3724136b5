package extract

import (
	"encoding/json"
	"fmt"
	"sort"

	"evaluator/internal/model"
	"evaluator/internal/schema"
)

// Decode filters a normalized payload through the allow-list and returns a
// typed update. A section that is present and non-empty in the payload is
// non-nil in the update even if all of its values were dropped. Dropped
// names the section.field keys that were discarded, sorted.
func Decode(raw map[string]any) (update *model.Record, dropped []string, err error) {
	clean := make(map[string]map[string]any)

	for name, v := range raw {
		section, known := schema.KnownSection(name)
		if !known {
			dropped = append(dropped, name)
			continue
		}
		fields, ok := v.(map[string]any)
		if !ok || len(fields) == 0 {
			continue
		}

		out := make(map[string]any)
		for key, value := range fields {
			if value == nil {
				continue
			}
			spec, ok := schema.Lookup(section, model.Field(key))
			if !ok {
				dropped = append(dropped, name+"."+key)
				continue
			}
			cv, ok := coerce(spec, value)
			if !ok {
				dropped = append(dropped, name+"."+key)
				continue
			}
			out[key] = cv
		}
		clean[name] = out
	}

	data, err := json.Marshal(clean)
	if err != nil {
		return nil, dropped, fmt.Errorf("failed to encode update: %w", err)
	}
	update = &model.Record{}
	if err := json.Unmarshal(data, update); err != nil {
		return nil, dropped, fmt.Errorf("failed to decode update: %w", err)
	}

	sort.Strings(dropped)
	return update, dropped, nil
}

// Meaningful reports whether an update carries at least one known value
func Meaningful(update *model.Record) bool {
	if update == nil {
		return false
	}
	for _, spec := range schema.Fields() {
		if _, ok := update.FieldValue(spec.Ref()); ok {
			return true
		}
	}
	return false
}
