package notion

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

// WireProperties is the service's property payload for a record write: one
// entry per column, each in the single canonical shape its type tag demands.
type WireProperties map[string]any

// EncodeProperties serializes candidate properties against the live schema.
// It never fails; it degrades by omission instead. A candidate is eligible
// when its key is the title column or a schema column; everything else is
// dropped. Columns whose type tag has no wire shape are dropped too. The
// output always carries exactly one title entry, synthesized from the
// first candidate or a placeholder when no candidate populated it.
func EncodeProperties(props types.PropertySet, titleColumn string, schema types.Schema, log *zap.Logger) WireProperties {
	out := make(WireProperties)
	titleSet := false

	for _, entry := range props {
		name, v := entry.Name, entry.Value

		typ := types.ColumnUnknown
		if name == titleColumn {
			typ = types.ColumnTitle
		} else if def, ok := schema.Get(name); ok {
			typ = def.Type
		} else {
			log.Debug("dropping candidate for absent column", zap.String("column", name))
			continue
		}

		switch typ {
		case types.ColumnTitle:
			out[titleColumn] = titleShape(v.Text())
			titleSet = true
		case types.ColumnSelect:
			out[name] = map[string]any{"select": namedOption(v)}
		case types.ColumnStatus:
			out[name] = map[string]any{"status": namedOption(v)}
		case types.ColumnMultiSelect:
			out[name] = map[string]any{"multi_select": namedOptions(v)}
		case types.ColumnRichText:
			out[name] = map[string]any{
				"rich_text": []any{map[string]any{"text": map[string]any{"content": v.Text()}}},
			}
		case types.ColumnDate:
			if v.IsEmpty() {
				out[name] = map[string]any{"date": nil}
			} else {
				out[name] = map[string]any{"date": map[string]any{"start": v.Text()}}
			}
		case types.ColumnURL:
			out[name] = map[string]any{"url": nullableText(v)}
		case types.ColumnEmail:
			out[name] = map[string]any{"email": nullableText(v)}
		case types.ColumnPhoneNumber:
			out[name] = map[string]any{"phone_number": nullableText(v)}
		case types.ColumnNumber:
			out[name] = map[string]any{"number": numberShape(v)}
		case types.ColumnCheckbox:
			out[name] = map[string]any{"checkbox": boolShape(v)}
		case types.ColumnPeople:
			// The service requires well-formed identity references here.
			// Anything else is skipped entirely rather than risk a reject.
			if people, ok := peopleShape(v); ok {
				out[name] = map[string]any{"people": people}
			} else {
				log.Debug("dropping malformed people value", zap.String("column", name))
			}
		default:
			log.Debug("dropping unsupported column type",
				zap.String("column", name), zap.String("type", string(typ)))
		}
	}

	if !titleSet {
		text := "(無題)"
		if len(props) > 0 {
			text = props[0].Value.Text()
		}
		out[titleColumn] = titleShape(text)
	}

	return out
}

func titleShape(text string) map[string]any {
	return map[string]any{
		"title": []any{map[string]any{"text": map[string]any{"content": text}}},
	}
}

// namedOption yields a single named option object, or nil for an empty value.
func namedOption(v types.PropertyValue) any {
	if v.IsEmpty() {
		return nil
	}
	return map[string]any{"name": v.Text()}
}

// namedOptions yields an array of named option objects; a non-list value
// degrades to an empty array.
func namedOptions(v types.PropertyValue) []any {
	if v.Kind != types.ValueStringList {
		return []any{}
	}
	items := make([]any, 0, len(v.List))
	for _, s := range v.List {
		items = append(items, map[string]any{"name": s})
	}
	return items
}

func nullableText(v types.PropertyValue) any {
	if v.IsEmpty() {
		return nil
	}
	return v.Text()
}

// numberShape yields the numeric value, parsing string candidates, or nil
// when the value is empty or unparseable.
func numberShape(v types.PropertyValue) any {
	switch v.Kind {
	case types.ValueNumber:
		return v.Num
	case types.ValueString:
		if v.Str == "" {
			return nil
		}
		if n, err := strconv.ParseFloat(v.Str, 64); err == nil {
			return n
		}
		return nil
	default:
		return nil
	}
}

func boolShape(v types.PropertyValue) bool {
	if v.Kind == types.ValueBool {
		return v.Bool
	}
	return !v.IsEmpty()
}

// peopleShape passes the value through only when every element carries an
// identity reference.
func peopleShape(v types.PropertyValue) ([]any, bool) {
	if v.Kind != types.ValuePeople || len(v.People) == 0 {
		return nil, false
	}
	people := make([]any, 0, len(v.People))
	for _, p := range v.People {
		if p.ID == "" {
			return nil, false
		}
		people = append(people, map[string]any{"id": p.ID})
	}
	return people, true
}
