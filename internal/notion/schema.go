package notion

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

// columnPayload is one property definition as the service sends it. Only the
// type tag and the option lists of enumerated types are kept; everything
// else in the payload is configuration this system never reads.
type columnPayload struct {
	Type        string         `json:"type"`
	Select      *optionsHolder `json:"select"`
	Status      *optionsHolder `json:"status"`
	MultiSelect *optionsHolder `json:"multi_select"`
}

type optionsHolder struct {
	Options []option `json:"options"`
}

type option struct {
	Name string `json:"name"`
}

// decodeSchema turns the raw properties object into an ordered Schema.
// encoding/json maps lose key order, so the object is walked token by
// token; the resulting column order is the wire order of the response,
// which keeps first-of-type fallbacks deterministic.
func decodeSchema(raw json.RawMessage) (types.Schema, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("properties is not an object")
	}

	var schema types.Schema
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("property name is not a string")
		}

		var col columnPayload
		if err := dec.Decode(&col); err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}

		schema = append(schema, types.SchemaColumn{Name: name, Def: columnDef(col)})
	}

	return schema, nil
}

// columnDef normalizes a raw column payload into a ColumnDef.
func columnDef(col columnPayload) types.ColumnDef {
	typ := types.ColumnType(col.Type)
	if typ == "" {
		typ = types.ColumnUnknown
	}

	def := types.ColumnDef{Type: typ}
	switch typ {
	case types.ColumnSelect:
		def.Options = optionNames(col.Select)
	case types.ColumnStatus:
		def.Options = optionNames(col.Status)
	case types.ColumnMultiSelect:
		def.Options = optionNames(col.MultiSelect)
	}
	return def
}

func optionNames(holder *optionsHolder) []string {
	if holder == nil {
		return nil
	}
	names := make([]string, 0, len(holder.Options))
	for _, o := range holder.Options {
		if o.Name != "" {
			names = append(names, o.Name)
		}
	}
	return names
}
