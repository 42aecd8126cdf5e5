package types

// ColumnType tags a destination column with its value kind. The tags mirror
// the database service's property types verbatim; anything the service adds
// later arrives as ColumnUnknown and is skipped at serialization time.
type ColumnType string

const (
	ColumnTitle       ColumnType = "title"
	ColumnRichText    ColumnType = "rich_text"
	ColumnSelect      ColumnType = "select"
	ColumnStatus      ColumnType = "status"
	ColumnMultiSelect ColumnType = "multi_select"
	ColumnDate        ColumnType = "date"
	ColumnURL         ColumnType = "url"
	ColumnEmail       ColumnType = "email"
	ColumnPhoneNumber ColumnType = "phone_number"
	ColumnNumber      ColumnType = "number"
	ColumnCheckbox    ColumnType = "checkbox"
	ColumnPeople      ColumnType = "people"
	ColumnUnknown     ColumnType = "unknown"
)

// supportedColumnTypes is the set of tags the serializer can encode.
var supportedColumnTypes = map[ColumnType]bool{
	ColumnTitle:       true,
	ColumnRichText:    true,
	ColumnSelect:      true,
	ColumnStatus:      true,
	ColumnMultiSelect: true,
	ColumnDate:        true,
	ColumnURL:         true,
	ColumnEmail:       true,
	ColumnPhoneNumber: true,
	ColumnNumber:      true,
	ColumnCheckbox:    true,
	ColumnPeople:      true,
}

// IsSupportedColumnType reports whether the serializer has a wire shape for
// the given tag.
func IsSupportedColumnType(t ColumnType) bool {
	return supportedColumnTypes[t]
}

// ColumnDef describes one column of a destination schema: its type tag and,
// for enumerated types (select, status, multi_select), the permitted option
// labels in the order the service lists them.
type ColumnDef struct {
	Type    ColumnType
	Options []string
}

// SchemaColumn pairs a column name with its definition. Schema keeps columns
// as an ordered slice rather than a map so that iteration order is the wire
// order of the service response, which makes first-of-type fallbacks stable.
type SchemaColumn struct {
	Name string
	Def  ColumnDef
}

// Schema is a destination's ordered column listing.
type Schema []SchemaColumn

// Get returns the definition for the named column.
func (s Schema) Get(name string) (ColumnDef, bool) {
	for _, c := range s {
		if c.Name == name {
			return c.Def, true
		}
	}
	return ColumnDef{}, false
}

// Has reports whether the schema contains the named column.
func (s Schema) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// FirstOfType returns the name of the first column carrying the given type
// tag, in wire order.
func (s Schema) FirstOfType(t ColumnType) (string, bool) {
	for _, c := range s {
		if c.Def.Type == t {
			return c.Name, true
		}
	}
	return "", false
}
