package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Property value kinds. A PropertyValue carries exactly one of these; the
// serializer dispatches on the destination column type, not on the kind, so
// a value of the wrong kind degrades to the column type's empty shape.
const (
	ValueString     = "string"
	ValueNumber     = "number"
	ValueBool       = "bool"
	ValueStringList = "string_list"
	ValuePeople     = "people"
)

// Person is an external-identity reference for people columns. Values whose
// elements lack an ID are dropped at serialization time.
type Person struct {
	ID string `json:"id"`
}

// PropertyValue is a tagged union over the value shapes a candidate property
// can take: string, number, boolean, string list, or person list.
type PropertyValue struct {
	Kind   string   `json:"kind"`
	Str    string   `json:"str,omitempty"`
	Num    float64  `json:"num,omitempty"`
	Bool   bool     `json:"bool,omitempty"`
	List   []string `json:"list,omitempty"`
	People []Person `json:"people,omitempty"`
}

// StringValue wraps a string candidate.
func StringValue(s string) PropertyValue {
	return PropertyValue{Kind: ValueString, Str: s}
}

// NumberValue wraps a numeric candidate.
func NumberValue(n float64) PropertyValue {
	return PropertyValue{Kind: ValueNumber, Num: n}
}

// BoolValue wraps a boolean candidate.
func BoolValue(b bool) PropertyValue {
	return PropertyValue{Kind: ValueBool, Bool: b}
}

// ListValue wraps a string-list candidate.
func ListValue(items ...string) PropertyValue {
	return PropertyValue{Kind: ValueStringList, List: items}
}

// PeopleValue wraps a person-list candidate.
func PeopleValue(people ...Person) PropertyValue {
	return PropertyValue{Kind: ValuePeople, People: people}
}

// IsEmpty reports whether the value should serialize as the column's null
// shape: an empty string, or an unrecognized kind.
func (v PropertyValue) IsEmpty() bool {
	switch v.Kind {
	case ValueString:
		return v.Str == ""
	case ValueNumber, ValueBool:
		return false
	case ValueStringList:
		return len(v.List) == 0
	case ValuePeople:
		return len(v.People) == 0
	default:
		return true
	}
}

// Text renders the value for preview display and title synthesis.
func (v PropertyValue) Text() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueStringList:
		return strings.Join(v.List, ", ")
	case ValuePeople:
		ids := make([]string, len(v.People))
		for i, p := range v.People {
			ids[i] = p.ID
		}
		return strings.Join(ids, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// PropertyEntry is one candidate assignment in a PropertySet.
type PropertyEntry struct {
	Name  string        `json:"name"`
	Value PropertyValue `json:"value"`
}

// PropertySet is an ordered set of candidate column assignments. Any subset
// of schema columns may be populated and unknown columns may be proposed;
// the serializer filters against the live schema.
type PropertySet []PropertyEntry

// Set appends the assignment, replacing an existing entry with the same name
// in place.
func (ps PropertySet) Set(name string, v PropertyValue) PropertySet {
	for i, e := range ps {
		if e.Name == name {
			ps[i].Value = v
			return ps
		}
	}
	return append(ps, PropertyEntry{Name: name, Value: v})
}

// Get returns the value assigned to name.
func (ps PropertySet) Get(name string) (PropertyValue, bool) {
	for _, e := range ps {
		if e.Name == name {
			return e.Value, true
		}
	}
	return PropertyValue{}, false
}

// Has reports whether name has an assignment.
func (ps PropertySet) Has(name string) bool {
	_, ok := ps.Get(name)
	return ok
}
