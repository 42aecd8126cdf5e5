package types

import "strings"

// DestinationKind names a symbolic destination bound at configuration time.
type DestinationKind string

const (
	KindTasks     DestinationKind = "Tasks"
	KindKnowledge DestinationKind = "Knowledge"
)

// DestinationRef points at a destination either by symbolic kind or by
// free-text name. Exactly one of the two fields is set; the reference is
// immutable once constructed for a request.
type DestinationRef struct {
	Kind DestinationKind `json:"kind,omitempty"`
	Name string          `json:"name,omitempty"`
}

// KindRef builds a symbolic reference.
func KindRef(kind DestinationKind) DestinationRef {
	return DestinationRef{Kind: kind}
}

// NameRef builds a free-text reference.
func NameRef(name string) DestinationRef {
	return DestinationRef{Name: name}
}

// ByName reports whether the reference resolves through name search rather
// than configuration.
func (r DestinationRef) ByName() bool {
	return r.Name != ""
}

// Label renders the reference for preview display.
func (r DestinationRef) Label() string {
	if r.ByName() {
		return r.Name + " (by name)"
	}
	return string(r.Kind)
}

// DefaultTitleColumn is assumed when a schema carries no title-tagged
// column.
const DefaultTitleColumn = "Name"

// DestinationHandle is a resolved destination: canonical identifier, display
// title, the designated title column, and the live ordered schema. Handles
// are built fresh per resolution and never mutated.
type DestinationHandle struct {
	ID          string
	Title       string
	TitleColumn string
	Schema      Schema
}

// NormalizeID strips separator punctuation from a destination identifier,
// producing the canonical dash-free form the service accepts everywhere.
func NormalizeID(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

// SaveRequest is a normalized, complete write intent: where to write and
// what to write. It is the unit staged under a preview token. Staging does
// not validate against the live schema; validation happens at commit time so
// a schema changed between preview and confirm is honored.
type SaveRequest struct {
	Target     DestinationRef `json:"target"`
	Properties PropertySet    `json:"properties"`
}
