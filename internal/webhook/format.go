package webhook

import (
	"strings"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

// untitledDatabase labels a destination whose own title is empty.
const untitledDatabase = "(無題DB)"

// FormatSchemaList renders a destination handle as the column listing sent
// back for the schema command: header lines for the destination, then one
// bullet per column with its type and, for enumerated types, its options.
func FormatSchemaList(h *types.DestinationHandle) string {
	title := h.Title
	if title == "" {
		title = untitledDatabase
	}

	var b strings.Builder
	b.WriteString("DB: " + title + "\n")
	b.WriteString("ID: " + h.ID + "\n")
	b.WriteString("Title列: " + h.TitleColumn + "\n")
	b.WriteString("— 列一覧 —")
	for _, col := range h.Schema {
		b.WriteString("\n・" + col.Name + " : " + string(col.Def.Type))
		if len(col.Def.Options) > 0 {
			b.WriteString(" [" + strings.Join(col.Def.Options, ", ") + "]")
		}
	}
	return b.String()
}
