// Package compose builds candidate property sets from message content and a
// destination's live schema. Building is deterministic for a given
// (content, schema) pair and never fails: a slot without a matching column
// simply stays unpopulated. See docs/ARCHITECTURE.md § Property Builder.
package compose

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

// Slot candidate labels, checked in order against column names of the
// expected type. The lists mix Japanese and English so user-renamed columns
// keep matching.
var (
	noteCandidates     = []string{"感想", "レビュー", "コメント", "メモ", "Summary", "備考"}
	dateCandidates     = []string{"視聴日", "日付", "Date", "Watched At", "Watched"}
	altNameCandidates  = []string{"作品名", "タイトル", "作品", "Name"}
	ratingCandidates   = []string{"評価", "Rating", "スコア"}
	categoryCandidates = []string{"カテゴリ", "カテゴリー", "Category"}
)

// loggedCategory is the fixed select value marking records that came in
// through chat rather than being filed by hand.
const loggedCategory = "視聴"

// Fixed defaults for kind-routed saves, applied only when the column exists.
const (
	defaultTaskStatus   = "未着手"
	defaultTaskPriority = "中"
	defaultMemoCategory = "メモ"
)

// titleMaxRunes caps extracted titles.
const titleMaxRunes = 60

// untitledPlaceholder labels a record whose content yields no usable title.
const untitledPlaceholder = "(無題)"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	sentenceEnd   = regexp.MustCompile(`[。.!！?？\n]`)

	// ratingToken finds a numeric token, optionally carrying a point or
	// star suffix, anywhere in the content.
	ratingToken = regexp.MustCompile(`(\d+(\.\d+)?)[点⭐★]?`)
)

// Builder produces candidate property sets. The clock is injected so the
// date slot ("when recorded", never content-derived) is testable.
type Builder struct {
	now func() time.Time
	log *zap.Logger
}

// New creates a Builder using the wall clock.
func New(log *zap.Logger) *Builder {
	return &Builder{now: time.Now, log: log}
}

// ForFreeText maps free-form content onto the destination's schema: a title
// plus whichever of the note, date, alternate-name, rating, and category
// slots find a matching column.
func (b *Builder) ForFreeText(content string, handle *types.DestinationHandle) types.PropertySet {
	title := ExtractTitle(content)
	props := types.PropertySet{}.Set(handle.TitleColumn, types.StringValue(title))

	if name, ok := b.pickNamed(handle.Schema, noteCandidates, types.ColumnRichText); ok {
		props = props.Set(name, types.StringValue(content))
	}

	if name, ok := b.pickNamed(handle.Schema, dateCandidates, types.ColumnDate); ok {
		props = props.Set(name, types.StringValue(b.now().Format("2006-01-02")))
	}

	if name, ok := b.pickNamed(handle.Schema, altNameCandidates, types.ColumnRichText); ok && !props.Has(name) {
		props = props.Set(name, types.StringValue(title))
	}

	if name, ok := b.pickTyped(handle.Schema, ratingCandidates, types.ColumnNumber); ok {
		if rating, found := extractRating(content); found {
			props = props.Set(name, types.NumberValue(rating))
		}
	}

	if name, ok := b.pickTyped(handle.Schema, categoryCandidates, types.ColumnSelect); ok {
		props = props.Set(name, types.StringValue(loggedCategory))
	}

	return props
}

// ForKind maps content onto a configured destination kind: the title plus
// the kind's fixed defaults, each conditioned on its column existing.
func (b *Builder) ForKind(kind types.DestinationKind, content string, handle *types.DestinationHandle) types.PropertySet {
	props := types.PropertySet{}.Set(handle.TitleColumn, types.StringValue(ExtractTitle(content)))

	switch kind {
	case types.KindTasks:
		if handle.Schema.Has("Status") {
			props = props.Set("Status", types.StringValue(defaultTaskStatus))
		}
		if handle.Schema.Has("Priority") {
			props = props.Set("Priority", types.StringValue(defaultTaskPriority))
		}
		if handle.Schema.Has("Summary") {
			props = props.Set("Summary", types.StringValue(content))
		}
	case types.KindKnowledge:
		if handle.Schema.Has("Summary") {
			props = props.Set("Summary", types.StringValue(content))
		}
		if handle.Schema.Has("Category") {
			props = props.Set("Category", types.StringValue(defaultMemoCategory))
		}
	}

	return props
}

// ExtractTitle derives a record title from content: collapse whitespace,
// take the first sentence if it has at least two runes, cap at sixty runes.
func ExtractTitle(content string) string {
	s := strings.TrimSpace(whitespaceRun.ReplaceAllString(content, " "))

	cut := s
	if loc := sentenceEnd.FindStringIndex(s); loc != nil {
		cut = s[:loc[0]]
	}

	if len([]rune(cut)) >= 2 {
		return truncateRunes(cut, titleMaxRunes)
	}
	if t := truncateRunes(s, titleMaxRunes); t != "" {
		return t
	}
	return untitledPlaceholder
}

// pickNamed returns the first candidate label naming a column of the wanted
// type. Name-insensitive slots (note, date, alternate name) use no fallback.
func (b *Builder) pickNamed(schema types.Schema, candidates []string, want types.ColumnType) (string, bool) {
	for _, name := range candidates {
		if def, ok := schema.Get(name); ok && def.Type == want {
			return name, true
		}
	}
	return "", false
}

// pickTyped is pickNamed with a fallback to the first column of the wanted
// type in schema order. The fallback is logged so user schemas that only
// match by type stay diagnosable.
func (b *Builder) pickTyped(schema types.Schema, candidates []string, want types.ColumnType) (string, bool) {
	if name, ok := b.pickNamed(schema, candidates, want); ok {
		return name, true
	}
	if name, ok := schema.FirstOfType(want); ok {
		b.log.Debug("slot fell back to first column of type",
			zap.String("column", name), zap.String("type", string(want)))
		return name, true
	}
	return "", false
}

// extractRating pulls the first numeric token out of the content.
func extractRating(content string) (float64, bool) {
	m := ratingToken.FindStringSubmatch(content)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
