// Package router classifies inbound chat text into one of the four routed
// outcomes. Classification is a pure function over the fixed pattern set:
// deliberately heuristic string matching, not language understanding.
// See docs/ARCHITECTURE.md § Message Router.
package router

import (
	"regexp"
	"strings"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

// Route names the classification of a message.
type Route string

const (
	// RouteNearby asks for nearby recommendations around the sender's
	// cached location.
	RouteNearby Route = "nearby"

	// RouteSchema asks for a destination's column listing.
	RouteSchema Route = "schema"

	// RouteFreeTextSave records free text into a destination named inside
	// the message.
	RouteFreeTextSave Route = "free_text_save"

	// RouteDefaultSave records the message into a configured destination
	// kind selected by prefix.
	RouteDefaultSave Route = "default_save"
)

// Decision is the outcome of classifying one message. Which fields are
// meaningful depends on Route:
//
//	RouteNearby:       NeedsLocation
//	RouteSchema:       Name (empty means a usage error to surface)
//	RouteFreeTextSave: Name, Content
//	RouteDefaultSave:  Kind, Content
type Decision struct {
	Route         Route
	NeedsLocation bool
	Name          string
	Content       string
	Kind          types.DestinationKind
}

var (
	// nearbyPattern lists the proximity and food keywords.
	nearbyPattern = regexp.MustCompile(`近く|周辺|ランチ|ご飯|ラーメン|カレー`)

	// schemaPrefix is the literal schema-inspection command form.
	schemaPrefix = regexp.MustCompile(`(?i)^schema:\s*`)

	// savePattern matches the trailing natural-language save command:
	// 「…の notion に記録して」 and its spelling variants, optionally
	// followed by closing punctuation.
	savePattern = regexp.MustCompile(`(?i)^(.+?)\s*[のノ]\s*(?:notion|ノーション)\s*に\s*(?:記録|登録|保存)(?:して|してね|してください)?[。.!！]?$`)

	// trailingToken extracts the destination name: the last token before
	// the save pattern, delimited by whitespace or punctuation.
	trailingToken = regexp.MustCompile(`([^\s。．、,]+)$`)

	// kindPrefixes strips the default-save routing prefixes.
	tasksPrefix     = regexp.MustCompile(`(?i)^(todo:|タスク:)`)
	knowledgePrefix = regexp.MustCompile(`(?i)^(memo:|メモ:)`)
)

// Classify routes a text message. The order is fixed and exclusive: nearby
// keywords, then the schema command, then the trailing save pattern, then
// the default prefix routing as catch-all. The same (text, hasLocation)
// always yields the same decision.
func Classify(text string, hasLocation bool) Decision {
	text = strings.TrimSpace(text)

	if nearbyPattern.MatchString(text) {
		return Decision{Route: RouteNearby, NeedsLocation: !hasLocation}
	}

	if loc := schemaPrefix.FindString(text); loc != "" {
		name := strings.TrimSpace(strings.TrimPrefix(text, loc))
		return Decision{Route: RouteSchema, Name: name}
	}

	if m := savePattern.FindStringSubmatch(text); m != nil {
		before := strings.TrimSpace(m[1])

		// The destination name is the trailing token before the save
		// pattern; the content is what remains once both the pattern and
		// that token are gone. A one-token message reuses the token as
		// content so neither field ends up empty.
		name := before
		content := before
		if tok := trailingToken.FindString(before); tok != "" {
			name = tok
			content = strings.TrimSpace(strings.TrimSuffix(before, tok))
			if content == "" {
				content = before
			}
		}

		return Decision{Route: RouteFreeTextSave, Name: name, Content: content}
	}

	if m := tasksPrefix.FindString(text); m != "" {
		return Decision{
			Route:   RouteDefaultSave,
			Kind:    types.KindTasks,
			Content: strings.TrimSpace(strings.TrimPrefix(text, m)),
		}
	}
	if m := knowledgePrefix.FindString(text); m != "" {
		return Decision{
			Route:   RouteDefaultSave,
			Kind:    types.KindKnowledge,
			Content: strings.TrimSpace(strings.TrimPrefix(text, m)),
		}
	}

	return Decision{Route: RouteDefaultSave, Kind: types.KindTasks, Content: text}
}
