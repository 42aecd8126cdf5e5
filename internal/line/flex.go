package line

import (
	"fmt"

	"github.com/okonomi-dev/kiroku/internal/nearby"
	"github.com/okonomi-dev/kiroku/pkg/types"
)

// Payload is an arbitrary flex container node. The flex format is a deeply
// nested, heterogeneous layout tree; building it as maps mirrors the wire
// JSON directly.
type Payload map[string]any

// maxPreviewLines caps how many property lines a preview bubble shows.
const maxPreviewLines = 10

// maxCarouselItems caps the recommendation carousel.
const maxCarouselItems = 6

// PreviewBubble renders a staged save request as a bubble with a save
// postback button and a fix-it hint.
func PreviewBubble(req types.SaveRequest, previewToken string) Payload {
	body := []Payload{{
		"type":   "text",
		"text":   "DB: " + req.Target.Label(),
		"weight": "bold",
		"size":   "md",
	}}

	for i, entry := range req.Properties {
		if i >= maxPreviewLines {
			break
		}
		body = append(body, Payload{
			"type": "text",
			"text": entry.Name + ": " + entry.Value.Text(),
			"wrap": true,
		})
	}

	body = append(body,
		Payload{"type": "separator", "margin": "md"},
		Payload{
			"type": "text",
			"text": "OKなら保存を押してね。修正があれば続けて送ってください。",
			"wrap": true,
		},
	)

	return Payload{
		"type": "bubble",
		"body": Payload{"type": "box", "layout": "vertical", "contents": body},
		"footer": Payload{
			"type":    "box",
			"layout":  "horizontal",
			"spacing": "md",
			"contents": []Payload{
				{
					"type":  "button",
					"style": "primary",
					"action": Payload{
						"type":  "postback",
						"label": "保存",
						"data":  "save:" + previewToken,
					},
				},
				{
					"type":  "button",
					"style": "secondary",
					"action": Payload{
						"type":  "message",
						"label": "修正する",
						"text":  "修正: ここに変更点を書いて",
					},
				},
			},
		},
	}
}

// LunchCarousel renders recommendation candidates as a carousel.
func LunchCarousel(places []nearby.Place) Payload {
	if len(places) > maxCarouselItems {
		places = places[:maxCarouselItems]
	}

	bubbles := make([]Payload, 0, len(places))
	for _, p := range places {
		bubbles = append(bubbles, Payload{
			"type": "bubble",
			"hero": Payload{
				"type":        "image",
				"url":         p.Photo,
				"size":        "full",
				"aspectMode":  "cover",
				"aspectRatio": "16:9",
			},
			"body": Payload{
				"type":   "box",
				"layout": "vertical",
				"contents": []Payload{
					{"type": "text", "text": p.Name, "weight": "bold", "size": "lg"},
					{"type": "text", "text": fmt.Sprintf("★%v ・ %s", p.Rating, p.Distance), "size": "sm", "color": "#888888"},
					{"type": "text", "text": "営業時間：" + p.Hours, "size": "sm", "wrap": true},
				},
			},
			"footer": Payload{
				"type":   "box",
				"layout": "vertical",
				"contents": []Payload{{
					"type":  "button",
					"style": "link",
					"action": Payload{
						"type":  "uri",
						"label": "Googleマップで開く",
						"uri":   p.URL,
					},
				}},
			},
		})
	}

	return Payload{"type": "carousel", "contents": bubbles}
}
