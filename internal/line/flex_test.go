package line

import (
	"fmt"
	"testing"

	"github.com/okonomi-dev/kiroku/internal/nearby"
	"github.com/okonomi-dev/kiroku/pkg/types"
)

func TestPreviewBubble(t *testing.T) {
	req := types.SaveRequest{
		Target: types.NameRef("アニメ一覧"),
		Properties: types.PropertySet{}.
			Set("名前", types.StringValue("鬼滅の刃")).
			Set("評価", types.NumberValue(9)),
	}

	bubble := PreviewBubble(req, "tok-1")

	body := bubble["body"].(Payload)["contents"].([]Payload)
	if got := body[0]["text"]; got != "DB: アニメ一覧 (by name)" {
		t.Errorf("header = %v", got)
	}
	if got := body[1]["text"]; got != "名前: 鬼滅の刃" {
		t.Errorf("line 1 = %v", got)
	}
	if got := body[2]["text"]; got != "評価: 9" {
		t.Errorf("line 2 = %v", got)
	}

	footer := bubble["footer"].(Payload)["contents"].([]Payload)
	action := footer[0]["action"].(Payload)
	if action["data"] != "save:tok-1" {
		t.Errorf("save action data = %v", action["data"])
	}
}

func TestPreviewBubbleCapsLines(t *testing.T) {
	var props types.PropertySet
	for i := 0; i < 15; i++ {
		props = props.Set(fmt.Sprintf("col%d", i), types.StringValue("v"))
	}
	req := types.SaveRequest{Target: types.KindRef(types.KindTasks), Properties: props}

	bubble := PreviewBubble(req, "tok")
	body := bubble["body"].(Payload)["contents"].([]Payload)

	// Header + capped lines + separator + hint.
	if len(body) != 1+maxPreviewLines+2 {
		t.Errorf("body has %d nodes, want %d", len(body), 1+maxPreviewLines+2)
	}
}

func TestLunchCarouselCapsItems(t *testing.T) {
	places := make([]nearby.Place, 9)
	for i := range places {
		places[i] = nearby.Place{Name: fmt.Sprintf("店%d", i), URL: "https://example.com"}
	}

	carousel := LunchCarousel(places)
	bubbles := carousel["contents"].([]Payload)
	if len(bubbles) != maxCarouselItems {
		t.Errorf("carousel has %d bubbles, want %d", len(bubbles), maxCarouselItems)
	}
	if carousel["type"] != "carousel" {
		t.Errorf("type = %v", carousel["type"])
	}
}
