package router

import (
	"testing"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

func TestClassifyNearby(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		hasLocation   bool
		needsLocation bool
	}{
		{"keyword with cached location", "近くのランチ教えて", true, false},
		{"keyword without location", "ラーメン食べたい", false, true},
		{"stale location treated as missing", "この周辺でご飯", false, true},
		{"curry keyword", "カレーの気分", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.text, tt.hasLocation)
			if d.Route != RouteNearby {
				t.Fatalf("route = %q, want nearby", d.Route)
			}
			if d.NeedsLocation != tt.needsLocation {
				t.Errorf("NeedsLocation = %v, want %v", d.NeedsLocation, tt.needsLocation)
			}
		})
	}
}

func TestClassifySchema(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
	}{
		{"basic", "schema: アニメ一覧", "アニメ一覧"},
		{"case insensitive prefix", "SCHEMA:Tasks", "Tasks"},
		{"empty name is usage error", "schema:", ""},
		{"whitespace only name", "schema:   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.text, false)
			if d.Route != RouteSchema {
				t.Fatalf("route = %q, want schema", d.Route)
			}
			if d.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", d.Name, tt.wantName)
			}
		})
	}
}

func TestClassifyFreeTextSave(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantName    string
		wantContent string
	}{
		{
			name:        "rating review",
			text:        "鬼滅の刃 面白かった 9点 アニメ一覧のnotionに記録して",
			wantName:    "アニメ一覧",
			wantContent: "鬼滅の刃 面白かった 9点",
		},
		{
			name:        "katakana particle and spelling",
			text:        "ブリーチ見た アニメ一覧ノノーションに登録してね",
			wantName:    "アニメ一覧",
			wantContent: "ブリーチ見た",
		},
		{
			name:        "trailing punctuation",
			text:        "名著だった 読書記録のnotionに保存して。",
			wantName:    "読書記録",
			wantContent: "名著だった",
		},
		{
			name:        "single token reuses name as content",
			text:        "アニメ一覧のnotionに記録して",
			wantName:    "アニメ一覧",
			wantContent: "アニメ一覧",
		},
		{
			name:        "polite form",
			text:        "打ち合わせメモです 議事録のnotionに保存してください",
			wantName:    "議事録",
			wantContent: "打ち合わせメモです",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.text, false)
			if d.Route != RouteFreeTextSave {
				t.Fatalf("route = %q, want free_text_save", d.Route)
			}
			if d.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", d.Name, tt.wantName)
			}
			if d.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", d.Content, tt.wantContent)
			}
		})
	}
}

func TestClassifyDefaultSave(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantKind    types.DestinationKind
		wantContent string
	}{
		{"todo prefix", "todo: 牛乳を買う", types.KindTasks, "牛乳を買う"},
		{"todo prefix uppercase", "TODO:レポート提出", types.KindTasks, "レポート提出"},
		{"japanese tasks prefix", "タスク: 請求書を送る", types.KindTasks, "請求書を送る"},
		{"memo prefix", "memo: Goのスライスは参照", types.KindKnowledge, "Goのスライスは参照"},
		{"japanese memo prefix", "メモ:会議は毎週月曜", types.KindKnowledge, "会議は毎週月曜"},
		{"no prefix defaults to tasks", "牛乳を買う", types.KindTasks, "牛乳を買う"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.text, false)
			if d.Route != RouteDefaultSave {
				t.Fatalf("route = %q, want default_save", d.Route)
			}
			if d.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", d.Kind, tt.wantKind)
			}
			if d.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", d.Content, tt.wantContent)
			}
		})
	}
}

func TestClassifyOrderIsExclusive(t *testing.T) {
	// A message matching several patterns takes the earliest-checked one:
	// the nearby keyword wins over the schema prefix and save pattern.
	d := Classify("schema: 近くのランチ一覧のnotionに記録して", true)
	if d.Route != RouteNearby {
		t.Errorf("route = %q, want nearby (earliest classification wins)", d.Route)
	}

	// The schema prefix wins over the trailing save pattern.
	d = Classify("schema: 読書のnotionに記録して", false)
	if d.Route != RouteSchema {
		t.Errorf("route = %q, want schema", d.Route)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		d := Classify("todo: 牛乳を買う", false)
		if d.Route != RouteDefaultSave || d.Kind != types.KindTasks || d.Content != "牛乳を買う" {
			t.Fatalf("iteration %d: decision changed: %+v", i, d)
		}
	}
}
