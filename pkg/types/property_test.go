package types

import "testing"

func TestPropertyValueIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    PropertyValue
		want bool
	}{
		{"empty string", StringValue(""), true},
		{"string", StringValue("x"), false},
		{"zero number", NumberValue(0), false},
		{"bool false", BoolValue(false), false},
		{"empty list", ListValue(), true},
		{"list", ListValue("a"), false},
		{"empty people", PeopleValue(), true},
		{"people", PeopleValue(Person{ID: "u1"}), false},
		{"zero value", PropertyValue{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPropertyValueText(t *testing.T) {
	tests := []struct {
		name string
		v    PropertyValue
		want string
	}{
		{"string", StringValue("牛乳を買う"), "牛乳を買う"},
		{"integer number", NumberValue(9), "9"},
		{"decimal number", NumberValue(4.5), "4.5"},
		{"bool", BoolValue(true), "true"},
		{"list", ListValue("a", "b"), "a, b"},
		{"people", PeopleValue(Person{ID: "u1"}, Person{ID: "u2"}), "u1, u2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPropertySetOrderAndReplace(t *testing.T) {
	var ps PropertySet
	ps = ps.Set("名前", StringValue("鬼滅の刃"))
	ps = ps.Set("評価", NumberValue(9))
	ps = ps.Set("名前", StringValue("上書き"))

	if len(ps) != 2 {
		t.Fatalf("len = %d, want 2 (replace in place)", len(ps))
	}
	if ps[0].Name != "名前" || ps[0].Value.Str != "上書き" {
		t.Errorf("first entry = %+v, want replaced 名前", ps[0])
	}
	if ps[1].Name != "評価" {
		t.Errorf("second entry = %q, want 評価", ps[1].Name)
	}

	v, ok := ps.Get("評価")
	if !ok || v.Num != 9 {
		t.Errorf("Get(評価) = (%+v, %v), want 9", v, ok)
	}
	if ps.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
}
