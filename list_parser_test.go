package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

const sampleList = `
# weekly run
title "Weekly Groceries"
footer "Food Ops - List #3"
option width_px 384
option include_checked true

area "Produce" {
  [ ] 2 lb "onions" ("yellow")
  [ ] 1 bunch "cilantro"
  [x] 3 "avocados"
}

area "Dairy" {
  [X] 1.5 fl.oz "cream" ("heavy \"double\"")
  [ ] "milk"
}
`

func TestParseList(t *testing.T) {
	doc, err := ParseListString("sample.list", sampleList)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := &Document{
		Title:  "Weekly Groceries",
		Footer: "Food Ops - List #3",
		Options: LayoutOptions{
			WidthPx:        384,
			MarginPx:       DefaultMarginPx,
			LineGapPx:      DefaultLineGapPx,
			IncludeChecked: true,
		},
		Areas: []Area{
			{Name: "Produce", Items: []Item{
				{Qty: "2", Unit: "lb", Name: "onions", Note: "yellow"},
				{Qty: "1", Unit: "bunch", Name: "cilantro"},
				{Qty: "3", Name: "avocados", Checked: true},
			}},
			{Name: "Dairy", Items: []Item{
				{Qty: "1.5", Unit: "fl.oz", Name: "cream", Note: `heavy "double"`, Checked: true},
				{Name: "milk"},
			}},
		},
	}

	if !reflect.DeepEqual(doc, want) {
		t.Errorf("parsed document mismatch\ngot:  %s\nwant: %s", spew.Sdump(doc), spew.Sdump(want))
	}
}

func TestParseListDefaults(t *testing.T) {
	doc, err := ParseListString("min.list", `area "Bakery" { [ ] "bread" }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Title != DefaultTitle {
		t.Errorf("title = %q, want %q", doc.Title, DefaultTitle)
	}
	if doc.Options != DefaultLayoutOptions() {
		t.Errorf("options = %+v", doc.Options)
	}
	if len(doc.Areas) != 1 || len(doc.Areas[0].Items) != 1 {
		t.Fatalf("areas = %s", spew.Sdump(doc.Areas))
	}
}

func TestParseListErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown option", `option colour 3`, "unknown option"},
		{"bad bool", `option include_checked maybe`, "include_checked"},
		{"missing brace", `area "Produce" { [ ] "onions"`, "parse"},
		{"item without name", `area "Produce" { [ ] 2 lb }`, "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListString("bad.list", tt.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
