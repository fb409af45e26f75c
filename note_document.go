package main

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultTitle     = "Grocery List"
	DefaultWidthPx   = 576
	DefaultMarginPx  = 16
	DefaultLineGapPx = 6
)

type Item struct {
	Qty     string `json:"qty"`
	Unit    string `json:"unit"`
	Name    string `json:"name"`
	Note    string `json:"note,omitempty"`
	Checked bool   `json:"checked"`
}

// Label is "name (note)", or just the name when there is no note.
func (it Item) Label() string {
	if it.Note != "" {
		return it.Name + " (" + it.Note + ")"
	}
	return it.Name
}

func (it Item) QtyUnit() string {
	return strings.TrimSpace(it.Qty + " " + it.Unit)
}

type Area struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// VisibleItems keeps unchecked items, and checked ones too when
// includeChecked is set.
func (a Area) VisibleItems(includeChecked bool) []Item {
	if includeChecked {
		return a.Items
	}
	items := make([]Item, 0, len(a.Items))
	for _, it := range a.Items {
		if !it.Checked {
			items = append(items, it)
		}
	}
	return items
}

type LayoutOptions struct {
	WidthPx        int
	MarginPx       int
	LineGapPx      int
	IncludeChecked bool
}

func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		WidthPx:   DefaultWidthPx,
		MarginPx:  DefaultMarginPx,
		LineGapPx: DefaultLineGapPx,
	}
}

func (o LayoutOptions) UsableWidth() int {
	return o.WidthPx - 2*o.MarginPx
}

type Document struct {
	Title   string
	Areas   []Area
	Options LayoutOptions
	Footer  string
	// PrintedAt adds a timestamp line under the footer when set.
	PrintedAt time.Time
}

// HasFooter reports whether the trailing footer block is laid out.
func (d *Document) HasFooter() bool {
	return d.Footer != "" || !d.PrintedAt.IsZero()
}

// OptionsPayload is the wire form of LayoutOptions; nil fields take defaults.
type OptionsPayload struct {
	WidthPx        *int  `json:"width_px,omitempty"`
	MarginPx       *int  `json:"margin_px,omitempty"`
	LineGapPx      *int  `json:"line_gap_px,omitempty"`
	IncludeChecked *bool `json:"include_checked,omitempty"`
}

func (p *OptionsPayload) Resolve() LayoutOptions {
	opts := DefaultLayoutOptions()
	if p == nil {
		return opts
	}
	if p.WidthPx != nil {
		opts.WidthPx = *p.WidthPx
	}
	if p.MarginPx != nil {
		opts.MarginPx = *p.MarginPx
	}
	if p.LineGapPx != nil {
		opts.LineGapPx = *p.LineGapPx
	}
	if p.IncludeChecked != nil {
		opts.IncludeChecked = *p.IncludeChecked
	}
	return opts
}

// DocumentPayload is the JSON body of a grocery print request.
type DocumentPayload struct {
	Title     *string         `json:"title,omitempty"`
	Areas     []Area          `json:"areas"`
	Options   *OptionsPayload `json:"options,omitempty"`
	Footer    string          `json:"footer,omitempty"`
	// Timestamp asks for the print time under the footer.
	Timestamp bool            `json:"timestamp,omitempty"`
}

func (p *DocumentPayload) Document() *Document {
	title := DefaultTitle
	if p.Title != nil {
		title = *p.Title
	}
	return &Document{
		Title:   title,
		Areas:   p.Areas,
		Options: p.Options.Resolve(),
		Footer:  p.Footer,
	}
}

// Validate rejects options that leave no room for the item text column.
func (o LayoutOptions) Validate() error {
	if o.MarginPx < 0 || o.LineGapPx < 0 {
		return fmt.Errorf("margin_px and line_gap_px must not be negative")
	}
	minWidth := 2*o.MarginPx + qtyColumnWidth + checkboxSize + checkboxGap + itemFontSize
	if o.WidthPx < minWidth {
		return fmt.Errorf("width_px %d is below the minimum of %d", o.WidthPx, minWidth)
	}
	return nil
}
