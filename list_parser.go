package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The plain-text list format:
//
//	title "Weekly Groceries"
//	footer "Food Ops"
//	option width_px 384
//	area "Produce" {
//	  [ ] 2 lb "onions" ("yellow")
//	  [x] 3 "avocados"
//	}
var (
	listLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Check", Pattern: `\[[ xX]\]`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Number", Pattern: `\d+(?:[./]\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
		{Name: "Punct", Pattern: `[{}()]`},
	})

	listParser = participle.MustBuild[listFile](
		participle.Lexer(listLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
	)
)

type listFile struct {
	Entries []*listEntry `parser:"@@*"`
}

type listEntry struct {
	Title  *string     `parser:"  'title' @String"`
	Footer *string     `parser:"| 'footer' @String"`
	Option *listOption `parser:"| @@"`
	Area   *listArea   `parser:"| @@"`
}

type listOption struct {
	Key   string `parser:"'option' @Ident"`
	Value string `parser:"@( Number | Ident )"`
}

type listArea struct {
	Name  string      `parser:"'area' @String '{'"`
	Items []*listItem `parser:"@@* '}'"`
}

type listItem struct {
	Check string  `parser:"@Check"`
	Qty   string  `parser:"@Number?"`
	Unit  string  `parser:"@Ident?"`
	Name  string  `parser:"@String"`
	Note  *string `parser:"( '(' @String ')' )?"`
}

// ParseList reads the plain-text list format into a Document with default
// layout options unless overridden by option lines.
func ParseList(filename string, r io.Reader) (*Document, error) {
	file, err := listParser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse list: %w", err)
	}

	doc := &Document{Title: DefaultTitle, Options: DefaultLayoutOptions()}
	for _, entry := range file.Entries {
		switch {
		case entry.Title != nil:
			doc.Title = *entry.Title
		case entry.Footer != nil:
			doc.Footer = *entry.Footer
		case entry.Option != nil:
			if err := applyListOption(&doc.Options, entry.Option); err != nil {
				return nil, err
			}
		case entry.Area != nil:
			doc.Areas = append(doc.Areas, entry.Area.area())
		}
	}
	return doc, nil
}

func ParseListString(filename, src string) (*Document, error) {
	return ParseList(filename, strings.NewReader(src))
}

func (a *listArea) area() Area {
	area := Area{Name: a.Name, Items: make([]Item, 0, len(a.Items))}
	for _, it := range a.Items {
		item := Item{
			Qty:     it.Qty,
			Unit:    it.Unit,
			Name:    it.Name,
			Checked: strings.ContainsAny(it.Check, "xX"),
		}
		if it.Note != nil {
			item.Note = *it.Note
		}
		area.Items = append(area.Items, item)
	}
	return area
}

func applyListOption(opts *LayoutOptions, opt *listOption) error {
	if opt.Key == "include_checked" {
		v, err := strconv.ParseBool(opt.Value)
		if err != nil {
			return fmt.Errorf("option include_checked: %v", err)
		}
		opts.IncludeChecked = v
		return nil
	}

	n, err := strconv.Atoi(opt.Value)
	if err != nil {
		return fmt.Errorf("option %s: %v", opt.Key, err)
	}
	switch opt.Key {
	case "width_px":
		opts.WidthPx = n
	case "margin_px":
		opts.MarginPx = n
	case "line_gap_px":
		opts.LineGapPx = n
	default:
		return fmt.Errorf("unknown option %q", opt.Key)
	}
	return nil
}
