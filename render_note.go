package main

const (
	titleFontSize  = 28
	headerFontSize = 22
	itemFontSize   = 20
	footerFontSize = 16

	// qtyColumnWidth is the right-aligned "qty unit" column.
	qtyColumnWidth = 110
	checkboxSize   = 20
	checkboxGap    = 8

	timestampLayout = "2006-01-02 15:04"
)

type noteFonts struct {
	title  *Font
	header *Font
	item   *Font
	footer *Font
}

// NoteRenderer lays out grocery notes and task lists on a monochrome canvas.
type NoteRenderer struct {
	fonts *FontCache
}

func NewNoteRenderer(fonts *FontCache) *NoteRenderer {
	return &NoteRenderer{fonts: fonts}
}

func (r *NoteRenderer) noteFonts() noteFonts {
	return noteFonts{
		title:  r.fonts.Get(true, titleFontSize),
		header: r.fonts.Get(true, headerFontSize),
		item:   r.fonts.Get(false, itemFontSize),
		footer: r.fonts.Get(false, footerFontSize),
	}
}

// Render lays doc out twice: once on a scratch context to find the height,
// then on a surface of that height to paint. The canvas is always
// doc.Options.WidthPx wide.
func (r *NoteRenderer) Render(doc *Document) *Monochrome {
	fonts := r.noteFonts()
	width := doc.Options.WidthPx

	height := layoutNote(doc, fonts, newMeasureSink(width))

	paint := newPaintSink(width, height)
	reached := layoutNote(doc, fonts, paint)
	if reached > height {
		reached = height
	}

	logDebugModule("render", "note %q: %dx%d", doc.Title, width, reached)
	return paint.Image(reached)
}

// layoutNote is the single layout routine for both passes. It returns the
// canvas height including the bottom margin.
func layoutNote(doc *Document, fonts noteFonts, sink layoutSink) int {
	opts := doc.Options
	m := sink.Metrics()
	margin := opts.MarginPx
	gap := opts.LineGapPx
	usable := float64(opts.UsableWidth())

	y := margin
	titleLines := Wrap(m, doc.Title, fonts.title, usable)
	for i, line := range titleLines {
		sink.Text(line, fonts.title, float64(margin), float64(y), false)
		y += fonts.title.LineHeight()
		if i < len(titleLines)-1 {
			y += gap
		}
	}
	y += gap * 2

	for _, area := range doc.Areas {
		items := area.VisibleItems(opts.IncludeChecked)
		if len(items) == 0 {
			continue
		}

		y = layoutAreaHeader(sink, area.Name, fonts.header, y, opts)
		for _, item := range items {
			y = layoutItem(sink, item, fonts.item, y, opts)
		}
		y += gap
	}

	if doc.HasFooter() {
		y = layoutFooter(sink, doc, fonts.footer, y, opts)
	}

	return y + margin
}

// layoutAreaHeader paints the inverted bar with the area name in white.
func layoutAreaHeader(sink layoutSink, name string, f *Font, y int, opts LayoutOptions) int {
	margin := float64(opts.MarginPx)
	usable := float64(opts.UsableWidth())
	headerHeight := f.LineHeight() + 4

	sink.FillRect(margin, float64(y), usable, float64(headerHeight))
	name = Ellipsize(sink.Metrics(), name, f, usable-8)
	sink.Text(name, f, margin+4, float64(y+2), true)

	return y + headerHeight + opts.LineGapPx
}

func itemColumns(opts LayoutOptions) (textX, textWidth float64) {
	offset := qtyColumnWidth + checkboxSize + checkboxGap
	return float64(opts.MarginPx + offset), float64(opts.UsableWidth() - offset)
}

func itemRowHeight(f *Font, lines, gap int) int {
	lh := f.LineHeight()
	return max(lh, lines*(lh+gap)-gap)
}

func layoutItem(sink layoutSink, item Item, f *Font, y int, opts LayoutOptions) int {
	m := sink.Metrics()
	margin := float64(opts.MarginPx)
	gap := opts.LineGapPx
	textX, textWidth := itemColumns(opts)

	if qty := Ellipsize(m, item.QtyUnit(), f, qtyColumnWidth); qty != "" {
		qtyWidth := m.Measure(qty, f)
		sink.Text(qty, f, margin+qtyColumnWidth-qtyWidth, float64(y), false)
	}

	drawCheckbox(sink, margin+qtyColumnWidth+2, float64(y), checkboxSize, item.Checked, f)

	lines := Wrap(m, item.Label(), f, textWidth)
	lineY := y
	for _, line := range lines {
		sink.Text(line, f, textX, float64(lineY), false)
		lineY += f.LineHeight() + gap
	}

	return y + itemRowHeight(f, len(lines), gap) + gap
}

// layoutFooter appends a rule, the wrapped footer text and the print time.
func layoutFooter(sink layoutSink, doc *Document, f *Font, y int, opts LayoutOptions) int {
	m := sink.Metrics()
	margin := float64(opts.MarginPx)
	usable := float64(opts.UsableWidth())
	gap := opts.LineGapPx

	y += gap
	sink.FillRect(margin, float64(y), usable, 1)
	y += 1 + gap

	if doc.Footer != "" {
		for _, line := range Wrap(m, doc.Footer, f, usable) {
			sink.Text(line, f, margin, float64(y), false)
			y += f.LineHeight() + gap
		}
	}
	if !doc.PrintedAt.IsZero() {
		stamp := Ellipsize(m, doc.PrintedAt.Format(timestampLayout), f, usable)
		sink.Text(stamp, f, margin, float64(y), false)
		y += f.LineHeight() + gap
	}
	return y
}
