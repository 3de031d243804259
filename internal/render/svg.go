package render

import (
	"fmt"
	"strings"

	"github.com/takagi171832/paper-readings/internal/grid"
	"github.com/takagi171832/paper-readings/internal/model"
)

// SVGRenderer draws the charts as hand-built SVG. Output contains no
// timestamps, random ids or host-dependent fonts, so rendering the same
// data twice produces byte-identical files.
type SVGRenderer struct{}

const (
	svgBackground = "#212946"
	svgText       = "#eeeeee"
	svgFont       = "DejaVu Sans,Verdana,sans-serif"
)

// heatmap geometry, in pixels
const (
	hmCell   = 11 // rounded square edge
	hmUnit   = 13 // square plus gutter
	hmRadius = 3
	hmLeft   = 34 // room for day-of-week labels
	hmTop    = 48 // room for title and month labels
)

var dayLabels = map[int]string{1: "Mon", 3: "Wed", 5: "Fri"}

// Heatmap renders the 53-week activity grid: rounded day squares colored
// by intensity bucket, Mon/Wed/Fri row labels, month labels above the
// first full column of each month, and a Less..More legend. Out-of-range
// cells are not drawn at all.
func (SVGRenderer) Heatmap(g model.Grid) []byte {
	width := hmLeft + model.GridWeeks*hmUnit + 8
	height := hmTop + model.GridDays*hmUnit + 30

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`+"\n", width, height, svgBackground)

	title := fmt.Sprintf("%d papers read in the last 12 months", g.Total)
	fmt.Fprintf(&b, `<text x="%d" y="18" font-family="%s" font-size="13" font-weight="bold" fill="%s">%s</text>`+"\n",
		hmLeft, svgFont, svgText, xmlEscape(title))

	// Month labels: one per (year, month) change among in-range columns,
	// skipping column 0 so a leading partial month never gets a label.
	type ym struct{ y, m int }
	var last *ym
	for col := 0; col < model.GridWeeks; col++ {
		wc := g.Columns[col]
		if !wc.AnyInRange {
			continue
		}
		cur := ym{wc.Start.Year(), int(wc.Start.Month())}
		if (last == nil || cur != *last) && col > 0 {
			x := hmLeft + col*hmUnit + hmUnit/2
			fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="%s" font-size="9" fill="%s">%s</text>`+"\n",
				x, hmTop-6, svgFont, svgText, wc.Start.Format("Jan"))
			last = &cur
		}
	}

	// Day-of-week row labels.
	for row := 0; row < model.GridDays; row++ {
		lab, ok := dayLabels[row]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="end" font-family="%s" font-size="9" fill="%s">%s</text>`+"\n",
			hmLeft-5, hmTop+row*hmUnit+hmCell-2, svgFont, svgText, lab)
	}

	// Day cells.
	for row := 0; row < model.GridDays; row++ {
		for col := 0; col < model.GridWeeks; col++ {
			cell := g.Cells[row][col]
			if !cell.InRange {
				continue
			}
			x := hmLeft + col*hmUnit
			y := hmTop + row*hmUnit
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="%d" fill="%s"/>`+"\n",
				x, y, hmCell, hmCell, hmRadius, grid.Color(cell.Count))
		}
	}

	// Legend, bottom right: Less [0..5] More.
	legendY := hmTop + model.GridDays*hmUnit + 8
	legendX := width - 8 - grid.Buckets*hmUnit - 34
	fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="end" font-family="%s" font-size="9" fill="%s">Less</text>`+"\n",
		legendX-5, legendY+hmCell-2, svgFont, svgText)
	for v := 0; v < grid.Buckets; v++ {
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="%d" fill="%s"/>`+"\n",
			legendX+v*hmUnit, legendY, hmCell, hmCell, hmRadius, grid.Palette[v])
	}
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="%s" font-size="9" fill="%s">More</text>`+"\n",
		legendX+grid.Buckets*hmUnit+5, legendY+hmCell-2, svgFont, svgText)

	b.WriteString("</svg>\n")
	return []byte(b.String())
}

// bar chart geometry, in pixels
const (
	bcWidth   = 800
	bcLabelW  = 200
	bcBarMaxW = 520
	bcBarH    = 18
	bcRowUnit = 28
	bcTop     = 44
)

// CategoryChart renders a horizontal bar chart of category counts. The
// input is expected in display order (count descending); each bar shows
// its value at the end.
func (SVGRenderer) CategoryChart(counts []model.CategoryCount) []byte {
	height := bcTop + len(counts)*bcRowUnit + 16

	maxV := 0
	for _, c := range counts {
		if c.Count > maxV {
			maxV = c.Count
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		bcWidth, height, bcWidth, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`+"\n", bcWidth, height, svgBackground)
	b.WriteString(`<defs><linearGradient id="barfill" x1="0" y1="0" x2="1" y2="0">` +
		`<stop offset="0" stop-color="#1c526b"/><stop offset="1" stop-color="#08f7fe"/>` +
		`</linearGradient></defs>` + "\n")

	fmt.Fprintf(&b, `<text x="%d" y="24" text-anchor="middle" font-family="%s" font-size="15" font-weight="bold" fill="%s">Papers by Category</text>`+"\n",
		bcWidth/2, svgFont, svgText)

	for i, c := range counts {
		y := bcTop + i*bcRowUnit
		w := 0
		if maxV > 0 {
			w = bcBarMaxW * c.Count / maxV
		}
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="end" font-family="%s" font-size="12" fill="%s">%s</text>`+"\n",
			bcLabelW-10, y+bcBarH-4, svgFont, svgText, xmlEscape(c.Category))
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="3" fill="url(#barfill)"/>`+"\n",
			bcLabelW, y, w, bcBarH)
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="%s" font-size="12" fill="%s">%d</text>`+"\n",
			bcLabelW+w+8, y+bcBarH-4, svgFont, svgText, c.Count)
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
