package svg

import (
	"strconv"

	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/internal/services/canvas"
)

// Element ids of the chart template.
const (
	RootID     = "chart"
	PolygonID  = "balance-area"
	HeadingsID = "headings"
)

const (
	marginLeft   = 90
	marginTop    = 60
	marginRight  = 30
	marginBottom = 50
)

func el(tag string, attrs ...string) *element {
	e := &element{tag: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.attrs = append(e.attrs, attr{name: attrs[i], value: attrs[i+1]})
	}
	return e
}

// NewChartDocument builds the fixed chart layout: three currency headings, the area polygon
// drawn with y growing upwards, and one prototype tick per axis. localTitle labels the local
// currency heading.
func NewChartDocument(localTitle string) *Document {
	w, h := strconv.Itoa(canvas.Width), strconv.Itoa(canvas.Height)
	if localTitle == "" {
		localTitle = domain.CurrencyLocal.Title()
	}

	headings := el("g", "id", HeadingsID, "transform", "translate(300,-30)", "font-size", "14")
	for _, c := range domain.Currencies {
		title := c.Title()
		if c == domain.CurrencyLocal {
			title = localTitle
		}
		heading := el("text", "id", "heading-"+string(c), "transform", "translate(0,0)", "opacity", "0.4")
		heading.text = title
		headings.append(heading)
	}

	xTick := el("g", "id", "x-dashline0", "transform", "translate(0,0)").append(
		el("line", "x1", "0", "y1", "0", "x2", "0", "y2", "-"+h, "stroke", "#cccccc", "stroke-dasharray", "4 4"),
		el("text", "y", "20", "text-anchor", "middle", "font-size", "11"),
	)
	yTick := el("g", "id", "y-dashline0", "transform", "translate(0,0)").append(
		el("line", "x1", "0", "y1", "0", "x2", w, "y2", "0", "stroke", "#cccccc", "stroke-dasharray", "4 4"),
		el("text", "x", "-8", "text-anchor", "end", "dominant-baseline", "middle", "font-size", "11"),
	)

	graph := el("g", "id", "graph-area").append(
		el("g", "id", "plot", "transform", "translate(0,"+h+") scale(1,-1)").append(
			el("polygon", "id", PolygonID, "points", "", "fill", "#95B3D7", "stroke", "#4F81BD"),
		),
		el("g", "id", "x-axis", "transform", "translate(0,"+h+")").append(xTick),
		el("g", "id", "y-axis").append(yTick),
	)

	viewW := canvas.Width + marginLeft + marginRight
	viewH := canvas.Height + marginTop + marginBottom
	root := el("svg",
		"xmlns", "http://www.w3.org/2000/svg",
		"id", RootID,
		"width", strconv.Itoa(viewW),
		"height", strconv.Itoa(viewH),
		"viewBox", "-"+strconv.Itoa(marginLeft)+" -"+strconv.Itoa(marginTop)+" "+strconv.Itoa(viewW)+" "+strconv.Itoa(viewH),
		"font-family", "sans-serif",
	).append(headings, graph)

	return newDocument(root)
}
