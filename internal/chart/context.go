// Package chart holds the state of one rendered balance chart and drives the engine packages
// against a drawing surface.
package chart

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/internal/services/axis"
	"github.com/vadiminshakov/satchart/internal/services/canvas"
	"github.com/vadiminshakov/satchart/internal/services/carousel"
	"github.com/vadiminshakov/satchart/internal/services/labels"
	"github.com/vadiminshakov/satchart/internal/services/scale"
	"github.com/vadiminshakov/satchart/internal/services/series"
)

// PolygonID surface id of the filled balance area.
const PolygonID = "balance-area"

const (
	activeOpacity   = "1"
	inactiveOpacity = "0.4"
)

// Surface drawing surface a chart renders onto.
type Surface interface {
	axis.Surface
	carousel.AnimationSink
}

// Frame everything drawn by the last render.
type Frame struct {
	Currency   domain.Currency      `json:"currency"`
	Polygon    string               `json:"polygon"`
	TimeRange  domain.AxisRange     `json:"time_range"`
	ValueRange domain.AxisRange     `json:"value_range"`
	XTicks     []axis.Tick          `json:"x_ticks"`
	YTicks     []axis.Tick          `json:"y_ticks"`
	Headings   carousel.State       `json:"headings"`
	Points     []domain.CanvasPoint `json:"-"`
}

type options struct {
	divisions int
	location  *time.Location
	layout    carousel.Layout
	initial   domain.Currency
}

// Option configures a Context.
type Option func(*options)

// WithDivisions sets how many intervals each axis is split into.
func WithDivisions(n int) Option {
	return func(o *options) {
		o.divisions = n
	}
}

// WithLocation sets the time zone of time axis labels.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// WithLayout sets the heading slot offsets.
func WithLayout(l carousel.Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithInitialCurrency sets the currency shown first.
func WithInitialCurrency(c domain.Currency) Option {
	return func(o *options) {
		o.initial = c
	}
}

// Context state of one chart instance. Not safe for concurrent use.
type Context struct {
	surface   Surface
	mapper    *canvas.Mapper
	axes      *axis.Renderer
	carousel  *carousel.Carousel
	divisions int
	location  *time.Location

	points      []domain.BalancePoint
	timeRange   domain.AxisRange
	valueRanges map[domain.Currency]domain.AxisRange
	frame       *Frame
}

// New creates a chart on surface and places the currency headings.
func New(surface Surface, opts ...Option) (*Context, error) {
	o := options{
		divisions: scale.DefaultDivisions,
		location:  time.UTC,
		layout:    carousel.NarrowLayout,
		initial:   domain.CurrencySatoshis,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.divisions < 1 {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "divisions must be positive, got %d", o.divisions)
	}

	state, err := carousel.StateCentered(o.initial)
	if err != nil {
		return nil, err
	}
	car, err := carousel.New(state, o.layout, surface)
	if err != nil {
		return nil, err
	}

	c := &Context{
		surface:   surface,
		mapper:    canvas.NewMapper(),
		axes:      axis.NewRenderer(surface),
		carousel:  car,
		divisions: o.divisions,
		location:  o.location,
	}
	if err := c.placeHeadings(); err != nil {
		return nil, err
	}
	return c, nil
}

// Render replaces the chart data with deltas and redraws.
func (c *Context) Render(deltas []domain.BalanceDelta) (Frame, error) {
	points, err := series.Normalize(deltas)
	if err != nil {
		return Frame{}, err
	}
	timeRange, err := scale.TimeRange(points, c.divisions, c.location)
	if err != nil {
		return Frame{}, err
	}
	valueRanges, err := scale.ValueRanges(points, c.divisions)
	if err != nil {
		return Frame{}, err
	}

	c.points, c.timeRange, c.valueRanges = points, timeRange, valueRanges
	return c.draw()
}

// SelectCurrency swaps target into the center heading and redraws the chart in that unit.
// When the redraw fails the headings are swapped back and the previous currency is drawn again.
func (c *Context) SelectCurrency(target domain.Currency) ([]carousel.SlotMove, error) {
	previous := c.carousel.Centered()
	moves, err := c.carousel.Select(target)
	if err != nil {
		return nil, err
	}
	if len(moves) == 0 || c.points == nil {
		return moves, nil
	}
	if _, err := c.draw(); err != nil {
		if _, restoreErr := c.carousel.Select(previous); restoreErr != nil {
			return nil, errors.Wrapf(err, "restore %s heading: %v", previous, restoreErr)
		}
		if _, redrawErr := c.draw(); redrawErr != nil {
			return nil, errors.Wrapf(err, "redraw %s chart: %v", previous, redrawErr)
		}
		return nil, errors.Wrapf(err, "draw %s chart", target)
	}
	return moves, nil
}

// SetDivisions changes the tick count of both axes and redraws when data is loaded.
func (c *Context) SetDivisions(n int) (Frame, error) {
	if n < 1 {
		return Frame{}, errors.Wrapf(domain.ErrInvalidInput, "divisions must be positive, got %d", n)
	}
	c.divisions = n
	if c.points == nil {
		return Frame{}, nil
	}

	timeRange, err := scale.TimeRange(c.points, n, c.location)
	if err != nil {
		return Frame{}, err
	}
	c.timeRange = timeRange
	return c.draw()
}

// Currency returns the currency currently charted.
func (c *Context) Currency() domain.Currency {
	return c.carousel.Centered()
}

// Headings returns the heading arrangement.
func (c *Context) Headings() carousel.State {
	return c.carousel.State()
}

// Frame returns the last drawn frame, false before the first render.
func (c *Context) Frame() (Frame, bool) {
	if c.frame == nil {
		return Frame{}, false
	}
	return *c.frame, true
}

func (c *Context) draw() (Frame, error) {
	cur := c.carousel.Centered()
	valueRange := c.valueRanges[cur]

	points, err := c.mapper.ToCanvas(c.points, c.timeRange, valueRange, cur)
	if err != nil {
		return Frame{}, err
	}
	polygon := canvas.Polygon(points)
	if err := c.surface.SetAttribute(PolygonID, "points", polygon); err != nil {
		return Frame{}, errors.Wrap(err, "draw balance area")
	}

	unit, err := c.timeRange.TimeUnit()
	if err != nil {
		return Frame{}, err
	}
	timeTicks := scale.TimeTicks(c.timeRange, c.divisions, c.location)
	xPositions := make([]float64, len(timeTicks))
	for i, ts := range timeTicks {
		xPositions[i] = c.mapper.X(float64(ts), c.timeRange)
	}
	xTicks, err := axis.NewTicks(xPositions, labels.TimeLabels(timeTicks, unit, c.location))
	if err != nil {
		return Frame{}, err
	}

	valueTicks := scale.ValueTicks(valueRange, c.divisions)
	yPositions := make([]float64, len(valueTicks))
	for i, v := range valueTicks {
		// surface y grows downwards
		yPositions[i] = canvas.Height - c.mapper.Y(v, valueRange)
	}
	yTicks, err := axis.NewTicks(yPositions, labels.CurrencyLabels(valueTicks))
	if err != nil {
		return Frame{}, err
	}

	if err := c.axes.Render(axis.AxisX, xTicks); err != nil {
		return Frame{}, errors.Wrap(err, "draw time axis")
	}
	if err := c.axes.Render(axis.AxisY, yTicks); err != nil {
		return Frame{}, errors.Wrap(err, "draw value axis")
	}

	c.frame = &Frame{
		Currency:   cur,
		Polygon:    polygon,
		TimeRange:  c.timeRange,
		ValueRange: valueRange,
		XTicks:     xTicks,
		YTicks:     yTicks,
		Headings:   c.carousel.State(),
		Points:     points,
	}
	return *c.frame, nil
}

func (c *Context) placeHeadings() error {
	layout := c.carousel.Layout()
	for slot, cur := range c.carousel.State() {
		id := carousel.ElementID(cur)
		offset := strconv.FormatFloat(layout.Offset(carousel.Slot(slot)), 'f', -1, 64)
		if err := c.surface.SetAttribute(id, "transform", "translate("+offset+",0)"); err != nil {
			return errors.Wrapf(err, "place heading %s", cur)
		}
		opacity := inactiveOpacity
		if carousel.Slot(slot) == carousel.SlotCenter {
			opacity = activeOpacity
		}
		if err := c.surface.SetAttribute(id, "opacity", opacity); err != nil {
			return errors.Wrapf(err, "highlight heading %s", cur)
		}
	}
	return nil
}
