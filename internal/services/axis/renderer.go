// Package axis keeps the tick marks of a chart axis in sync with the drawing surface.
package axis

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/satchart/internal/domain"
)

// Surface subset of the drawing surface the renderer needs.
type Surface interface {
	// FindOrClone makes sure an element with id exists, cloning prototypeID when it does not.
	FindOrClone(id, prototypeID string) error
	SetAttribute(id, name, value string) error
	// SetText sets the label text of the element.
	SetText(id, text string) error
	Remove(id string) error
}

// Axis identifies a chart axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Tick one gridline with its label, positioned in canvas units along the axis.
type Tick struct {
	Position float64 `json:"position"`
	Label    string  `json:"label"`
}

// NewTicks pairs positions with labels.
func NewTicks(positions []float64, labels []string) ([]Tick, error) {
	if len(positions) != len(labels) {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "%d tick positions but %d labels", len(positions), len(labels))
	}
	ticks := make([]Tick, len(positions))
	for i := range positions {
		ticks[i] = Tick{Position: positions[i], Label: labels[i]}
	}
	return ticks, nil
}

// DashlineID returns the surface id of the i-th tick of an axis. Index 0 is the prototype
// every other tick is cloned from.
func DashlineID(a Axis, i int) string {
	return fmt.Sprintf("%s-dashline%d", a, i)
}

// Renderer reconciles tick elements on a surface. It remembers how many ticks it drew per axis
// so that ticks left over from a render with more divisions are removed.
type Renderer struct {
	surface  Surface
	rendered map[Axis]int
}

// NewRenderer creates a renderer drawing onto s.
func NewRenderer(s Surface) *Renderer {
	return &Renderer{surface: s, rendered: make(map[Axis]int)}
}

// Render positions one element per tick, reusing elements by id and cloning the prototype for
// missing ones.
func (r *Renderer) Render(a Axis, ticks []Tick) error {
	if len(ticks) == 0 {
		return errors.Wrapf(domain.ErrInvalidInput, "axis %s needs at least one tick", a)
	}

	prototype := DashlineID(a, 0)
	for i, t := range ticks {
		id := DashlineID(a, i)
		if err := r.surface.FindOrClone(id, prototype); err != nil {
			return errors.Wrapf(err, "prepare %s", id)
		}
		if err := r.surface.SetAttribute(id, "transform", translate(a, t.Position)); err != nil {
			return errors.Wrapf(err, "position %s", id)
		}
		if err := r.surface.SetText(id, t.Label); err != nil {
			return errors.Wrapf(err, "label %s", id)
		}
	}

	for i := len(ticks); i < r.rendered[a]; i++ {
		if err := r.surface.Remove(DashlineID(a, i)); err != nil {
			return errors.Wrapf(err, "remove %s", DashlineID(a, i))
		}
	}
	r.rendered[a] = len(ticks)

	return nil
}

// Rendered returns how many ticks the last render of a drew.
func (r *Renderer) Rendered(a Axis) int {
	return r.rendered[a]
}

func translate(a Axis, pos float64) string {
	p := strconv.FormatFloat(math.Round(pos*100)/100, 'f', -1, 64)
	if a == AxisX {
		return "translate(" + p + ",0)"
	}
	return "translate(0," + p + ")"
}
