// Package carousel tracks which currency heading sits in which of the three heading slots
// and swaps a requested currency into the center slot.
package carousel

import (
	"github.com/pkg/errors"

	"github.com/vadiminshakov/satchart/internal/domain"
)

// Slot position of a heading.
type Slot int

const (
	SlotLeft Slot = iota
	SlotCenter
	SlotRight
)

// Layout horizontal offsets of the three slots.
type Layout struct {
	Left   float64
	Center float64
	Right  float64
}

var (
	// NarrowLayout slot offsets for the compact heading row.
	NarrowLayout = Layout{Left: 0, Center: 60, Right: 120}
	// WideLayout slot offsets when the local currency heading needs more room.
	WideLayout = Layout{Left: 0, Center: 60, Right: 160}
)

// Offset returns the offset of slot s.
func (l Layout) Offset(s Slot) float64 {
	switch s {
	case SlotLeft:
		return l.Left
	case SlotCenter:
		return l.Center
	default:
		return l.Right
	}
}

// State currency occupying each slot, indexed by Slot.
type State [3]domain.Currency

// DefaultState arrangement a new chart starts with.
var DefaultState = State{domain.CurrencyBTC, domain.CurrencySatoshis, domain.CurrencyLocal}

// StateCentered returns the default arrangement rotated so that c starts in the center.
func StateCentered(c domain.Currency) (State, error) {
	if !c.IsValid() {
		return State{}, errors.Wrapf(domain.ErrInvalidInput, "unknown currency %q", c)
	}
	return transitions[transitionKey{from: DefaultState, target: c}].to, nil
}

// SlotOf returns the slot currently holding c.
func (s State) SlotOf(c domain.Currency) (Slot, bool) {
	for i, cur := range s {
		if cur == c {
			return Slot(i), true
		}
	}
	return 0, false
}

// SlotMove animation of one heading between two offsets.
type SlotMove struct {
	Currency domain.Currency `json:"currency"`
	From     float64         `json:"from"`
	To       float64         `json:"to"`
}

// FadeDirection whether a heading is dimmed or highlighted.
type FadeDirection string

const (
	FadeOut FadeDirection = "out"
	FadeIn  FadeDirection = "in"
)

// AnimationSink receives fire-and-forget animation triggers.
type AnimationSink interface {
	Move(element string, from, to float64)
	Fade(element string, direction FadeDirection)
}

// ElementID returns the surface element id of a currency heading.
func ElementID(c domain.Currency) string {
	return "heading-" + string(c)
}

// Carousel three-slot currency heading state machine. Not safe for concurrent use.
type Carousel struct {
	state  State
	layout Layout
	sink   AnimationSink
}

// New creates a carousel. sink may be nil when nothing is animated.
func New(initial State, layout Layout, sink AnimationSink) (*Carousel, error) {
	if _, ok := transitions[transitionKey{from: initial, target: initial[SlotCenter]}]; !ok {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "%v is not an arrangement of the three currencies", initial)
	}
	return &Carousel{state: initial, layout: layout, sink: sink}, nil
}

// State returns the current arrangement.
func (c *Carousel) State() State {
	return c.state
}

// Layout returns the slot offsets.
func (c *Carousel) Layout() Layout {
	return c.layout
}

// Centered returns the currency in the center slot.
func (c *Carousel) Centered() domain.Currency {
	return c.state[SlotCenter]
}

// Select brings target to the center slot. It returns the two heading moves of the swap, or
// none when target is already centered.
func (c *Carousel) Select(target domain.Currency) ([]SlotMove, error) {
	tr, ok := transitions[transitionKey{from: c.state, target: target}]
	if !ok {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "unknown currency %q", target)
	}
	if len(tr.moves) == 0 {
		return nil, nil
	}

	previous := c.Centered()
	moves := make([]SlotMove, 0, len(tr.moves))
	for _, m := range tr.moves {
		moves = append(moves, SlotMove{
			Currency: m.currency,
			From:     c.layout.Offset(m.from),
			To:       c.layout.Offset(m.to),
		})
	}
	c.state = tr.to

	if c.sink != nil {
		for _, m := range moves {
			c.sink.Move(ElementID(m.Currency), m.From, m.To)
		}
		c.sink.Fade(ElementID(previous), FadeOut)
		c.sink.Fade(ElementID(target), FadeIn)
	}
	return moves, nil
}
