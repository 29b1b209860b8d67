package carousel

import "github.com/vadiminshakov/satchart/internal/domain"

const (
	btc   = domain.CurrencyBTC
	sat   = domain.CurrencySatoshis
	local = domain.CurrencyLocal
)

type transitionKey struct {
	from   State
	target domain.Currency
}

type slotMove struct {
	currency domain.Currency
	from, to Slot
}

type transition struct {
	to    State
	moves []slotMove
}

// transitions lists every (arrangement, requested currency) pair. The requested currency
// always travels to the center first, the displaced one takes the slot it left.
var transitions = map[transitionKey]transition{
	// btc | sat | local
	{State{btc, sat, local}, sat}: {to: State{btc, sat, local}},
	{State{btc, sat, local}, btc}: {to: State{sat, btc, local}, moves: []slotMove{
		{btc, SlotLeft, SlotCenter}, {sat, SlotCenter, SlotLeft},
	}},
	{State{btc, sat, local}, local}: {to: State{btc, local, sat}, moves: []slotMove{
		{local, SlotRight, SlotCenter}, {sat, SlotCenter, SlotRight},
	}},

	// btc | local | sat
	{State{btc, local, sat}, local}: {to: State{btc, local, sat}},
	{State{btc, local, sat}, btc}: {to: State{local, btc, sat}, moves: []slotMove{
		{btc, SlotLeft, SlotCenter}, {local, SlotCenter, SlotLeft},
	}},
	{State{btc, local, sat}, sat}: {to: State{btc, sat, local}, moves: []slotMove{
		{sat, SlotRight, SlotCenter}, {local, SlotCenter, SlotRight},
	}},

	// sat | btc | local
	{State{sat, btc, local}, btc}: {to: State{sat, btc, local}},
	{State{sat, btc, local}, sat}: {to: State{btc, sat, local}, moves: []slotMove{
		{sat, SlotLeft, SlotCenter}, {btc, SlotCenter, SlotLeft},
	}},
	{State{sat, btc, local}, local}: {to: State{sat, local, btc}, moves: []slotMove{
		{local, SlotRight, SlotCenter}, {btc, SlotCenter, SlotRight},
	}},

	// sat | local | btc
	{State{sat, local, btc}, local}: {to: State{sat, local, btc}},
	{State{sat, local, btc}, sat}: {to: State{local, sat, btc}, moves: []slotMove{
		{sat, SlotLeft, SlotCenter}, {local, SlotCenter, SlotLeft},
	}},
	{State{sat, local, btc}, btc}: {to: State{sat, btc, local}, moves: []slotMove{
		{btc, SlotRight, SlotCenter}, {local, SlotCenter, SlotRight},
	}},

	// local | btc | sat
	{State{local, btc, sat}, btc}: {to: State{local, btc, sat}},
	{State{local, btc, sat}, local}: {to: State{btc, local, sat}, moves: []slotMove{
		{local, SlotLeft, SlotCenter}, {btc, SlotCenter, SlotLeft},
	}},
	{State{local, btc, sat}, sat}: {to: State{local, sat, btc}, moves: []slotMove{
		{sat, SlotRight, SlotCenter}, {btc, SlotCenter, SlotRight},
	}},

	// local | sat | btc
	{State{local, sat, btc}, sat}: {to: State{local, sat, btc}},
	{State{local, sat, btc}, local}: {to: State{sat, local, btc}, moves: []slotMove{
		{local, SlotLeft, SlotCenter}, {sat, SlotCenter, SlotLeft},
	}},
	{State{local, sat, btc}, btc}: {to: State{local, btc, sat}, moves: []slotMove{
		{btc, SlotRight, SlotCenter}, {sat, SlotCenter, SlotRight},
	}},
}
