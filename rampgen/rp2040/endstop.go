//go:build rp2040 || rp2350

package rp2040

import (
	"machine"

	"motioncore/axes"
)

// EndstopPins is one axis's [min, max] endstop input pin pair. A side set
// to machine.NoPin has no switch wired.
type EndstopPins struct {
	Min machine.Pin
	Max machine.Pin
}

// Endstops reads up to axes.MaxAxes endstop switch pairs via machine.Pin,
// matching rampgen.EndstopReader. Active-low wiring (pull-up + switch to
// ground) is assumed, matching typical TMC2209/TMC5160 limit-switch
// harnesses.
type Endstops struct {
	pins [axes.MaxAxes][2]machine.Pin
	has  [axes.MaxAxes][2]bool
}

// NewEndstops builds an unconfigured reader; call Configure per side
// before use.
func NewEndstops() *Endstops {
	return &Endstops{}
}

// Configure wires axis i's min/max endstop inputs with an internal pull-up.
func (e *Endstops) Configure(axis int, pins EndstopPins) {
	if axis < 0 || axis >= axes.MaxAxes {
		return
	}
	if pins.Min != machine.NoPin {
		pins.Min.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		e.pins[axis][axes.EndstopMin] = pins.Min
		e.has[axis][axes.EndstopMin] = true
	}
	if pins.Max != machine.NoPin {
		pins.Max.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		e.pins[axis][axes.EndstopMax] = pins.Max
		e.has[axis][axes.EndstopMax] = true
	}
}

// Read reports whether axis i's endstop on the given side (axes.EndstopMin
// or axes.EndstopMax) is physically triggered. Active-low: triggered when
// the pin reads false.
func (e *Endstops) Read(axis int, dir int) bool {
	if axis < 0 || axis >= axes.MaxAxes || dir < 0 || dir > 1 || !e.has[axis][dir] {
		return false
	}
	return !e.pins[axis][dir].Get()
}
