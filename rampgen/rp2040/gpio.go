// Package rp2040 implements a rampgen.GPIO backend for rp2040/rp2350
// boards using direct SIO register access, bypassing machine.Pin.Set's
// overhead for the tick path's minimum-pulse-width requirement.
//
//go:build rp2040 || rp2350

package rp2040

import (
	"device/rp"
	"machine"

	"motioncore/axes"
)

// StepperPins is one axis's STEP/DIR pin pair.
type StepperPins struct {
	Step machine.Pin
	Dir  machine.Pin
}

// GPIOBackend drives up to axes.MaxAxes STEP/DIR pin pairs via direct SIO
// register writes, matching rampgen.GPIO. Safe to call from interrupt
// context: every operation is a single register store, no allocation.
type GPIOBackend struct {
	stepSetMask   [axes.MaxAxes]uint32
	stepClearMask [axes.MaxAxes]uint32
	dirSetMask    [axes.MaxAxes]uint32
	dirClearMask  [axes.MaxAxes]uint32
	configured    [axes.MaxAxes]bool
}

var _ interface {
	SetStep(axis int, high bool)
	SetDir(axis int, positive bool)
} = (*GPIOBackend)(nil)

// NewGPIOBackend builds an unconfigured backend; call Configure per axis
// before use.
func NewGPIOBackend() *GPIOBackend {
	return &GPIOBackend{}
}

// Configure sets up axis i's STEP/DIR pins as outputs and precomputes the
// SIO bitmasks used by SetStep/SetDir.
func (b *GPIOBackend) Configure(axis int, pins StepperPins) {
	if axis < 0 || axis >= axes.MaxAxes {
		return
	}

	pins.Step.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.Step.Low()
	pins.Dir.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.Dir.Low()

	b.stepSetMask[axis] = 1 << uint8(pins.Step)
	b.stepClearMask[axis] = 1 << uint8(pins.Step)
	b.dirSetMask[axis] = 1 << uint8(pins.Dir)
	b.dirClearMask[axis] = 1 << uint8(pins.Dir)
	b.configured[axis] = true
}

// SetStep raises or lowers axis i's STEP line via a single SIO register
// write.
func (b *GPIOBackend) SetStep(axis int, high bool) {
	if axis < 0 || axis >= axes.MaxAxes || !b.configured[axis] {
		return
	}
	if high {
		rp.SIO.GPIO_OUT_SET.Set(b.stepSetMask[axis])
	} else {
		rp.SIO.GPIO_OUT_CLR.Set(b.stepClearMask[axis])
	}
}

// SetDir sets axis i's DIR line. positive maps to the SIO "set" state;
// this backend has no direction-inversion option, so the function stays a
// single register write.
func (b *GPIOBackend) SetDir(axis int, positive bool) {
	if axis < 0 || axis >= axes.MaxAxes || !b.configured[axis] {
		return
	}
	if positive {
		rp.SIO.GPIO_OUT_SET.Set(b.dirSetMask[axis])
	} else {
		rp.SIO.GPIO_OUT_CLR.Set(b.dirClearMask[axis])
	}
}
