//go:build tinygo

package motordrv

import (
	"motioncore/axes"
	"motioncore/tmc2209"
)

// RegisterWriter is the shape a stepper driver needs for Bank to push an
// IHOLD_IRUN-style register write to it.
type RegisterWriter interface {
	WriteRegister(reg uint8, value uint32) error
}

// Bank maps axis index to the register-level driver responsible for that
// axis's run-current control.
type Bank struct {
	drivers [axes.MaxAxes]RegisterWriter
	maxAmps [axes.MaxAxes]float32
}

// SetDriver registers the driver instance responsible for axis i's current
// control.
func (b *Bank) SetDriver(axis int, driver RegisterWriter, maxAmps float32) {
	if axis < 0 || axis >= axes.MaxAxes {
		return
	}
	b.drivers[axis] = driver
	b.maxAmps[axis] = maxAmps
}

// Drain pops every pending request off q and writes the corresponding
// IHOLD_IRUN register, called from the main loop between splitter pumps.
func (b *Bank) Drain(q *Queue) {
	for {
		req, ok := q.Pop()
		if !ok {
			return
		}
		b.apply(req)
	}
}

func (b *Bank) apply(req CurrentRequest) {
	if req.AxisIdx < 0 || req.AxisIdx >= axes.MaxAxes {
		return
	}
	driver := b.drivers[req.AxisIdx]
	if driver == nil {
		return
	}

	ihold, irun, iholddelay := IholdIrunFields(req.Amps, b.maxAmps[req.AxisIdx])

	// tmc2209.IholdIrun's bit layout (5-bit Ihold, 5-bit Irun, 4-bit
	// Iholddelay packed at the same offsets) is shared by every driver
	// in the TMC21xx/51xx family that exposes an IHOLD_IRUN register, so
	// any RegisterWriter can take the same packed value.
	reg := tmc2209.NewIholdIrun()
	reg.Ihold, reg.Irun, reg.Iholddelay = ihold, irun, iholddelay
	_ = driver.WriteRegister(reg.GetAddress(), reg.Pack())
}
