// Package motordrv owns the stepper driver register read/write queue: per
// spec.md §5 this queue belongs entirely to the main loop, never the tick
// path, which only ever toggles STEP/DIR GPIOs.
package motordrv

import "motioncore/tmc2209"

// CurrentRequest is one pending motorCurrent update decoded from a motion
// command (spec.md §6.1's "motorCurrent" field), targeting one axis.
type CurrentRequest struct {
	AxisIdx int
	Amps    float32
}

// Queue is a small FIFO of pending current-register writes, drained by the
// main loop between block-splitter pumps.
type Queue struct {
	pending []CurrentRequest
}

// Push enqueues a current request, coalescing with any pending request
// already queued for the same axis (only the latest setting matters).
func (q *Queue) Push(req CurrentRequest) {
	for i := range q.pending {
		if q.pending[i].AxisIdx == req.AxisIdx {
			q.pending[i] = req
			return
		}
	}
	q.pending = append(q.pending, req)
}

// Pop removes and returns the oldest pending request, or false if empty.
func (q *Queue) Pop() (CurrentRequest, bool) {
	if len(q.pending) == 0 {
		return CurrentRequest{}, false
	}
	req := q.pending[0]
	q.pending = q.pending[1:]
	return req, true
}

// Len reports the number of pending requests.
func (q *Queue) Len() int { return len(q.pending) }

// IholdIrunFields computes the 5-bit Ihold/Irun and 4-bit Iholddelay
// field values (returned unpacked) for an IHOLD_IRUN-shaped register (identical layout on TMC2209 and
// TMC5160), given a run current in amps and the axis's configured ceiling.
// Hold current is set to 50% of run current, matching the teacher's
// tmc5160.Begin default ratio of driving the motor harder while moving
// than while holding position.
func IholdIrunFields(runAmps, maxAmps float32) (ihold, irun, iholddelay uint32) {
	if maxAmps <= 0 {
		return 0, 0, 7
	}
	percent := uint8(tmc2209.Constrain(uint32(runAmps/maxAmps*100), 0, 100))
	setting := tmc2209.PercentToCurrentSetting(percent) // 0..255
	irun = uint32(setting) >> 3                          // 0..31
	ihold = irun / 2
	iholddelay = 7
	return ihold, irun, iholddelay
}
