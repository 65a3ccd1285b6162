// Package block defines MotionBlock, the planned trapezoidal segment that
// flows from the planner to the ramp generator, and Pipeline, the bounded
// SPSC ring buffer that holds them.
package block

import (
	"sync/atomic"

	"motioncore/axes"
)

// Fixed-point and rate constants shared by the planner and ramp generator
// (spec.md §3 Constants).
const (
	TticksValue       = 1_000_000_000
	NsInAMs           = 1_000_000
	MinStepRatePerSec = 10
	MinimumMoveDistMM = 1e-4
)

// MotionBlock is one planned trapezoidal motion segment queued for
// execution. Constructed by the planner, mutated by planner look-ahead
// until the ramp generator sets IsExecuting=true; then immutable until
// removed.
type MotionBlock struct {
	StepsTotalMaybeNeg  axes.Steps
	AxisIdxWithMaxSteps int

	MoveDistPrimaryAxesMM  float32
	UnitVecAxisWithMaxDist float32

	RequestedSpeedMMPS float32
	MaxEntrySpeedMMPS  float32
	EntrySpeedMMPS     float32
	ExitSpeedMMPS      float32

	// Fixed-point ramp parameters (spec.md §4.5), populated by
	// PrepareForStepping.
	InitialStepRatePerTticks uint32
	MaxStepRatePerTticks     uint32
	FinalStepRatePerTticks   uint32
	AccStepsPerTticksPerMs   uint32
	StepsBeforeDecel         uint32

	IsExecuting bool
	// canExecute gates ISR pickup of this block. It is the one field the
	// producer (planner) and consumer (ramp generator tick) both touch, so
	// it is an atomic.Bool rather than a plain bool: setting it acts as the
	// publication fence that makes every other field of the block visible
	// to the consumer before pickup becomes possible.
	canExecute      atomic.Bool
	BlockIsFollowed bool

	EndStopsToCheck axes.AxisEndstopChecks

	MotionTrackingIdx    uint32
	HasMotionTrackingIdx bool
}

// CanExecute reports whether the ramp generator may pick up this block.
func (b *MotionBlock) CanExecute() bool { return b.canExecute.Load() }

// SetCanExecute publishes the block to the ramp generator (true), or
// revokes pickup eligibility (false). Must be the last write the planner
// makes to a block's fields before setting true.
func (b *MotionBlock) SetCanExecute(v bool) { b.canExecute.Store(v) }

// AbsStepsTotal returns the unsigned step count for axis i.
func (b *MotionBlock) AbsStepsTotal(i int) uint32 {
	v := b.StepsTotalMaybeNeg.Get(i)
	if v < 0 {
		return uint32(-v)
	}
	return uint32(v)
}

// Direction returns +1 or -1 for the signed direction of axis i (0 if the
// axis does not move in this block).
func (b *MotionBlock) Direction(i int) int32 {
	v := b.StepsTotalMaybeNeg.Get(i)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
