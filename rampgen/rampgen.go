// Package rampgen implements the periodic tick-driven step-pulse engine:
// the only part of this core allowed to run from a hardware interrupt, so
// every operation in Tick is integer fixed-point arithmetic with no
// allocation, no locking (state shared with the producer is held in
// atomics), and no floating point.
package rampgen

import (
	"sync/atomic"

	"motioncore/axes"
	"motioncore/block"
)

// GPIO toggles the STEP/DIR lines for one axis. Implementations must be
// safe to call from interrupt context: no allocation, no blocking.
type GPIO interface {
	SetStep(axis int, high bool)
	SetDir(axis int, positive bool)
}

// EndstopReader reports the instantaneous physical state of one axis's
// endstop switch. Implementations must be interrupt-safe.
type EndstopReader interface {
	Read(axis int, dir int) (hit bool)
}

// Clock is consumed only by the polling driver (RunPolling), never by Tick
// itself, to pace software-driven ticks at StepGenPeriodNs.
type Clock interface {
	NowNs() uint64
	SleepNs(ns uint64)
}

// minStepRatePerSec is the floor described in spec.md §3 Constants,
// ensuring the accumulator never permanently stalls.
const minStepRatePerSec = block.MinStepRatePerSec

// Generator is the tick engine. The producer (planner/block manager) reads
// axisTotalSteps and endStopReached across the ISR boundary and sets the
// stopRequested and paused flags; all four are atomics.
type Generator struct {
	Pipeline        *block.Pipeline
	GPIO            GPIO
	Endstops        EndstopReader
	StepGenPeriodNs uint32

	minStepRatePerTticks uint32

	axisTotalSteps [axes.MaxAxes]atomic.Int32
	stopRequested  atomic.Bool
	paused         atomic.Bool
	endStopReached atomic.Bool

	// Per-block execution state. Touched only from the tick context; no
	// synchronization needed since there is exactly one consumer.
	stepPinHigh    [axes.MaxAxes]bool
	anyStepPinHigh bool

	stepCountSoFar [axes.MaxAxes]uint32
	absStepsTotal  [axes.MaxAxes]uint32
	relativeAccum  [axes.MaxAxes]uint32

	stepAccum         uint32
	currentStepRate   uint32
	msAccumulatorNs   uint32
}

// NewGenerator builds a Generator over a pipeline, GPIO, and endstop
// reader. stepGenPeriodNs is the tick period in nanoseconds (0 defaults to
// 20000, i.e. 20 µs, per spec.md §4.5).
func NewGenerator(pipeline *block.Pipeline, gpio GPIO, endstops EndstopReader, stepGenPeriodNs uint32) *Generator {
	if stepGenPeriodNs == 0 {
		stepGenPeriodNs = 20_000
	}
	g := &Generator{
		Pipeline:        pipeline,
		GPIO:            gpio,
		Endstops:        endstops,
		StepGenPeriodNs: stepGenPeriodNs,
	}
	ticksPerSec := 1e9 / float32(stepGenPeriodNs)
	g.minStepRatePerTticks = uint32(float32(minStepRatePerSec) * block.TticksValue / ticksPerSec)
	return g
}

// AxisTotalSteps returns the cumulative signed step count the tick engine
// has committed for axis i. Safe to call from the producer context.
func (g *Generator) AxisTotalSteps(i int) int32 {
	if i < 0 || i >= axes.MaxAxes {
		return 0
	}
	return g.axisTotalSteps[i].Load()
}

// Stop requests cancellation of the currently executing block; takes
// effect on the next tick.
func (g *Generator) Stop() { g.stopRequested.Store(true) }

// Pause suspends (true) or resumes (false) tick execution. Acceleration
// state is preserved across a pause.
func (g *Generator) Pause(p bool) { g.paused.Store(p) }

// Paused reports the current pause state.
func (g *Generator) Paused() bool { return g.paused.Load() }

// EndStopReached reports whether the most recent block execution was
// cancelled by an endstop hit. Cleared by ClearEndStopReached.
func (g *Generator) EndStopReached() bool { return g.endStopReached.Load() }

// ClearEndStopReached clears the endstop-reached flag; called by the
// producer after it has observed and handled the condition.
func (g *Generator) ClearEndStopReached() { g.endStopReached.Store(false) }

// Tick executes one tick of the ramp generator. It must be called at a
// steady StepGenPeriodNs cadence, either from a hardware timer ISR or from
// RunPolling. Tick performs no allocation and uses only fixed-point
// integer arithmetic.
func (g *Generator) Tick() {
	// 1. Step-end first: lower any STEP line raised by the previous tick.
	if g.anyStepPinHigh {
		for i := 0; i < axes.MaxAxes; i++ {
			if g.stepPinHigh[i] {
				g.GPIO.SetStep(i, false)
				g.stepPinHigh[i] = false
			}
		}
		g.anyStepPinHigh = false
		return
	}

	// 2. Stop pending.
	if g.stopRequested.Load() {
		g.stopRequested.Store(false)
		g.cancelHeadBlock()
		return
	}

	// 3. Pause.
	if g.paused.Load() {
		return
	}

	// 4. Pick up head block.
	blk := g.Pipeline.PeekGet()
	if blk == nil || !blk.CanExecute() {
		return
	}

	// 5. First tick of a new block.
	if !blk.IsExecuting {
		g.startBlock(blk)
		blk.IsExecuting = true
		return
	}

	// 6. End-stop check.
	if g.checkEndstops(blk) {
		g.endStopReached.Store(true)
		g.cancelHeadBlock()
		return
	}

	// 7. Per-millisecond accumulator: acceleration/deceleration update.
	g.msAccumulatorNs += g.StepGenPeriodNs
	if g.msAccumulatorNs >= block.NsInAMs {
		g.msAccumulatorNs -= block.NsInAMs
		g.updateStepRate(blk)
	}

	// 8. Step accumulator.
	g.advanceStepAccumulator(blk)
}

// startBlock resets per-axis step counters and sets direction pins for a
// freshly-picked-up block.
func (g *Generator) startBlock(blk *block.MotionBlock) {
	for i := 0; i < axes.MaxAxes; i++ {
		g.absStepsTotal[i] = blk.AbsStepsTotal(i)
		g.stepCountSoFar[i] = 0
		g.relativeAccum[i] = 0

		dir := blk.Direction(i)
		if dir != 0 {
			g.GPIO.SetDir(i, dir > 0)
		}
	}
	g.stepAccum = 0
	g.currentStepRate = blk.InitialStepRatePerTticks
	g.msAccumulatorNs = 0
}

// checkEndstops reports whether any configured endstop check trips: a Hit
// check trips whenever its switch reads triggered, a NotHit check only when
// the axis moves towards that side and its switch reads triggered.
func (g *Generator) checkEndstops(blk *block.MotionBlock) bool {
	for i := 0; i < axes.MaxAxes; i++ {
		dir := blk.Direction(i)
		for side := 0; side < 2; side++ {
			switch blk.EndStopsToCheck[i][side] {
			case axes.EndstopHit:
				if g.Endstops.Read(i, side) {
					return true
				}
			case axes.EndstopNotHit:
				// Towards-qualified checks (encoded by the caller leaving
				// EndstopNotHit set only on the side the axis moves
				// towards) stop motion once that side trips.
				if matchesDirection(side, dir) && g.Endstops.Read(i, side) {
					return true
				}
			}
		}
	}
	return false
}

func matchesDirection(side int, dir int32) bool {
	if side == axes.EndstopMin {
		return dir < 0
	}
	return dir > 0
}

// updateStepRate applies one millisecond's worth of acceleration or
// deceleration to the current fixed-point step rate.
func (g *Generator) updateStepRate(blk *block.MotionBlock) {
	major := blk.AxisIdxWithMaxSteps
	if g.stepCountSoFar[major] > blk.StepsBeforeDecel {
		floor := blk.FinalStepRatePerTticks + blk.AccStepsPerTticksPerMs
		if blk.FinalStepRatePerTticks > floor {
			floor = blk.FinalStepRatePerTticks
		}
		if floor < g.minStepRatePerTticks {
			floor = g.minStepRatePerTticks
		}
		if g.currentStepRate > blk.AccStepsPerTticksPerMs && g.currentStepRate-blk.AccStepsPerTticksPerMs > floor {
			g.currentStepRate -= blk.AccStepsPerTticksPerMs
		} else {
			g.currentStepRate = floor
		}
	} else if g.currentStepRate < blk.MaxStepRatePerTticks {
		next := g.currentStepRate + blk.AccStepsPerTticksPerMs
		if next > blk.MaxStepRatePerTticks || next < g.currentStepRate {
			next = blk.MaxStepRatePerTticks
		}
		g.currentStepRate = next
	}
}

// advanceStepAccumulator runs one fixed-point accumulator step: advance by
// the current rate (floored at minStepRatePerTticks), and if it overflows
// TticksValue, issue one step on the major axis plus Bresenham-coordinated
// steps on any non-major axis whose relative accumulator also overflows.
func (g *Generator) advanceStepAccumulator(blk *block.MotionBlock) {
	rate := g.currentStepRate
	if rate < g.minStepRatePerTticks {
		rate = g.minStepRatePerTticks
	}

	g.stepAccum += rate
	if g.stepAccum < block.TticksValue {
		return
	}
	g.stepAccum -= block.TticksValue

	major := blk.AxisIdxWithMaxSteps
	g.issueStep(major, blk.Direction(major))

	majorTotal := g.absStepsTotal[major]
	for i := 0; i < axes.MaxAxes; i++ {
		if i == major || g.stepCountSoFar[i] >= g.absStepsTotal[i] {
			continue
		}
		g.relativeAccum[i] += g.absStepsTotal[i]
		if g.relativeAccum[i] >= majorTotal {
			g.relativeAccum[i] -= majorTotal
			g.issueStep(i, blk.Direction(i))
		}
	}

	if g.blockComplete(blk) {
		g.Pipeline.Remove()
	}
}

// issueStep raises axis i's STEP line, increments its running counts, and
// commits the direction-signed delta into the cross-boundary atomic
// counter.
func (g *Generator) issueStep(i int, dir int32) {
	g.GPIO.SetStep(i, true)
	g.stepPinHigh[i] = true
	g.anyStepPinHigh = true
	g.stepCountSoFar[i]++
	if dir != 0 {
		g.axisTotalSteps[i].Add(dir)
	}
}

// blockComplete reports whether every axis has reached its step total.
func (g *Generator) blockComplete(blk *block.MotionBlock) bool {
	for i := 0; i < axes.MaxAxes; i++ {
		if g.stepCountSoFar[i] < g.absStepsTotal[i] {
			return false
		}
	}
	return true
}

// cancelHeadBlock removes the currently executing head block, if any.
func (g *Generator) cancelHeadBlock() {
	if blk := g.Pipeline.PeekGet(); blk != nil {
		g.Pipeline.Remove()
	}
}
