package rampgen_test

import (
	"testing"

	"motioncore/axes"
	"motioncore/block"
	"motioncore/rampgen"
)

// fakeGPIO records step/dir toggles without touching real hardware.
type fakeGPIO struct {
	stepHigh [axes.MaxAxes]bool
	dirPos   [axes.MaxAxes]bool
	stepsSeen [axes.MaxAxes]int
}

func (g *fakeGPIO) SetStep(axis int, high bool) {
	g.stepHigh[axis] = high
	if high {
		g.stepsSeen[axis]++
	}
}

func (g *fakeGPIO) SetDir(axis int, positive bool) {
	g.dirPos[axis] = positive
}

type fakeEndstops struct {
	hit [axes.MaxAxes][2]bool
}

func (e *fakeEndstops) Read(axis int, dir int) bool {
	return e.hit[axis][dir]
}

func constantRateBlock(stepsMajor int32, rateTticks uint32) block.MotionBlock {
	blk := block.MotionBlock{
		StepsTotalMaybeNeg:       axes.Steps{stepsMajor, 0, 0},
		AxisIdxWithMaxSteps:      0,
		InitialStepRatePerTticks: rateTticks,
		MaxStepRatePerTticks:     rateTticks,
		FinalStepRatePerTticks:   rateTticks,
		AccStepsPerTticksPerMs:   0,
		StepsBeforeDecel:         uint32(stepsMajor),
	}
	return blk
}

func runUntilEmpty(t *testing.T, gen *rampgen.Generator, pipe *block.Pipeline, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if pipe.Count() == 0 {
			return
		}
		gen.Tick()
	}
	t.Fatalf("pipeline did not drain within %d ticks", maxTicks)
}

func TestTickCompletesConstantRateBlockWithExactStepCount(t *testing.T) {
	pipe := block.NewPipeline(4)
	gpio := &fakeGPIO{}
	endstops := &fakeEndstops{}
	gen := rampgen.NewGenerator(pipe, gpio, endstops, 20_000)

	blk := constantRateBlock(100, block.TticksValue) // one step per tick
	blk.SetCanExecute(true)
	pipe.Add(blk)

	runUntilEmpty(t, gen, pipe, 100000)

	if gpio.stepsSeen[0] != 100 {
		t.Fatalf("expected 100 steps on axis 0, got %d", gpio.stepsSeen[0])
	}
	if gen.AxisTotalSteps(0) != 100 {
		t.Fatalf("expected axisTotalSteps=100, got %d", gen.AxisTotalSteps(0))
	}
}

func TestTickIgnoresBlockWithCanExecuteFalse(t *testing.T) {
	pipe := block.NewPipeline(4)
	gpio := &fakeGPIO{}
	endstops := &fakeEndstops{}
	gen := rampgen.NewGenerator(pipe, gpio, endstops, 20_000)

	blk := constantRateBlock(10, block.TticksValue)
	// CanExecute left false.
	pipe.Add(blk)

	for i := 0; i < 5; i++ {
		gen.Tick()
	}

	if gpio.stepsSeen[0] != 0 {
		t.Fatalf("expected no steps issued while can_execute=false, got %d", gpio.stepsSeen[0])
	}
	if pipe.Count() != 1 {
		t.Fatalf("expected block still queued, count=%d", pipe.Count())
	}
}

func TestTickStepPulseLastsAtLeastOneFullTick(t *testing.T) {
	pipe := block.NewPipeline(4)
	gpio := &fakeGPIO{}
	endstops := &fakeEndstops{}
	gen := rampgen.NewGenerator(pipe, gpio, endstops, 20_000)

	blk := constantRateBlock(10, block.TticksValue)
	blk.SetCanExecute(true)
	pipe.Add(blk)

	gen.Tick() // first tick of new block: setup only, no step
	gen.Tick() // issues the first step, raises STEP high
	if !gpio.stepHigh[0] {
		t.Fatalf("expected STEP pin high immediately after the step-issuing tick")
	}
	gen.Tick() // step-end tick: lowers STEP before anything else
	if gpio.stepHigh[0] {
		t.Fatalf("expected STEP pin low one tick after being raised")
	}
}

func TestTickCoordinatedArrivalBresenham(t *testing.T) {
	pipe := block.NewPipeline(4)
	gpio := &fakeGPIO{}
	endstops := &fakeEndstops{}
	gen := rampgen.NewGenerator(pipe, gpio, endstops, 20_000)

	blk := block.MotionBlock{
		StepsTotalMaybeNeg:       axes.Steps{100, 50, 0},
		AxisIdxWithMaxSteps:      0,
		InitialStepRatePerTticks: block.TticksValue,
		MaxStepRatePerTticks:     block.TticksValue,
		FinalStepRatePerTticks:   block.TticksValue,
		StepsBeforeDecel:         100,
	}
	blk.SetCanExecute(true)
	pipe.Add(blk)

	runUntilEmpty(t, gen, pipe, 100000)

	if gpio.stepsSeen[0] != 100 {
		t.Fatalf("major axis: expected 100 steps, got %d", gpio.stepsSeen[0])
	}
	if gpio.stepsSeen[1] != 50 {
		t.Fatalf("minor axis: expected 50 steps, got %d", gpio.stepsSeen[1])
	}
}

func TestTickEndstopHitCancelsBlock(t *testing.T) {
	pipe := block.NewPipeline(4)
	gpio := &fakeGPIO{}
	endstops := &fakeEndstops{}
	gen := rampgen.NewGenerator(pipe, gpio, endstops, 20_000)

	blk := constantRateBlock(1000, block.TticksValue)
	blk.EndStopsToCheck[0][axes.EndstopMax] = axes.EndstopHit
	blk.SetCanExecute(true)
	pipe.Add(blk)

	gen.Tick() // setup tick

	endstops.hit[0][axes.EndstopMax] = true
	gen.Tick() // should detect the endstop and cancel

	if !gen.EndStopReached() {
		t.Fatalf("expected EndStopReached to be set after endstop trip")
	}
	if pipe.Count() != 0 {
		t.Fatalf("expected head block cancelled, count=%d", pipe.Count())
	}
}

func TestStopCancelsExecutingBlock(t *testing.T) {
	pipe := block.NewPipeline(4)
	gpio := &fakeGPIO{}
	endstops := &fakeEndstops{}
	gen := rampgen.NewGenerator(pipe, gpio, endstops, 20_000)

	blk := constantRateBlock(1000, block.TticksValue)
	blk.SetCanExecute(true)
	pipe.Add(blk)

	gen.Tick() // setup
	gen.Tick() // one step

	gen.Stop()
	gen.Tick() // step-end: lowers STEP and returns before the stop check
	gen.Tick() // observes stop request and cancels

	if pipe.Count() != 0 {
		t.Fatalf("expected pipeline empty after stop, count=%d", pipe.Count())
	}
}

func TestPauseHaltsProgressAndResumePreservesState(t *testing.T) {
	pipe := block.NewPipeline(4)
	gpio := &fakeGPIO{}
	endstops := &fakeEndstops{}
	gen := rampgen.NewGenerator(pipe, gpio, endstops, 20_000)

	blk := constantRateBlock(10, block.TticksValue)
	blk.SetCanExecute(true)
	pipe.Add(blk)

	gen.Tick() // setup

	gen.Pause(true)
	for i := 0; i < 5; i++ {
		gen.Tick()
	}
	if gpio.stepsSeen[0] != 0 {
		t.Fatalf("expected no steps while paused, got %d", gpio.stepsSeen[0])
	}

	gen.Pause(false)
	runUntilEmpty(t, gen, pipe, 100000)
	if gpio.stepsSeen[0] != 10 {
		t.Fatalf("expected 10 steps after resume, got %d", gpio.stepsSeen[0])
	}
}
