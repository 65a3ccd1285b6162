package planner_test

import (
	"testing"

	"github.com/frankban/quicktest"

	"motioncore/axes"
	"motioncore/block"
	"motioncore/planner"
)

func testParams() *axes.AxesParams {
	return axes.NewAxesParams([]axes.AxisParams{
		axes.NewAxisParams(axes.AxisParams{
			StepsPerRot: 1000, UnitsPerRot: 1, MaxSpeedUps: 100, MaxAccelUps2: 100,
			IsPrimaryAxis: true, IsDominantAxis: true,
		}),
		axes.NewAxisParams(axes.AxisParams{
			StepsPerRot: 1000, UnitsPerRot: 1, MaxSpeedUps: 100, MaxAccelUps2: 100,
			IsPrimaryAxis: true,
		}),
	}, 0, 0.05)
}

func TestMoveToRampedSingleBlockTailExitsZero(t *testing.T) {
	c := quicktest.New(t)

	params := testParams()
	pipe := block.NewPipeline(10)
	pl := planner.NewPlanner(pipe, params, 20_000)

	var state axes.AxesState
	dest := axes.Steps{10000, 0, 0}

	ok, err := pl.MoveToRamped(dest, &state, 10, 100, false)
	c.Assert(err, quicktest.IsNil)
	c.Assert(ok, quicktest.IsTrue)

	c.Assert(pipe.Count(), quicktest.Equals, 1)
	tail := pipe.PeekNthFromPut(0)
	c.Assert(tail.ExitSpeedMMPS, quicktest.Equals, float32(0))
	c.Assert(tail.CanExecute(), quicktest.IsTrue)

	c.Assert(state.StepsFromOrigin.Get(0), quicktest.Equals, int32(10000))
}

func TestMoveToRampedRejectsBelowMinimumDistance(t *testing.T) {
	c := quicktest.New(t)

	params := testParams()
	pipe := block.NewPipeline(10)
	pl := planner.NewPlanner(pipe, params, 20_000)

	var state axes.AxesState
	ok, err := pl.MoveToRamped(axes.Steps{}, &state, 0, 100, false)
	c.Assert(err, quicktest.IsNil)
	c.Assert(ok, quicktest.IsFalse)
	c.Assert(pipe.Count(), quicktest.Equals, 0)
}

func TestMoveToRampedStraightJunctionNoDeceleration(t *testing.T) {
	c := quicktest.New(t)

	params := testParams()
	pipe := block.NewPipeline(10)
	pl := planner.NewPlanner(pipe, params, 20_000)

	var state axes.AxesState

	ok, err := pl.MoveToRamped(axes.Steps{10000, 0, 0}, &state, 10, 100, true)
	c.Assert(err, quicktest.IsNil)
	c.Assert(ok, quicktest.IsTrue)

	ok, err = pl.MoveToRamped(axes.Steps{20000, 0, 0}, &state, 10, 100, false)
	c.Assert(err, quicktest.IsNil)
	c.Assert(ok, quicktest.IsTrue)

	c.Assert(pipe.Count(), quicktest.Equals, 2)

	second := pipe.PeekNthFromPut(0)
	c.Assert(second.MaxEntrySpeedMMPS, quicktest.Equals, float32(100))
}

func TestMoveToNonRampedCommitsImmediately(t *testing.T) {
	c := quicktest.New(t)

	params := testParams()
	pipe := block.NewPipeline(10)
	pl := planner.NewPlanner(pipe, params, 20_000)

	var state axes.AxesState
	ok, err := pl.MoveToNonRamped(axes.Steps{1000, 0, 0}, &state, 200, axes.AxisEndstopChecks{})
	c.Assert(err, quicktest.IsNil)
	c.Assert(ok, quicktest.IsTrue)

	blk := pipe.PeekGet()
	c.Assert(blk.CanExecute(), quicktest.IsTrue)
	c.Assert(blk.InitialStepRatePerTticks, quicktest.Equals, blk.MaxStepRatePerTticks)
	c.Assert(state.UnitsFromOriginValid.Get(0), quicktest.IsFalse)
}

func TestPrepareForSteppingProducesMonotoneRates(t *testing.T) {
	c := quicktest.New(t)

	params := testParams()
	pipe := block.NewPipeline(10)
	pl := planner.NewPlanner(pipe, params, 20_000)

	var state axes.AxesState
	ok, err := pl.MoveToRamped(axes.Steps{10000, 0, 0}, &state, 10, 100, false)
	c.Assert(err, quicktest.IsNil)
	c.Assert(ok, quicktest.IsTrue)

	blk := pipe.PeekGet()
	c.Assert(blk.MaxStepRatePerTticks > 0, quicktest.IsTrue)
	c.Assert(blk.StepsBeforeDecel <= blk.AbsStepsTotal(0), quicktest.IsTrue)
	c.Assert(blk.InitialStepRatePerTticks <= blk.MaxStepRatePerTticks, quicktest.IsTrue)
	c.Assert(blk.FinalStepRatePerTticks <= blk.MaxStepRatePerTticks, quicktest.IsTrue)
}
