package kinematics_test

import (
	"testing"

	"github.com/frankban/quicktest"

	"motioncore/axes"
	"motioncore/kinematics"
	"motioncore/motionargs"
)

func testXYZParams() *axes.AxesParams {
	return axes.NewAxesParams([]axes.AxisParams{
		axes.NewAxisParams(axes.AxisParams{
			StepsPerRot: 1000, UnitsPerRot: 1, MaxSpeedUps: 100, MaxAccelUps2: 100,
			IsPrimaryAxis: true, MinValValid: true, MinVal: 0, MaxValValid: true, MaxVal: 100,
		}),
		axes.NewAxisParams(axes.AxisParams{
			StepsPerRot: 1000, UnitsPerRot: 1, MaxSpeedUps: 100, MaxAccelUps2: 100,
			IsPrimaryAxis: true, MinValValid: true, MinVal: 0, MaxValValid: true, MaxVal: 100,
		}),
	}, 0, 0.05)
}

func TestXYZRoundTrip(t *testing.T) {
	c := quicktest.New(t)
	params := testXYZParams()
	var state axes.AxesState

	xyz := kinematics.XYZ{}
	target := axes.Positions{42.5, 17.25}

	steps, ok := xyz.PtToActuator(target, &state, params, motionargs.OutOfBoundsUseDefault)
	c.Assert(ok, quicktest.IsTrue)

	pt, ok := xyz.ActuatorToPt(steps, params)
	c.Assert(ok, quicktest.IsTrue)

	tol := float32(1) / (2 * params.Axes[0].StepsPerUnit)
	c.Assert(abs(pt.Get(0)-target.Get(0)) <= tol, quicktest.IsTrue)
	c.Assert(abs(pt.Get(1)-target.Get(1)) <= tol, quicktest.IsTrue)
}

func TestXYZOutOfBoundsRejectedByDefault(t *testing.T) {
	c := quicktest.New(t)
	params := testXYZParams()
	var state axes.AxesState

	xyz := kinematics.XYZ{}
	_, ok := xyz.PtToActuator(axes.Positions{300, 0}, &state, params, motionargs.OutOfBoundsDiscard)
	c.Assert(ok, quicktest.IsFalse)
}

func TestXYZOutOfBoundsClamped(t *testing.T) {
	c := quicktest.New(t)
	params := testXYZParams()
	var state axes.AxesState

	xyz := kinematics.XYZ{}
	steps, ok := xyz.PtToActuator(axes.Positions{300, 0}, &state, params, motionargs.OutOfBoundsClamp)
	c.Assert(ok, quicktest.IsTrue)
	c.Assert(steps.Get(0), quicktest.Equals, int32(100*params.Axes[0].StepsPerUnit))
}

func scaraParams() *axes.AxesParams {
	return axes.NewAxesParams([]axes.AxisParams{
		axes.NewAxisParams(axes.AxisParams{StepsPerRot: 3600, UnitsPerRot: 360, MaxSpeedUps: 200, MaxAccelUps2: 200, IsPrimaryAxis: true}),
		axes.NewAxisParams(axes.AxisParams{StepsPerRot: 3600, UnitsPerRot: 360, MaxSpeedUps: 200, MaxAccelUps2: 200, IsPrimaryAxis: true}),
	}, 0, 0.05)
}

func TestSCARARoundTrip(t *testing.T) {
	c := quicktest.New(t)
	params := scaraParams()
	var state axes.AxesState

	scara := kinematics.NewSingleArmSCARA(100, 100, 200, 180)
	target := axes.Positions{141.42, 141.42}

	steps, ok := scara.PtToActuator(target, &state, params, motionargs.OutOfBoundsUseDefault)
	c.Assert(ok, quicktest.IsTrue)

	pt, ok := scara.ActuatorToPt(steps, params)
	c.Assert(ok, quicktest.IsTrue)

	tol := float32(100) / float32(params.Axes[0].StepsPerRot)
	c.Assert(abs(pt.Get(0)-target.Get(0)) <= tol*4, quicktest.IsTrue)
	c.Assert(abs(pt.Get(1)-target.Get(1)) <= tol*4, quicktest.IsTrue)
}

func TestSCARAOutOfRangeRejected(t *testing.T) {
	c := quicktest.New(t)
	params := scaraParams()
	var state axes.AxesState

	scara := kinematics.NewSingleArmSCARA(100, 100, 200, 180)
	_, ok := scara.PtToActuator(axes.Positions{250, 0}, &state, params, motionargs.OutOfBoundsDiscard)
	c.Assert(ok, quicktest.IsFalse)
}

func TestSCARACloseToOrigin(t *testing.T) {
	c := quicktest.New(t)
	params := scaraParams()
	var state axes.AxesState

	scara := kinematics.NewSingleArmSCARA(100, 100, 200, 180)
	steps, ok := scara.PtToActuator(axes.Positions{0.1, 0}, &state, params, motionargs.OutOfBoundsUseDefault)
	c.Assert(ok, quicktest.IsTrue)
	c.Assert(steps.Get(0), quicktest.Equals, int32(0))
	c.Assert(steps.Get(1), quicktest.Equals, int32(0))
}

func TestPreProcessCoordsFillsUnspecifiedAbsolute(t *testing.T) {
	c := quicktest.New(t)
	params := testXYZParams()
	var state axes.AxesState
	state.UnitsFromOrigin.Set(0, 10)
	state.UnitsFromOrigin.Set(1, 20)

	args := motionargs.MotionArgs{Mode: motionargs.ModeAbs}
	args.TargetPositions.Set(0, 50)
	args.AxesSpecified.Set(0, true)

	xyz := kinematics.XYZ{}
	dist := xyz.PreProcessCoords(&args, &state, params)

	c.Assert(args.TargetPositions.Get(1), quicktest.Equals, float32(20))
	c.Assert(dist, quicktest.Equals, float32(40))
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
