package motionargs_test

import (
	"testing"

	"github.com/frankban/quicktest"

	"motioncore/axes"
	"motioncore/motionargs"
)

func TestParseModeUnknownDefaultsAbs(t *testing.T) {
	c := quicktest.New(t)
	c.Assert(motionargs.ParseMode("bogus"), quicktest.Equals, motionargs.ModeAbs)
	c.Assert(motionargs.ParseMode("pos-abs-steps-noramp"), quicktest.Equals, motionargs.ModePosAbsStepsNoRamp)
}

func TestModeIsNoRampAndRelative(t *testing.T) {
	c := quicktest.New(t)
	c.Assert(motionargs.ModePosAbsStepsNoRamp.IsNoRamp(), quicktest.IsTrue)
	c.Assert(motionargs.ModeAbs.IsNoRamp(), quicktest.IsFalse)
	c.Assert(motionargs.ModeRel.IsRelative(), quicktest.IsTrue)
	c.Assert(motionargs.ModeAbs.IsRelative(), quicktest.IsFalse)
}

func TestParseOutOfBoundsPolicy(t *testing.T) {
	c := quicktest.New(t)
	c.Assert(motionargs.ParseOutOfBoundsPolicy(""), quicktest.Equals, motionargs.OutOfBoundsUseDefault)
	c.Assert(motionargs.ParseOutOfBoundsPolicy("ok"), quicktest.Equals, motionargs.OutOfBoundsAllow)
	c.Assert(motionargs.ParseOutOfBoundsPolicy("constrain"), quicktest.Equals, motionargs.OutOfBoundsClamp)
	c.Assert(motionargs.ParseOutOfBoundsPolicy("reject"), quicktest.Equals, motionargs.OutOfBoundsDiscard)
}

func TestParseSpeedPercentage(t *testing.T) {
	c := quicktest.New(t)
	v, err := motionargs.ParseSpeed(50.0, 100)
	c.Assert(err, quicktest.IsNil)
	c.Assert(v, quicktest.Equals, 50.0)
}

func TestParseSpeedSuffixed(t *testing.T) {
	c := quicktest.New(t)

	v, err := motionargs.ParseSpeed("10mmps", 100)
	c.Assert(err, quicktest.IsNil)
	c.Assert(v, quicktest.Equals, 10.0)

	v, err = motionargs.ParseSpeed("600upm", 100)
	c.Assert(err, quicktest.IsNil)
	c.Assert(v, quicktest.Equals, 10.0)

	v, err = motionargs.ParseSpeed("80pc", 100)
	c.Assert(err, quicktest.IsNil)
	c.Assert(v, quicktest.Equals, 80.0)
}

func TestParseSpeedCappedAtMax(t *testing.T) {
	c := quicktest.New(t)
	v, err := motionargs.ParseSpeed("9999ups", 100)
	c.Assert(err, quicktest.IsNil)
	c.Assert(v, quicktest.Equals, 100.0)
}

func TestDecodeCommandAbsoluteMove(t *testing.T) {
	c := quicktest.New(t)

	body := []byte(`{"cmd":"motion","mode":"abs","pos":[10,0,null],"speed":"100pc","more":true}`)
	args, err := motionargs.DecodeCommand(body, axes.AxesValues[float64]{100, 100, 100})
	c.Assert(err, quicktest.IsNil)

	c.Assert(args.Mode, quicktest.Equals, motionargs.ModeAbs)
	c.Assert(args.TargetPositions.Get(0), quicktest.Equals, float32(10))
	c.Assert(args.AxesSpecified.Get(0), quicktest.IsTrue)
	c.Assert(args.AxesSpecified.Get(2), quicktest.IsFalse)
	c.Assert(args.MoreMovesComing, quicktest.IsTrue)
	c.Assert(args.HasSpeed, quicktest.IsTrue)
	c.Assert(args.RequestedUps, quicktest.Equals, 100.0)
}

func TestDecodeCommandOutOfBoundsAndEndstops(t *testing.T) {
	c := quicktest.New(t)

	body := []byte(`{"cmd":"motion","mode":"abs","pos":[300,0],"outOfBounds":"discard","endstops":[["0","1"],["T","X"]]}`)
	args, err := motionargs.DecodeCommand(body, axes.AxesValues[float64]{})
	c.Assert(err, quicktest.IsNil)

	c.Assert(args.OutOfBounds, quicktest.Equals, motionargs.OutOfBoundsDiscard)
	c.Assert(args.EndstopChecks[0][axes.EndstopMin], quicktest.Equals, axes.EndstopNotHit)
	c.Assert(args.EndstopChecks[0][axes.EndstopMax], quicktest.Equals, axes.EndstopHit)
	c.Assert(args.EndstopTowards.Get(1), quicktest.IsTrue)
}

func TestConfigDefaultsOnMalformedBody(t *testing.T) {
	c := quicktest.New(t)

	cfg := motionargs.DecodeConfig([]byte(`not json`))
	c.Assert(cfg.Geom, quicktest.Equals, "XYZ")
	c.Assert(cfg.MaxJunctionDeviationMM, quicktest.Equals, float32(0.05))
	c.Assert(cfg.PipelineLen, quicktest.Equals, uint32(100))
}

func TestConfigOverlaysProvidedFields(t *testing.T) {
	c := quicktest.New(t)

	cfg := motionargs.DecodeConfig([]byte(`{"geom":"SingleArmSCARA","blockDistMM":5}`))
	c.Assert(cfg.Geom, quicktest.Equals, "SingleArmSCARA")
	c.Assert(cfg.BlockDistMM, quicktest.Equals, float32(5))
	c.Assert(cfg.MaxJunctionDeviationMM, quicktest.Equals, float32(0.05))
}

func TestRetCodeString(t *testing.T) {
	c := quicktest.New(t)
	c.Assert(motionargs.RetBusy.String(), quicktest.Equals, "Busy")
	c.Assert(motionargs.RetInvalidData.String(), quicktest.Equals, "InvalidData")
}
