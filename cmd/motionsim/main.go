// Command motionsim runs the motion-control core against no hardware at
// all: a fake GPIO records every step/dir toggle and the tick loop is
// driven synchronously, letting the end-to-end scenarios run in a few
// milliseconds on a host machine.
package main

import (
	"fmt"

	"motioncore/axes"
	"motioncore/block"
	"motioncore/blockmanager"
	"motioncore/kinematics"
	"motioncore/motionargs"
	"motioncore/planner"
	"motioncore/rampgen"
)

// recordingGPIO counts step pulses and tracks the last commanded direction
// per axis, enough to verify axis_total_steps without real pins.
type recordingGPIO struct {
	steps [axes.MaxAxes]int
	dir   [axes.MaxAxes]bool
	high  [axes.MaxAxes]bool
}

func (g *recordingGPIO) SetStep(axis int, high bool) {
	if high && !g.high[axis] {
		g.steps[axis]++
	}
	g.high[axis] = high
}

func (g *recordingGPIO) SetDir(axis int, positive bool) { g.dir[axis] = positive }

type noEndstops struct{}

func (noEndstops) Read(axis int, dir int) bool { return false }

// rig bundles one scenario's worth of motion-control stack.
type rig struct {
	state *axes.AxesState
	pipe  *block.Pipeline
	bm    *blockmanager.BlockManager
	gen   *rampgen.Generator
	gpio  *recordingGPIO
}

func newRig(kin kinematics.Kinematics, axisParams []axes.AxisParams, maxBlockDistMM, maxJunctionDeviationMM float32) *rig {
	params := axes.NewAxesParams(axisParams, maxBlockDistMM, maxJunctionDeviationMM)
	state := &axes.AxesState{}
	pipe := block.NewPipeline(block.DefaultPipelineCapacity)
	stepGenPeriodNs := uint32(20_000)
	pl := planner.NewPlanner(pipe, params, stepGenPeriodNs)
	bm := blockmanager.NewBlockManager(kin, params, state, pl, motionargs.DefaultConfig())
	gpio := &recordingGPIO{}
	gen := rampgen.NewGenerator(pipe, gpio, noEndstops{}, stepGenPeriodNs)
	return &rig{state: state, pipe: pipe, bm: bm, gen: gen, gpio: gpio}
}

// runToCompletion submits one command, pumps the splitter and ticks the
// generator until the pipeline drains.
func (r *rig) runToCompletion(args motionargs.MotionArgs) (motionargs.RetCode, error) {
	var ret motionargs.RetCode
	var err error
	if args.Mode.IsNoRamp() {
		ret, err = r.bm.AddNonRampedBlock(args)
	} else {
		ret, err = r.bm.AddRampedBlock(args)
	}
	if err != nil {
		return ret, err
	}

	const maxTicks = 10_000_000
	for i := 0; i < maxTicks; i++ {
		if _, err := r.bm.PumpBlockSplitter(); err != nil {
			return ret, err
		}
		if r.pipe.Count() == 0 && !r.bm.IsBusy() {
			break
		}
		r.gen.Tick()
	}
	return ret, nil
}

func xyAxisParams(maxSpeed, maxAccel, maxVal float32) []axes.AxisParams {
	mk := func(dominant bool) axes.AxisParams {
		return axes.NewAxisParams(axes.AxisParams{
			StepsPerRot: 1000, UnitsPerRot: 1, MaxSpeedUps: maxSpeed, MaxAccelUps2: maxAccel,
			IsPrimaryAxis: true, IsDominantAxis: dominant,
			MinValValid: true, MinVal: -maxVal, MaxValValid: true, MaxVal: maxVal,
		})
	}
	return []axes.AxisParams{mk(true), mk(false)}
}

func scenarioS1S2S3(maxVal float32) {
	r := newRig(kinematics.XYZ{}, xyAxisParams(100, 100, maxVal), 0, 0.05)

	// S1
	args := motionargs.MotionArgs{Mode: motionargs.ModeAbs, HasSpeed: true, RequestedUps: 100}
	args.TargetPositions.Set(0, 10)
	args.TargetPositions.Set(1, 0)
	args.AxesSpecified.Set(0, true)
	args.AxesSpecified.Set(1, true)
	if _, err := r.runToCompletion(args); err != nil {
		fmt.Println("S1 failed:", err)
		return
	}
	fmt.Printf("S1: axis_total_steps=(%d,%d) units_from_origin=(%.2f,%.2f) pipeline_count=%d\n",
		r.gen.AxisTotalSteps(0), r.gen.AxisTotalSteps(1),
		r.state.UnitsFromOrigin.Get(0), r.state.UnitsFromOrigin.Get(1), r.pipe.Count())

	// S2
	args = motionargs.MotionArgs{Mode: motionargs.ModeAbs}
	args.TargetPositions.Set(0, 10)
	args.TargetPositions.Set(1, 10)
	args.AxesSpecified.Set(0, true)
	args.AxesSpecified.Set(1, true)
	if _, err := r.runToCompletion(args); err != nil {
		fmt.Println("S2 failed:", err)
		return
	}
	fmt.Printf("S2: axis_total_steps=(%d,%d)\n", r.gen.AxisTotalSteps(0), r.gen.AxisTotalSteps(1))

	// S3: two back-to-back same-direction moves, more=true on the first.
	r = newRig(kinematics.XYZ{}, xyAxisParams(100, 100, maxVal), 0, 0.05)
	first := motionargs.MotionArgs{Mode: motionargs.ModeAbs, HasSpeed: true, RequestedUps: 100, MoreMovesComing: true}
	first.TargetPositions.Set(0, 10)
	first.AxesSpecified.Set(0, true)
	if _, err := r.bm.AddRampedBlock(first); err != nil {
		fmt.Println("S3 first move failed:", err)
		return
	}
	if _, err := r.bm.PumpBlockSplitter(); err != nil {
		fmt.Println("S3 first move failed:", err)
		return
	}
	second := motionargs.MotionArgs{Mode: motionargs.ModeAbs, HasSpeed: true, RequestedUps: 100}
	second.TargetPositions.Set(0, 20)
	second.AxesSpecified.Set(0, true)
	if _, err := r.runToCompletion(second); err != nil {
		fmt.Println("S3 second move failed:", err)
		return
	}
	fmt.Printf("S3: axis_total_steps=(%d,%d)\n", r.gen.AxisTotalSteps(0), r.gen.AxisTotalSteps(1))
}

func scenarioS4() {
	r := newRig(kinematics.XYZ{}, xyAxisParams(100, 100, 2000), 0, 0.05)

	args := motionargs.MotionArgs{Mode: motionargs.ModePosAbsStepsNoRamp, HasSpeed: true, RequestedUps: 200}
	args.TargetPositions.Set(0, 1000)
	args.AxesSpecified.Set(0, true)

	if _, err := r.runToCompletion(args); err != nil {
		fmt.Println("S4 failed:", err)
		return
	}
	fmt.Printf("S4: axis_total_steps=(%d,%d)\n", r.gen.AxisTotalSteps(0), r.gen.AxisTotalSteps(1))
}

func scenarioS5() {
	scara := kinematics.NewSingleArmSCARA(100, 100, 200, 0)
	r := newRig(scara, xyAxisParams(100, 100, 400), 0, 0.05)
	r.state.StepsFromOrigin.Set(0, 200*1000/360)
	r.state.UnitsFromOriginValid.Set(0, true)
	r.state.UnitsFromOriginValid.Set(1, true)

	args := motionargs.MotionArgs{Mode: motionargs.ModeAbs, HasSpeed: true, RequestedUps: 100}
	args.TargetPositions.Set(0, 141.42)
	args.TargetPositions.Set(1, 141.42)
	args.AxesSpecified.Set(0, true)
	args.AxesSpecified.Set(1, true)

	ret, err := r.runToCompletion(args)
	fmt.Printf("S5: ret=%s err=%v axis_total_steps=(%d,%d)\n", ret, err, r.gen.AxisTotalSteps(0), r.gen.AxisTotalSteps(1))
}

func scenarioS6() {
	r := newRig(kinematics.XYZ{}, xyAxisParams(100, 100, 100), 0, 0.05)

	args := motionargs.MotionArgs{Mode: motionargs.ModeAbs, OutOfBounds: motionargs.OutOfBoundsDiscard}
	args.TargetPositions.Set(0, 300)
	args.AxesSpecified.Set(0, true)

	ret, err := r.bm.AddRampedBlock(args)
	fmt.Printf("S6: ret=%s err=%v pipeline_count=%d\n", ret, err, r.pipe.Count())
}

func main() {
	scenarioS1S2S3(100)
	scenarioS4()
	scenarioS5()
	scenarioS6()
}
