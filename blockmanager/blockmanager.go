// Package blockmanager receives a high-level MotionArgs command, validates
// and splits it into block-sized sub-moves via kinematics, and feeds them
// into the planner.
package blockmanager

import (
	"github.com/pkg/errors"

	"motioncore/axes"
	"motioncore/block"
	"motioncore/kinematics"
	"motioncore/motionargs"
	"motioncore/motordrv"
	"motioncore/planner"
	"motioncore/thermal"
)

// splitJob is the in-progress state of a split move being pumped into the
// planner a sub-block at a time. A non-nil job makes IsBusy true.
type splitJob struct {
	subBlockDestSteps  []axes.Steps
	requestedSpeedMMPS float32
	moveDistPerBlockMM float32
	nextIdx            int
}

// BlockManager is the splitter/add-block entry point of the motion core.
type BlockManager struct {
	Kinematics kinematics.Kinematics
	Params     *axes.AxesParams
	State      *axes.AxesState
	Planner    *planner.Planner
	Config     motionargs.Config

	// MotorCurrent queues motorCurrent updates from incoming commands for
	// the main loop to drain into the stepper drivers' IHOLD_IRUN
	// registers; the tick path never touches it.
	MotorCurrent motordrv.Queue

	// Thermal, when non-nil, rejects extrude moves below a minimum hotend
	// temperature.
	Thermal *thermal.Guard

	job *splitJob
}

// NewBlockManager builds a BlockManager wired to its collaborators.
func NewBlockManager(kin kinematics.Kinematics, params *axes.AxesParams, state *axes.AxesState, pl *planner.Planner, cfg motionargs.Config) *BlockManager {
	return &BlockManager{Kinematics: kin, Params: params, State: state, Planner: pl, Config: cfg}
}

// queueMotorCurrent enqueues a current-register update for every axis the
// command specifies (or the master axis, if none are), when the command
// carries a non-zero motorCurrent.
func (bm *BlockManager) queueMotorCurrent(args motionargs.MotionArgs) {
	if args.MotorCurrentA <= 0 {
		return
	}
	any := false
	for i := 0; i < axes.MaxAxes && i < len(bm.Params.Axes); i++ {
		if args.AxesSpecified.Get(i) {
			bm.MotorCurrent.Push(motordrv.CurrentRequest{AxisIdx: i, Amps: float32(args.MotorCurrentA)})
			any = true
		}
	}
	if !any && bm.Params.MasterAxisIdx < len(bm.Params.Axes) {
		bm.MotorCurrent.Push(motordrv.CurrentRequest{AxisIdx: bm.Params.MasterAxisIdx, Amps: float32(args.MotorCurrentA)})
	}
}

// IsBusy reports whether a split is still being pumped into the planner.
func (bm *BlockManager) IsBusy() bool {
	return bm.job != nil
}

// SetCurPositionAsOrigin zeroes AxesState at the current step position for
// every axis, marking the origin valid without commanding any motion —
// the equivalent of a "home switch found" declaration from the caller.
func (bm *BlockManager) SetCurPositionAsOrigin() {
	for i := 0; i < axes.MaxAxes; i++ {
		bm.State.SetOrigin(i)
	}
}

// splitCount computes the number of sub-blocks a move of moveDistMM should
// be divided into (spec.md §4.2.1).
func (bm *BlockManager) splitCount(moveDistMM float32, dontSplit bool) int {
	if bm.Params.MaxBlockDistMM <= 0.01 || dontSplit {
		return 1
	}
	n := int(ceilF(moveDistMM / bm.Params.MaxBlockDistMM))
	if n < 1 {
		n = 1
	}
	return n
}

func ceilF(v float32) float32 {
	i := float32(int32(v))
	if v > i {
		return i + 1
	}
	return i
}

// AddRampedBlock validates args against kinematics and bounds, splits the
// move per spec.md §4.2.1/§4.2.2, and queues the resulting sub-blocks to be
// fed into the planner by PumpBlockSplitter.
func (bm *BlockManager) AddRampedBlock(args motionargs.MotionArgs) (motionargs.RetCode, error) {
	if bm.IsBusy() {
		return motionargs.RetBusy, ErrBusy
	}
	if bm.Kinematics == nil {
		return motionargs.RetInvalidObject, ErrNoKinematics
	}
	if bm.Config.HomeBeforeMove && !bm.State.UnitsFromOriginValid.Get(0) {
		return motionargs.RetInvalidOperation, ErrNotHomed
	}
	if err := bm.Thermal.CheckExtrude(args.ExtrudeDistMM); err != nil {
		return motionargs.RetInvalidOperation, err
	}

	bm.queueMotorCurrent(args)

	moveDistMM := bm.Kinematics.PreProcessCoords(&args, bm.State, bm.Params)
	if moveDistMM < block.MinimumMoveDistMM {
		return motionargs.RetOk, nil // NoMovement: silently dropped, success
	}

	numBlocks := bm.splitCount(moveDistMM, args.DontSplit)

	finalTarget := args.TargetPositions
	startSteps := bm.State.StepsFromOrigin

	endSteps, ok := bm.Kinematics.PtToActuator(finalTarget, bm.State, bm.Params, args.OutOfBounds)
	if !ok && bm.Kinematics.SupportsAlternateSolutions() {
		bm.Kinematics.SetPreferAlternateSolution(true)
		endSteps, ok = bm.Kinematics.PtToActuator(finalTarget, bm.State, bm.Params, args.OutOfBounds)
		bm.Kinematics.SetPreferAlternateSolution(false)
	}
	if !ok {
		return motionargs.RetInvalidData, errors.Wrapf(ErrOutOfBounds, "final target rejected")
	}

	if numBlocks > 1 && bm.Kinematics.SupportsAlternateSolutions() {
		if !bm.boundaryValidationSatisfied(startSteps, endSteps) {
			numBlocks = 1
		}
	}

	destList := bm.buildSubBlockDests(startSteps, endSteps, finalTarget, numBlocks)

	speed := bm.resolveSpeed(args, moveDistMM)

	bm.job = &splitJob{
		subBlockDestSteps:  destList,
		requestedSpeedMMPS: speed,
		moveDistPerBlockMM: moveDistMM / float32(numBlocks),
	}

	return motionargs.RetOk, nil
}

// boundaryValidationSatisfied converts the start and end step counts of a
// multi-block split to points and back through the inverse kinematics with
// the Discard policy, and reports whether both are reachable. No distance
// from the workspace boundary is measured, and intermediate points are not
// checked. AddRampedBlock calls it only for geometries with alternate
// solutions.
func (bm *BlockManager) boundaryValidationSatisfied(startSteps, endSteps axes.Steps) bool {
	startPt, okStart := bm.Kinematics.ActuatorToPt(startSteps, bm.Params)
	endPt, okEnd := bm.Kinematics.ActuatorToPt(endSteps, bm.Params)
	if !okStart || !okEnd {
		return false
	}
	_, validStart := bm.Kinematics.PtToActuator(startPt, bm.State, bm.Params, motionargs.OutOfBoundsDiscard)
	_, validEnd := bm.Kinematics.PtToActuator(endPt, bm.State, bm.Params, motionargs.OutOfBoundsDiscard)
	return validStart && validEnd
}

// buildSubBlockDests precomputes the N sub-block destination step coords.
// Intermediate points are linearly interpolated in actuator (step) space
// to avoid repeated IK calls; the final sub-block always uses the exact
// endSteps from IK, never an interpolated value, to prevent cumulative
// drift.
func (bm *BlockManager) buildSubBlockDests(startSteps, endSteps axes.Steps, finalTarget axes.Positions, numBlocks int) []axes.Steps {
	dests := make([]axes.Steps, numBlocks)
	for b := 0; b < numBlocks; b++ {
		if b == numBlocks-1 {
			dests[b] = endSteps
			continue
		}
		frac := float32(b+1) / float32(numBlocks)
		var d axes.Steps
		for i := 0; i < axes.MaxAxes; i++ {
			start := float32(startSteps.Get(i))
			end := float32(endSteps.Get(i))
			d.Set(i, int32(round32(start+(end-start)*frac)))
		}
		dests[b] = d
	}
	return dests
}

func round32(v float32) float32 {
	if v < 0 {
		return -round32(-v)
	}
	return float32(int32(v + 0.5))
}

// resolveSpeed resolves the command's requested speed into mm/s, capped by
// the dominant axis's configured maximum.
func (bm *BlockManager) resolveSpeed(args motionargs.MotionArgs, moveDistMM float32) float32 {
	maxSpeed := float32(0)
	if bm.Params.MasterAxisIdx < len(bm.Params.Axes) {
		maxSpeed = bm.Params.Axes[bm.Params.MasterAxisIdx].MaxSpeedUps
	}
	if !args.HasSpeed {
		return maxSpeed
	}
	speed := float32(args.RequestedUps)
	if maxSpeed > 0 && speed > maxSpeed {
		speed = maxSpeed
	}
	return speed
}

// PumpBlockSplitter feeds queued sub-blocks into the planner while the
// pipeline has room, one per call. Returns true while a split is still in
// progress.
func (bm *BlockManager) PumpBlockSplitter() (bool, error) {
	if bm.job == nil {
		return false, nil
	}
	if !bm.Planner.Pipeline.CanAccept() {
		return true, nil
	}

	dest := bm.job.subBlockDestSteps[bm.job.nextIdx]
	moreComing := bm.job.nextIdx < len(bm.job.subBlockDestSteps)-1

	_, err := bm.Planner.MoveToRamped(dest, bm.State, bm.job.moveDistPerBlockMM, bm.job.requestedSpeedMMPS, moreComing)
	if err != nil {
		bm.job = nil
		return false, err
	}

	bm.job.nextIdx++
	if bm.job.nextIdx >= len(bm.job.subBlockDestSteps) {
		bm.job = nil
		return false, nil
	}
	return true, nil
}

// AddNonRampedBlock enqueues a constant-rate block (homing) directly,
// bypassing the splitter and the junction-deviation planner entirely.
func (bm *BlockManager) AddNonRampedBlock(args motionargs.MotionArgs) (motionargs.RetCode, error) {
	if bm.Kinematics == nil {
		return motionargs.RetInvalidObject, ErrNoKinematics
	}

	bm.queueMotorCurrent(args)

	var destSteps axes.Steps
	for i := 0; i < axes.MaxAxes; i++ {
		if !args.AxesSpecified.Get(i) {
			destSteps.Set(i, bm.State.StepsFromOrigin.Get(i))
			continue
		}
		target := int32(args.TargetPositions.Get(i))
		if args.Mode.IsRelative() {
			destSteps.Set(i, bm.State.StepsFromOrigin.Get(i)+target)
		} else {
			destSteps.Set(i, target)
		}
	}

	speed := bm.lowestAxisMaxStepRateMMPS()
	if args.HasSpeed {
		speed = float32(args.RequestedUps)
	}

	ok, err := bm.Planner.MoveToNonRamped(destSteps, bm.State, speed, args.EndstopChecks)
	if err != nil {
		return motionargs.RetInvalidData, err
	}
	if !ok {
		return motionargs.RetCannotStart, ErrNoMovement
	}
	return motionargs.RetOk, nil
}

// lowestAxisMaxStepRateMMPS returns the slowest configured axis max speed,
// used as the default non-ramped feed rate when the caller specifies none.
func (bm *BlockManager) lowestAxisMaxStepRateMMPS() float32 {
	lowest := float32(0)
	for i := range bm.Params.Axes {
		v := bm.Params.Axes[i].MaxSpeedUps
		if lowest == 0 || (v > 0 && v < lowest) {
			lowest = v
		}
	}
	return lowest
}
