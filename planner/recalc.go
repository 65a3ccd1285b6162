package planner

import (
	"github.com/orsinium-labs/tinymath"

	"motioncore/block"
)

// RecalculatePipeline runs the backward pass (tail towards head, fixing
// each block's exit speed to the one following it and deriving the
// fastest achievable entry speed), then the forward pass (earliest
// reprocessed block towards the tail, deriving the fastest achievable
// exit speed), then commits every reprocessed block by computing its
// fixed-point ramp parameters and, usually, marking it executable
// (spec.md §4.3.2).
func (p *Planner) RecalculatePipeline() {
	count := p.Pipeline.Count()
	if count == 0 {
		return
	}

	maxAccel := p.dominantMaxAccel()

	earliestVisited := 0
	followingEntry := float32(0)

	for n := 0; n < count; n++ {
		blk := p.Pipeline.PeekNthFromPut(n)
		if blk == nil {
			break
		}
		if blk.IsExecuting {
			break
		}
		if n >= 1 && blk.EntrySpeedMMPS == blk.MaxEntrySpeedMMPS && blk.CanExecute() {
			break
		}

		blk.ExitSpeedMMPS = followingEntry

		dist := blockDistMM(blk)
		maxAchievableEntry := tinymath.Sqrt(maxF(0, blk.ExitSpeedMMPS*blk.ExitSpeedMMPS+2*maxAccel*dist))
		blk.EntrySpeedMMPS = minF(maxAchievableEntry, blk.MaxEntrySpeedMMPS)

		followingEntry = blk.EntrySpeedMMPS
		earliestVisited = n
	}

	// Forward pass: from the earliest reprocessed block (furthest from the
	// tail in PeekNthFromPut indexing) towards the tail.
	previousExit := float32(0)
	if startBlk := p.Pipeline.PeekNthFromPut(earliestVisited); startBlk != nil {
		previousExit = startBlk.EntrySpeedMMPS
	}

	for n := earliestVisited; n >= 0; n-- {
		blk := p.Pipeline.PeekNthFromPut(n)
		if blk == nil {
			continue
		}

		blk.EntrySpeedMMPS = previousExit

		dist := blockDistMM(blk)
		maxAchievableExit := tinymath.Sqrt(maxF(0, blk.EntrySpeedMMPS*blk.EntrySpeedMMPS+2*maxAccel*dist))
		if maxAchievableExit < blk.ExitSpeedMMPS {
			blk.ExitSpeedMMPS = maxAchievableExit
		}

		previousExit = blk.ExitSpeedMMPS

		p.commitBlock(blk, n, earliestVisited)
	}
}

// commitBlock prepares the fixed-point ramp parameters for blk and marks
// it executable, unless it is mid-split (BlockIsFollowed) and is the only
// block currently in the pipeline — in that case the commit is deferred so
// the next sub-block can be folded into the same acceleration run.
func (p *Planner) commitBlock(blk *block.MotionBlock, n, earliestVisited int) {
	p.PrepareForStepping(blk)

	if blk.BlockIsFollowed && p.Pipeline.Count() == 1 {
		return
	}
	blk.SetCanExecute(true)
}

// blockDistMM returns the block's move distance over the primary axes in
// mm, used by the look-ahead v²=u²+2aS algebra.
func blockDistMM(blk *block.MotionBlock) float32 {
	return blk.MoveDistPrimaryAxesMM
}
