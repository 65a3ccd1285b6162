package block_test

import (
	"testing"

	"github.com/frankban/quicktest"

	"motioncore/axes"
	"motioncore/block"
)

func TestPipelineAddAndRemoveFIFO(t *testing.T) {
	c := quicktest.New(t)

	p := block.NewPipeline(4)
	c.Assert(p.CanAccept(), quicktest.IsTrue)
	c.Assert(p.Count(), quicktest.Equals, 0)

	for i := 0; i < 4; i++ {
		blk := block.MotionBlock{}
		blk.MotionTrackingIdx = uint32(i)
		ok := p.Add(blk)
		c.Assert(ok, quicktest.IsTrue)
	}

	c.Assert(p.Count(), quicktest.Equals, 4)
	c.Assert(p.CanAccept(), quicktest.IsFalse)

	head := p.PeekGet()
	c.Assert(head, quicktest.IsNotNil)
	c.Assert(head.MotionTrackingIdx, quicktest.Equals, uint32(0))

	p.Remove()
	c.Assert(p.Count(), quicktest.Equals, 3)
	c.Assert(p.CanAccept(), quicktest.IsTrue)

	head = p.PeekGet()
	c.Assert(head.MotionTrackingIdx, quicktest.Equals, uint32(1))
}

func TestPipelineFullRejectsAdd(t *testing.T) {
	c := quicktest.New(t)

	p := block.NewPipeline(2)
	c.Assert(p.Add(block.MotionBlock{}), quicktest.IsTrue)
	c.Assert(p.Add(block.MotionBlock{}), quicktest.IsTrue)
	c.Assert(p.CanAccept(), quicktest.IsFalse)
	c.Assert(p.Add(block.MotionBlock{}), quicktest.IsFalse)
}

func TestPipelinePeekNthFromPutAndGet(t *testing.T) {
	c := quicktest.New(t)

	p := block.NewPipeline(4)
	for i := 0; i < 3; i++ {
		blk := block.MotionBlock{}
		blk.MotionTrackingIdx = uint32(i)
		c.Assert(p.Add(blk), quicktest.IsTrue)
	}

	// most recently put is idx 2.
	c.Assert(p.PeekNthFromPut(0).MotionTrackingIdx, quicktest.Equals, uint32(2))
	c.Assert(p.PeekNthFromPut(2).MotionTrackingIdx, quicktest.Equals, uint32(0))
	c.Assert(p.PeekNthFromPut(3), quicktest.IsNil)

	c.Assert(p.PeekNthFromGet(0).MotionTrackingIdx, quicktest.Equals, uint32(0))
	c.Assert(p.PeekNthFromGet(2).MotionTrackingIdx, quicktest.Equals, uint32(2))
	c.Assert(p.PeekNthFromGet(3), quicktest.IsNil)
}

func TestPipelineEmptyPeekAndRemoveAreSafe(t *testing.T) {
	c := quicktest.New(t)

	p := block.NewPipeline(2)
	c.Assert(p.PeekGet(), quicktest.IsNil)
	p.Remove() // must not panic
	c.Assert(p.Count(), quicktest.Equals, 0)
}

func TestMotionBlockCanExecutePublicationFence(t *testing.T) {
	c := quicktest.New(t)

	var blk block.MotionBlock
	c.Assert(blk.CanExecute(), quicktest.IsFalse)

	blk.StepsTotalMaybeNeg = axes.Steps{100, 0, 0}
	blk.SetCanExecute(true)
	c.Assert(blk.CanExecute(), quicktest.IsTrue)
	c.Assert(blk.AbsStepsTotal(0), quicktest.Equals, uint32(100))
}

func TestMotionBlockDirection(t *testing.T) {
	c := quicktest.New(t)

	blk := block.MotionBlock{StepsTotalMaybeNeg: axes.Steps{-5, 0, 5}}
	c.Assert(blk.Direction(0), quicktest.Equals, int32(-1))
	c.Assert(blk.Direction(1), quicktest.Equals, int32(0))
	c.Assert(blk.Direction(2), quicktest.Equals, int32(1))
}
