package motordrv_test

import (
	"testing"

	"github.com/frankban/quicktest"

	"motioncore/motordrv"
)

func TestQueueCoalescesPerAxis(t *testing.T) {
	c := quicktest.New(t)

	var q motordrv.Queue
	q.Push(motordrv.CurrentRequest{AxisIdx: 0, Amps: 1.0})
	q.Push(motordrv.CurrentRequest{AxisIdx: 1, Amps: 0.5})
	q.Push(motordrv.CurrentRequest{AxisIdx: 0, Amps: 2.0})

	c.Assert(q.Len(), quicktest.Equals, 2)

	first, ok := q.Pop()
	c.Assert(ok, quicktest.IsTrue)
	c.Assert(first.AxisIdx, quicktest.Equals, 0)
	c.Assert(first.Amps, quicktest.Equals, float32(2.0))

	second, ok := q.Pop()
	c.Assert(ok, quicktest.IsTrue)
	c.Assert(second.AxisIdx, quicktest.Equals, 1)

	_, ok = q.Pop()
	c.Assert(ok, quicktest.IsFalse)
}

func TestIholdIrunFieldsScalesWithRunCurrent(t *testing.T) {
	c := quicktest.New(t)

	ihold, irun, delay := motordrv.IholdIrunFields(1.5, 3.0)
	c.Assert(irun > 0, quicktest.IsTrue)
	c.Assert(irun <= 31, quicktest.IsTrue)
	c.Assert(ihold <= irun, quicktest.IsTrue)
	c.Assert(delay, quicktest.Equals, uint32(7))

	full, _, _ := motordrv.IholdIrunFields(3.0, 3.0)
	c.Assert(full > irun || full == 31, quicktest.IsTrue)
}

func TestIholdIrunFieldsZeroCeiling(t *testing.T) {
	c := quicktest.New(t)

	ihold, irun, delay := motordrv.IholdIrunFields(1.0, 0)
	c.Assert(ihold, quicktest.Equals, uint32(0))
	c.Assert(irun, quicktest.Equals, uint32(0))
	c.Assert(delay, quicktest.Equals, uint32(7))
}
