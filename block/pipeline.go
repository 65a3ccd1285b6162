package block

// DefaultPipelineCapacity is the default ring-buffer capacity (spec.md
// §6.4 ramp.pipelineLen).
const DefaultPipelineCapacity = 100

// Pipeline is a fixed-capacity FIFO ring buffer of MotionBlock, built for
// a single producer (the planner, running on the main loop) and a single
// consumer (the ramp generator, running in the tick/ISR context). One slot
// is sacrificed to distinguish full from empty so no separate atomic count
// is needed on the hot path.
type Pipeline struct {
	blocks []MotionBlock
	put    int
	get    int
}

// NewPipeline builds a Pipeline with the given capacity. A capacity of 0
// uses DefaultPipelineCapacity.
func NewPipeline(capacity int) *Pipeline {
	if capacity <= 0 {
		capacity = DefaultPipelineCapacity
	}
	return &Pipeline{blocks: make([]MotionBlock, capacity+1)}
}

func (p *Pipeline) cap() int { return len(p.blocks) }

// CanAccept reports whether the producer may Add another block.
func (p *Pipeline) CanAccept() bool {
	return p.Count() < p.cap()-1
}

// Add enqueues block at the tail. The caller must have checked CanAccept;
// Add drops the block and returns false if the pipeline is full, matching
// the producer-side contract (callers always gate on CanAccept first).
func (p *Pipeline) Add(blk MotionBlock) bool {
	if !p.CanAccept() {
		return false
	}
	p.blocks[p.put] = blk
	p.put = (p.put + 1) % p.cap()
	return true
}

// PeekGet returns a pointer to the head block without dequeueing it, or
// nil if the pipeline is empty. The returned pointer aliases internal
// storage and is only valid for the consumer to mutate until the next
// Remove.
func (p *Pipeline) PeekGet() *MotionBlock {
	if p.Count() == 0 {
		return nil
	}
	return &p.blocks[p.get]
}

// Remove dequeues the head block. Called only by the consumer when a block
// completes or is cancelled.
func (p *Pipeline) Remove() {
	if p.Count() == 0 {
		return
	}
	p.get = (p.get + 1) % p.cap()
}

// PeekNthFromPut returns a pointer to the nth block counting backward from
// the most recently added (n=0 is the most recent), or nil if out of
// range. Used by planner backward look-ahead.
func (p *Pipeline) PeekNthFromPut(n int) *MotionBlock {
	count := p.Count()
	if n < 0 || n >= count {
		return nil
	}
	idx := (p.put - 1 - n + p.cap()*2) % p.cap()
	return &p.blocks[idx]
}

// PeekNthFromGet returns a pointer to the nth block counting forward from
// the head (n=0 is the head), or nil if out of range. Used by planner
// forward look-ahead.
func (p *Pipeline) PeekNthFromGet(n int) *MotionBlock {
	count := p.Count()
	if n < 0 || n >= count {
		return nil
	}
	idx := (p.get + n) % p.cap()
	return &p.blocks[idx]
}

// Count returns the number of queued blocks.
func (p *Pipeline) Count() int {
	return (p.put - p.get + p.cap()) % p.cap()
}

// Remaining returns the number of additional blocks that may be Added
// before the pipeline is full.
func (p *Pipeline) Remaining() int {
	return p.cap() - 1 - p.Count()
}
