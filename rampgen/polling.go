package rampgen

// RunPolling drives Tick from a software loop at StepGenPeriodNs cadence,
// for targets with no hardware tick timer available. Semantics are
// identical to the interrupt-driven variant; only the timing is
// approximate (spec.md §5). stop, when non-nil, is polled once per
// iteration and ends the loop when it returns true.
func (g *Generator) RunPolling(clock Clock, stop func() bool) {
	period := uint64(g.StepGenPeriodNs)
	next := clock.NowNs() + period

	for stop == nil || !stop() {
		now := clock.NowNs()
		if now < next {
			clock.SleepNs(next - now)
		}
		g.Tick()
		next += period
	}
}
