package actor

// Clock reports game time in seconds.
type Clock interface {
	Now() float64
	Delta() float64
}

// FixedClock advances by a constant step each tick. The host owns one and
// advances it once per frame; tests advance it by hand.
type FixedClock struct {
	now  float64
	step float64
}

func NewFixedClock(tps int) *FixedClock {
	if tps <= 0 {
		tps = 60
	}
	return &FixedClock{step: 1 / float64(tps)}
}

func (c *FixedClock) Now() float64   { return c.now }
func (c *FixedClock) Delta() float64 { return c.step }

func (c *FixedClock) Advance() { c.now += c.step }

// countdownEpsilon absorbs the rounding a countdown picks up from repeated
// Delta subtraction, so a duration of n ticks ends on tick n.
const countdownEpsilon = 1e-9

// Countdown is a duration in seconds ticked down by clock deltas.
type Countdown struct {
	remaining float64
}

func (c *Countdown) Start(duration float64) { c.remaining = duration }

func (c *Countdown) Tick(delta float64) { c.remaining -= delta }

// Done reports whether the countdown has reached zero.
func (c Countdown) Done() bool { return c.remaining <= countdownEpsilon }

// Overrun reports whether the countdown has gone past zero.
func (c Countdown) Overrun() bool { return c.remaining < -countdownEpsilon }
