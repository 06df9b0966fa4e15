// Package clock provides the time source the vesting engine reads.
// Readings are whole seconds since an arbitrary epoch; only differences
// between readings are meaningful.
package clock

import (
	"math"
	"time"
)

// Clock abstracts "now" to allow deterministic testing and independent
// simulations. Implementations must return non-decreasing readings for the
// vesting engine's guarantees to hold.
type Clock interface {
	Now() uint64
}

// Logical is an explicitly driven clock: it never ticks on its own and
// moves only when the caller advances it. Each simulation should own its
// own instance so that parallel simulations cannot contaminate each other.
// The zero value reads 0 and is ready to use.
type Logical struct {
	t uint64
}

// NewLogical returns a Logical clock reading 0.
func NewLogical() *Logical {
	return &Logical{}
}

// Now returns the current reading. It has no side effects.
func (c *Logical) Now() uint64 {
	return c.t
}

// Advance moves the clock forward by secs. The reading saturates at the
// maximum uint64 value rather than wrapping around.
func (c *Logical) Advance(secs uint64) {
	if c.t > math.MaxUint64-secs {
		c.t = math.MaxUint64
		return
	}
	c.t += secs
}

// Reset unconditionally sets the reading, possibly moving it backward.
// It exists for test and simulation setup; an account observing backward
// time is outside its contract.
func (c *Logical) Reset(ts uint64) {
	c.t = ts
}

// System adapts the wall clock to the Clock interface, reading Unix
// seconds. Use Logical instead wherever determinism matters.
type System struct{}

// Now returns the current Unix time in seconds.
func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}
