package signing

import (
	"sync/atomic"
	"time"
)

// ISO8601 is the timestamp layout used in signed request headers.
const ISO8601 = "2006-01-02T15:04:05.000Z"

// Clock reports the current time adjusted by an offset, usually the
// difference between server and local time.
type Clock struct {
	offset atomic.Int64
	now    func() time.Time
}

// NewClock returns a Clock backed by time.Now.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewFixedClock returns a Clock that always reports t plus its offset.
func NewFixedClock(t time.Time) *Clock {
	return &Clock{now: func() time.Time { return t }}
}

// SetOffset sets the adjustment applied to the local time.
func (c *Clock) SetOffset(offset time.Duration) {
	c.offset.Store(int64(offset))
}

// Offset returns the current adjustment.
func (c *Clock) Offset() time.Duration {
	return time.Duration(c.offset.Load())
}

// Now returns the adjusted time.
func (c *Clock) Now() time.Time {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	return now().Add(c.Offset())
}

// ISOString returns the adjusted time in UTC, millisecond precision.
func (c *Clock) ISOString() string {
	return c.Now().UTC().Format(ISO8601)
}
