// Package clock provides the real-time implementation of ports.Clock.
package clock

import (
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
)

var _ ports.Clock = System{}

// System is the wall-clock implementation used outside tests.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}
