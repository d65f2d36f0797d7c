package domain

import "github.com/jonboulle/clockwork"

// clock is the package time source used for GeneratedAt stamps. Tests swap
// in a fake via SetClock for deterministic payloads.
var clock = clockwork.NewRealClock()

// SetClock replaces the time source. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
