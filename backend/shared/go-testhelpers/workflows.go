package testhelpers

import (
	"time"
)

// WaitFor polls cond until it holds or maxWait elapses, then fails the test.
func (h *TestHelper) WaitFor(what string, maxWait time.Duration, cond func() bool) {
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	h.T.Fatalf("%s did not happen within %v", what, maxWait)
}
