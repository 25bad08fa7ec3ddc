package composite

import (
	"fmt"
	"strings"
)

// CancelPolicy decides what happens to a handle when it leaves a Group through Group.Remove or Group.Clear, or when
// it is added to a Group that has already been disposed.
type CancelPolicy int

const (
	// PolicyKill kills the handle without invoking its completion callback. This is the default.
	PolicyKill CancelPolicy = iota
	// PolicyKillWithCompleteCallback kills the handle but still invokes its completion callback.
	PolicyKillWithCompleteCallback
	// PolicyComplete forces the handle to its end state without invoking chained callbacks.
	PolicyComplete
	// PolicyCompleteWithSequenceCallback forces the handle to its end state and invokes chained callbacks.
	PolicyCompleteWithSequenceCallback
)

var policyNames = [...]string{
	PolicyKill:                         "kill",
	PolicyKillWithCompleteCallback:     "kill_with_complete_callback",
	PolicyComplete:                     "complete",
	PolicyCompleteWithSequenceCallback: "complete_with_sequence_callback",
}

func (p CancelPolicy) valid() bool {
	return p >= PolicyKill && p <= PolicyCompleteWithSequenceCallback
}

func (p CancelPolicy) String() string {
	if !p.valid() {
		return fmt.Sprintf("CancelPolicy(%d)", int(p))
	}
	return policyNames[p]
}

// ParsePolicy returns the CancelPolicy with the given name, as returned by CancelPolicy.String.
// Matching is case-insensitive, "-" and "_" are interchangeable.
func ParsePolicy(s string) (CancelPolicy, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for p, n := range policyNames {
		if n == name {
			return CancelPolicy(p), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown cancel policy \"%s\"", ErrInvalidArgument, s)
}

// apply runs the cancel action of p on h. Callers must not hold any group lock.
func (p CancelPolicy) apply(h Handle) {
	switch p {
	case PolicyKill:
		h.Kill(false)
	case PolicyKillWithCompleteCallback:
		h.Kill(true)
	case PolicyComplete:
		h.Complete(false)
	case PolicyCompleteWithSequenceCallback:
		h.Complete(true)
	default:
		panic(&InvalidPolicyError{Policy: p})
	}
}
