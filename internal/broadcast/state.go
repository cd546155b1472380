package broadcast

import (
	"fmt"
	"strings"
)

// State is the lifecycle position of a Dispatcher
type State int

const (
	StateIdle State = iota
	StateValidated
	StateDispatching
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidated:
		return "validated"
	case StateDispatching:
		return "dispatching"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FailurePolicy decides what a transport failure does to the rest of a broadcast
type FailurePolicy string

const (
	// PolicyFailFast stops the broadcast at the first transport failure
	PolicyFailFast FailurePolicy = "fail-fast"
	// PolicyIsolate records the failure on the endpoint and carries on
	PolicyIsolate FailurePolicy = "isolate"
)

// ParseFailurePolicy validates a policy name; "" selects PolicyFailFast
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFailFast:
		return PolicyFailFast, nil
	case PolicyIsolate:
		return PolicyIsolate, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (want %s or %s)", s, PolicyFailFast, PolicyIsolate)
	}
}
