package bus

import "fmt"

// TimeoutError is returned when a D-Bus call exceeds its deadline.
type TimeoutError struct{}

func (e *TimeoutError) Error() string { return "bus: call timed out" }

// SignalError is returned when a D-Bus signal body is malformed.
type SignalError struct {
	Reason string
}

func (e *SignalError) Error() string { return fmt.Sprintf("bus: signal error: %s", e.Reason) }
