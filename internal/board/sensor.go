package board

import "time"

type Input string

const (
	InputPointer Input = "pointer"
	InputTouch   Input = "touch"
)

type Activation int

const (
	ActivationPending Activation = iota
	ActivationActive
	ActivationAborted
)

// ActivationConstraint decides when a press turns into a drag. A Delay
// constraint wins over Distance: the press must be held for Delay without
// leaving the Tolerance radius.
type ActivationConstraint struct {
	Distance  float64
	Delay     time.Duration
	Tolerance float64
}

func (c ActivationConstraint) Evaluate(origin, current Point, elapsed time.Duration) Activation {
	moved := origin.DistanceTo(current)

	if c.Delay > 0 {
		if moved > c.Tolerance {
			return ActivationAborted
		}
		if elapsed >= c.Delay {
			return ActivationActive
		}
		return ActivationPending
	}

	if c.Distance > 0 {
		if moved >= c.Distance {
			return ActivationActive
		}
		return ActivationPending
	}

	return ActivationActive
}

type Sensors struct {
	Pointer ActivationConstraint
	Touch   ActivationConstraint
}

func DefaultSensors() Sensors {
	return Sensors{
		Pointer: ActivationConstraint{Distance: 8},
		Touch:   ActivationConstraint{Delay: 250 * time.Millisecond, Tolerance: 5},
	}
}

func (s Sensors) For(in Input) ActivationConstraint {
	if in == InputTouch {
		return s.Touch
	}
	return s.Pointer
}
