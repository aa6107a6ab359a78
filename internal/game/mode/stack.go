// Package mode tracks the game's interaction mode as an explicit stack, so
// nested modes (a battle started from a dialogue) unwind in order.
package mode

import (
	"errors"
	"fmt"
)

// Mode is one interaction mode.
type Mode string

// The interaction modes.
const (
	Map      Mode = "map"
	Dialogue Mode = "dialogue"
	Battle   Mode = "battle"
)

var (
	// ErrEmpty is returned when popping or reading an empty stack.
	ErrEmpty = errors.New("mode stack is empty")
	// ErrModeMismatch is returned when a pop names a mode other than the
	// current top. It indicates an unwind-ordering bug in the caller.
	ErrModeMismatch = errors.New("mode stack top does not match expected mode")
)

// Stack is a LIFO of interaction modes. Not safe for concurrent use.
type Stack struct {
	modes []Mode
}

// NewStack creates a stack seeded with the given base mode.
func NewStack(base Mode) *Stack {
	return &Stack{modes: []Mode{base}}
}

// Push enters a mode.
func (s *Stack) Push(m Mode) {
	s.modes = append(s.modes, m)
}

// Current returns the active mode.
func (s *Stack) Current() (Mode, error) {
	if len(s.modes) == 0 {
		return "", ErrEmpty
	}
	return s.modes[len(s.modes)-1], nil
}

// Pop leaves the current mode. The caller names the mode it believes it is
// leaving; a mismatch is an error and the stack is left unchanged.
func (s *Stack) Pop(expected Mode) error {
	if len(s.modes) == 0 {
		return ErrEmpty
	}
	top := s.modes[len(s.modes)-1]
	if top != expected {
		return fmt.Errorf("popping %q but current mode is %q: %w", expected, top, ErrModeMismatch)
	}
	s.modes = s.modes[:len(s.modes)-1]
	return nil
}

// Depth returns the number of stacked modes.
func (s *Stack) Depth() int {
	return len(s.modes)
}
