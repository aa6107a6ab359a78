package scene

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnimplementedCondition is returned when a reserved condition gate is
// evaluated. There is no safe default for an unimplemented gate, so
// evaluation must fail loudly rather than silently pass or hide.
var ErrUnimplementedCondition = errors.New("condition kind is reserved and not implemented")

// VarSource resolves story variables for condition evaluation.
type VarSource interface {
	// Var returns the value of a story variable and whether it is set.
	// Absence is distinct from the empty string.
	Var(name string) (string, bool)
}

// VarEquals is satisfied when a story variable is set to an exact value.
// A missing variable never matches, even against the empty string.
type VarEquals struct {
	Var   string `yaml:"var"`
	Value string `yaml:"value"`
}

// Condition is a single gate in a response's condition conjunction.
// Exactly one discriminant field must be set.
//
// Any is an OR over its sub-conditions; an empty list is false.
// Not holds when none of its sub-conditions hold; an empty list is true.
// The two base cases are deliberately asymmetric.
type Condition struct {
	VarEquals *VarEquals  `yaml:"var-equals"`
	Any       []Condition `yaml:"any"`
	Not       []Condition `yaml:"not"`
	// HasItem and QuestStage are reserved: they parse but cannot evaluate.
	HasItem    *yaml.Node `yaml:"has-item"`
	QuestStage *yaml.Node `yaml:"quest-stage"`
}

// Validate checks that exactly one discriminant is set, recursively.
//
// Postcondition: returns nil iff the condition tree is well formed.
func (c Condition) Validate() error {
	set := 0
	if c.VarEquals != nil {
		set++
		if c.VarEquals.Var == "" {
			return errors.New("var-equals: var must not be empty")
		}
	}
	if c.Any != nil {
		set++
	}
	if c.Not != nil {
		set++
	}
	if c.HasItem != nil {
		set++
	}
	if c.QuestStage != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("condition must set exactly one of var-equals, any, not, has-item, quest-stage; got %d", set)
	}
	for i, sub := range c.Any {
		if err := sub.Validate(); err != nil {
			return fmt.Errorf("any[%d]: %w", i, err)
		}
	}
	for i, sub := range c.Not {
		if err := sub.Validate(); err != nil {
			return fmt.Errorf("not[%d]: %w", i, err)
		}
	}
	return nil
}

// Eval evaluates the condition against the given variable source.
//
// Postcondition: reserved gates return ErrUnimplementedCondition; they are
// never treated as satisfied or unsatisfied.
func (c Condition) Eval(vars VarSource) (bool, error) {
	switch {
	case c.VarEquals != nil:
		value, ok := vars.Var(c.VarEquals.Var)
		return ok && value == c.VarEquals.Value, nil
	case c.Any != nil:
		for _, sub := range c.Any {
			ok, err := sub.Eval(vars)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case c.Not != nil:
		for _, sub := range c.Not {
			ok, err := sub.Eval(vars)
			if err != nil {
				return false, err
			}
			if ok {
				return false, nil
			}
		}
		return true, nil
	case c.HasItem != nil:
		return false, fmt.Errorf("has-item: %w", ErrUnimplementedCondition)
	case c.QuestStage != nil:
		return false, fmt.Errorf("quest-stage: %w", ErrUnimplementedCondition)
	default:
		return false, errors.New("condition has no discriminant set")
	}
}

// EvalAll evaluates a condition conjunction; an empty conjunction holds.
func EvalAll(conds []Condition, vars VarSource) (bool, error) {
	for _, c := range conds {
		ok, err := c.Eval(vars)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
