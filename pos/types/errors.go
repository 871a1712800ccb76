package types

import "fmt"

// PermanentError represents an error that should not be retried
type PermanentError struct {
	Msg string
}

func (e *PermanentError) Error() string {
	return e.Msg
}

// ValidationError represents a validation error that should not be retried
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// SyntaxError is returned by the calculator for input it cannot read as numbers
type SyntaxError struct {
	Input string
}

func (e *SyntaxError) Error() string {
	return "Syntax Error"
}

// DivisionByZeroError is returned by the calculator for x/0
type DivisionByZeroError struct {
	Input string
}

func (e *DivisionByZeroError) Error() string {
	return "Zero Division Error"
}

// UnknownItemError reports a category/index pair that is not on the menu
type UnknownItemError struct {
	Category CategoryKey
	Index    int
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("no menu item %d in category %s", e.Index, e.Category)
}
