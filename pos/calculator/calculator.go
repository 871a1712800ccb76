// Package calculator evaluates the single binary expression held in the
// register's calculator display. It never executes code: input is split on a
// fixed set of operator characters and both sides must be numeric literals.
package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"restaurant-pos/pos/types"
)

type operation func(left, right float64) (float64, error)

type operator struct {
	char string
	op   operation
}

// operators are tried in this order; the first one that splits the input
// into exactly two non-empty operands wins. "5*-3" therefore splits on '-'
// first and fails as a syntax error.
var operators = []operator{
	{"+", func(l, r float64) (float64, error) { return l + r, nil }},
	{"-", func(l, r float64) (float64, error) { return l - r, nil }},
	{"x", func(l, r float64) (float64, error) { return l * r, nil }},
	{"*", func(l, r float64) (float64, error) { return l * r, nil }},
	{"/", divide},
}

var errDivideByZero = errors.New("division by zero")

func divide(l, r float64) (float64, error) {
	if r == 0 {
		return 0, errDivideByZero
	}
	return l / r, nil
}

// Evaluate computes text and returns the result with two decimal places.
// Errors are *types.SyntaxError or *types.DivisionByZeroError.
func Evaluate(text string) (string, error) {
	for _, o := range operators {
		if !strings.Contains(text, o.char) {
			continue
		}
		parts := strings.Split(text, o.char)
		if len(parts) != 2 {
			continue
		}
		left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if left == "" || right == "" {
			continue
		}

		l, err := parseOperand(left)
		if err != nil {
			return "", &types.SyntaxError{Input: text}
		}
		r, err := parseOperand(right)
		if err != nil {
			return "", &types.SyntaxError{Input: text}
		}

		result, err := o.op(l, r)
		if errors.Is(err, errDivideByZero) {
			return "", &types.DivisionByZeroError{Input: text}
		}
		return format(result, text)
	}

	v, err := parseOperand(strings.TrimSpace(text))
	if err != nil {
		return "", &types.SyntaxError{Input: text}
	}
	return format(v, text)
}

// Display evaluates text and returns what the calculator screen shows:
// the formatted result or the short error message.
func Display(text string) string {
	result, err := Evaluate(text)
	if err != nil {
		return err.Error()
	}
	return result
}

func parseOperand(s string) (float64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

func format(v float64, input string) (string, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "", &types.SyntaxError{Input: input}
	}
	return strconv.FormatFloat(v, 'f', 2, 64), nil
}
