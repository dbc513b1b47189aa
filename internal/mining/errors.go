// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package mining

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter is returned when a mining threshold is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidItem is returned when an item identifier cannot be parsed.
	ErrInvalidItem = errors.New("invalid item")

	// ErrIncompleteItemsets is returned by GenerateRules when a subset of a
	// frequent itemset is missing from the input collection.
	ErrIncompleteItemsets = errors.New("itemset collection is not downward closed")
)

// ParameterError describes a rejected threshold.
type ParameterError struct {
	Name       string
	Value      float64
	Constraint string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%g, must be in %s", ErrInvalidParameter, e.Name, e.Value, e.Constraint)
}

// Unwrap allows errors.Is(err, ErrInvalidParameter).
func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// ParseError describes an item identifier that failed to parse.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidItem, e.Input, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidItem).
func (e *ParseError) Unwrap() error {
	return ErrInvalidItem
}

func validateMinSupport(v float64) error {
	if math.IsNaN(v) || v <= 0 || v > 1 {
		return &ParameterError{Name: "min_support", Value: v, Constraint: "(0, 1]"}
	}
	return nil
}

func validateMinConfidence(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return &ParameterError{Name: "min_confidence", Value: v, Constraint: "[0, 1]"}
	}
	return nil
}
