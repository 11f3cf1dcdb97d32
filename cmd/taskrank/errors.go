package main

import "fmt"

// InvalidHoursError indicates a negative effort estimate.
type InvalidHoursError struct {
	Value float64
}

func (e InvalidHoursError) Error() string {
	return fmt.Sprintf("invalid estimated hours: %g (must not be negative)", e.Value)
}

// ConflictingInputError indicates a batch file was given together with --dir.
type ConflictingInputError struct {
	Path string
}

func (e ConflictingInputError) Error() string {
	return fmt.Sprintf("cannot read %s and the task directory at the same time", e.Path)
}
