package task

import "fmt"

// InvalidDateError indicates a due date that is not in YYYY-MM-DD form.
type InvalidDateError struct {
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", e.Value)
}

// InvalidIDError indicates a task ID that is neither a number nor a string.
type InvalidIDError struct {
	Raw string
}

func (e InvalidIDError) Error() string {
	return fmt.Sprintf("invalid task id: %s", e.Raw)
}
