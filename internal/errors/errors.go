//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import (
	"fmt"

	"github.com/abatilo/taskrank/internal/task"
)

// NotInitializedError indicates the task directory doesn't exist.
type NotInitializedError struct {
	Path string
}

func (e NotInitializedError) Error() string {
	return fmt.Sprintf("task directory %s not initialized: run 'taskrank init' first", e.Path)
}

// AlreadyInitializedError indicates the task directory already exists.
type AlreadyInitializedError struct {
	Path string
}

func (e AlreadyInitializedError) Error() string {
	return fmt.Sprintf("task directory %s already initialized", e.Path)
}

// TaskNotFoundError indicates the task ID doesn't match any task.
type TaskNotFoundError struct {
	ID task.ID
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// AlreadyExistsError indicates an ID collision in the task directory.
type AlreadyExistsError struct {
	ID task.ID
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("task already exists: %s", e.ID)
}

// DuplicateIDError indicates two records in one batch share an ID.
type DuplicateIDError struct {
	ID task.ID
}

func (e DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate task id in batch: %s", e.ID)
}

// MalformedBatchError indicates the payload is not a list of task records.
type MalformedBatchError struct {
	Reason string
}

func (e MalformedBatchError) Error() string {
	return "malformed task batch: " + e.Reason
}

// MissingFieldError indicates a task record lacks a required field.
type MissingFieldError struct {
	Index int
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("task at index %d is missing required field %q", e.Index, e.Field)
}

// InvalidImportanceError indicates an importance value outside 1-10.
type InvalidImportanceError struct {
	Value int
}

func (e InvalidImportanceError) Error() string {
	return fmt.Sprintf("invalid importance: %d (valid: %d-%d)", e.Value, task.MinImportance, task.MaxImportance)
}
