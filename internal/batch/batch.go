// Package batch decodes task batches submitted to the ranking engine.
//
// A batch is either a bare list of task records or an object whose "tasks"
// field holds that list. Both JSON and YAML are accepted.
package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	rankerrors "github.com/abatilo/taskrank/internal/errors"
	"github.com/abatilo/taskrank/internal/task"
)

// Format selects the wire format of a batch.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// record is the wire form of one task. Pointer fields distinguish a missing
// key from a zero value.
type record struct {
	ID             *task.ID  `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	DueDate        *string   `json:"due_date" yaml:"due_date"`
	EstimatedHours *float64  `json:"estimated_hours" yaml:"estimated_hours"`
	Importance     *int      `json:"importance" yaml:"importance"`
	Dependencies   []task.ID `json:"dependencies" yaml:"dependencies"`
	Completed      bool      `json:"completed" yaml:"completed"`
}

// envelope is the object form of a batch.
type envelope struct {
	Tasks []json.RawMessage `json:"tasks"`
}

// Decode parses a batch and checks each record for the fields the engine
// needs. It does not reject duplicate IDs; the engine does.
func Decode(data []byte, format Format) ([]*task.Task, error) {
	if format == FormatAuto {
		format = sniff(data)
	}
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported batch format %q", format)
	}
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatYAML
}

func decodeJSON(data []byte) ([]*task.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, rankerrors.MalformedBatchError{Reason: "empty body"}
	}

	var raw []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, malformed(err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, malformed(err)
		}
		raw = env.Tasks
	default:
		return nil, rankerrors.MalformedBatchError{Reason: "expected a list of tasks or an object with a tasks field"}
	}

	tasks := make([]*task.Task, 0, len(raw))
	for i, msg := range raw {
		var r record
		if err := json.Unmarshal(msg, &r); err != nil {
			return nil, malformedAt(i, err)
		}
		t, err := r.toTask(i)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodeYAML(data []byte) ([]*task.Task, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, malformed(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, rankerrors.MalformedBatchError{Reason: "empty body"}
	}

	list := doc.Content[0]
	if list.Kind == yaml.MappingNode {
		list = mappingValue(list, "tasks")
		if list == nil {
			return []*task.Task{}, nil
		}
	}
	if list.Kind != yaml.SequenceNode {
		return nil, rankerrors.MalformedBatchError{Reason: "expected a list of tasks or an object with a tasks field"}
	}

	tasks := make([]*task.Task, 0, len(list.Content))
	for i, node := range list.Content {
		var r record
		if err := node.Decode(&r); err != nil {
			return nil, malformedAt(i, err)
		}
		t, err := r.toTask(i)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func (r record) toTask(index int) (*task.Task, error) {
	switch {
	case r.ID == nil:
		return nil, rankerrors.MissingFieldError{Index: index, Field: "id"}
	case r.DueDate == nil:
		return nil, rankerrors.MissingFieldError{Index: index, Field: "due_date"}
	case r.Importance == nil:
		return nil, rankerrors.MissingFieldError{Index: index, Field: "importance"}
	case r.EstimatedHours == nil:
		return nil, rankerrors.MissingFieldError{Index: index, Field: "estimated_hours"}
	case math.IsNaN(*r.EstimatedHours) || math.IsInf(*r.EstimatedHours, 0):
		return nil, rankerrors.MalformedBatchError{
			Reason: fmt.Sprintf("task at index %d: estimated_hours must be a finite number", index),
		}
	}
	deps := r.Dependencies
	if deps == nil {
		deps = []task.ID{}
	}
	return &task.Task{
		ID:             *r.ID,
		Title:          r.Title,
		DueDate:        *r.DueDate,
		EstimatedHours: *r.EstimatedHours,
		Importance:     *r.Importance,
		Dependencies:   deps,
		Completed:      r.Completed,
	}, nil
}

func malformed(err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return rankerrors.MalformedBatchError{Reason: fmt.Sprintf("invalid JSON at offset %d: %v", syntaxErr.Offset, err)}
	}
	return rankerrors.MalformedBatchError{Reason: err.Error()}
}

func malformedAt(index int, err error) error {
	return rankerrors.MalformedBatchError{Reason: fmt.Sprintf("task at index %d: %v", index, err)}
}
