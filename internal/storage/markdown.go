package storage

import (
	"bytes"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abatilo/taskrank/internal/task"
)

const frontmatterDelimiter = "---"

// taskFrontmatter is the YAML-serializable portion of a task.
type taskFrontmatter struct {
	ID             task.ID   `yaml:"id"`
	Title          string    `yaml:"title"`
	DueDate        string    `yaml:"due_date"`
	EstimatedHours float64   `yaml:"estimated_hours"`
	Importance     int       `yaml:"importance"`
	Dependencies   []task.ID `yaml:"dependencies,omitempty"`
	Completed      bool      `yaml:"completed"`
	CreatedAt      string    `yaml:"created_at"`
}

// ParseMarkdown parses a markdown file with YAML frontmatter into a Task.
func ParseMarkdown(content []byte) (*task.Task, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return nil, &parseError{"missing YAML frontmatter"}
	}

	var frontmatterEnd int
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			frontmatterEnd = i
			break
		}
	}
	if frontmatterEnd == 0 {
		return nil, &parseError{"unclosed YAML frontmatter"}
	}

	var fm taskFrontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:frontmatterEnd], "\n")), &fm); err != nil {
		return nil, &parseError{"invalid YAML: " + err.Error()}
	}

	var createdAt time.Time
	if fm.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, fm.CreatedAt)
		if err != nil {
			return nil, &parseError{"invalid created_at: " + err.Error()}
		}
		createdAt = t
	}

	var description string
	if frontmatterEnd+1 < len(lines) {
		description = strings.TrimSpace(strings.Join(lines[frontmatterEnd+1:], "\n"))
	}

	return &task.Task{
		ID:             fm.ID,
		Title:          fm.Title,
		DueDate:        fm.DueDate,
		EstimatedHours: fm.EstimatedHours,
		Importance:     fm.Importance,
		Dependencies:   fm.Dependencies,
		Completed:      fm.Completed,
		CreatedAt:      createdAt,
		Description:    description,
	}, nil
}

// SerializeMarkdown converts a Task to markdown with YAML frontmatter.
func SerializeMarkdown(t *task.Task) ([]byte, error) {
	fm := taskFrontmatter{
		ID:             t.ID,
		Title:          t.Title,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		Importance:     t.Importance,
		Dependencies:   t.Dependencies,
		Completed:      t.Completed,
	}
	if !t.CreatedAt.IsZero() {
		fm.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(frontmatterDelimiter + "\n")

	if t.Description != "" {
		buf.WriteString("\n")
		buf.WriteString(t.Description)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return e.msg
}
