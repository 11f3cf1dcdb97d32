package storage

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	rankerrors "github.com/abatilo/taskrank/internal/errors"
	"github.com/abatilo/taskrank/internal/task"
)

const fileExt = ".md"

// Store keeps one markdown file per task in a directory.
type Store struct {
	basePath string
	logger   *zap.Logger
}

// NewStore creates a Store for dir. Relative paths resolve against the
// enclosing git repository root, or the working directory outside a repo.
func NewStore(dir string) (*Store, error) {
	basePath, err := ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	return NewStoreWithPath(basePath), nil
}

// NewStoreWithPath creates a Store with an exact base path.
func NewStoreWithPath(path string) *Store {
	return &Store{basePath: path, logger: zap.NewNop()}
}

// SetLogger sets the logger that reports unreadable task files.
func (s *Store) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.logger = l
}

// BasePath returns the base path of the store.
func (s *Store) BasePath() string {
	return s.basePath
}

// IsInitialized checks if the task directory exists.
func (s *Store) IsInitialized() bool {
	info, err := os.Stat(s.basePath)
	return err == nil && info.IsDir()
}

// Init creates the task directory.
func (s *Store) Init(force bool) error {
	if s.IsInitialized() && !force {
		return rankerrors.AlreadyInitializedError{Path: s.basePath}
	}
	//nolint:gosec // G301: task directory is user-readable
	return os.MkdirAll(s.basePath, 0o755)
}

func (s *Store) taskPath(id task.ID) (string, error) {
	name := string(id)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", task.InvalidIDError{Raw: name}
	}
	return filepath.Join(s.basePath, name+fileExt), nil
}

func (s *Store) notInitialized() error {
	return rankerrors.NotInitializedError{Path: s.basePath}
}

// Exists checks if a task with the given ID exists.
func (s *Store) Exists(id task.ID) bool {
	path, err := s.taskPath(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Save writes a task to disk.
func (s *Store) Save(t *task.Task) error {
	if !s.IsInitialized() {
		return s.notInitialized()
	}
	path, err := s.taskPath(t.ID)
	if err != nil {
		return err
	}
	content, err := SerializeMarkdown(t)
	if err != nil {
		return err
	}
	//nolint:gosec // G306: task files are user-readable
	return os.WriteFile(path, content, 0o644)
}

// Insert saves t as a new task, refusing to overwrite an existing one.
// A zero CreatedAt is set to the current time.
func (s *Store) Insert(t *task.Task) error {
	if !s.IsInitialized() {
		return s.notInitialized()
	}
	if s.Exists(t.ID) {
		return rankerrors.AlreadyExistsError{ID: t.ID}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	return s.Save(t)
}

// InsertAll inserts a batch of new tasks. Every ID is checked before any file
// is written, so a rejected batch leaves the directory untouched.
func (s *Store) InsertAll(tasks []*task.Task) error {
	if !s.IsInitialized() {
		return s.notInitialized()
	}
	seen := make(map[task.ID]bool, len(tasks))
	for _, t := range tasks {
		if _, err := s.taskPath(t.ID); err != nil {
			return err
		}
		if seen[t.ID] {
			return rankerrors.DuplicateIDError{ID: t.ID}
		}
		seen[t.ID] = true
		if s.Exists(t.ID) {
			return rankerrors.AlreadyExistsError{ID: t.ID}
		}
	}
	for _, t := range tasks {
		if err := s.Insert(t); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a task from disk.
func (s *Store) Load(id task.ID) (*task.Task, error) {
	if !s.IsInitialized() {
		return nil, s.notInitialized()
	}
	path, err := s.taskPath(id)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, rankerrors.TaskNotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return ParseMarkdown(content)
}

// Delete removes a task file.
func (s *Store) Delete(id task.ID) error {
	if !s.IsInitialized() {
		return s.notInitialized()
	}
	path, err := s.taskPath(id)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return rankerrors.TaskNotFoundError{ID: id}
	}
	return err
}

// List returns stored tasks matching filter, oldest first. Files that cannot
// be parsed are left out and reported through the store logger.
func (s *Store) List(filter CompletionFilter) ([]*task.Task, error) {
	ids, err := s.AllIDs()
	if err != nil {
		return nil, err
	}

	var tasks []*task.Task
	for id := range ids {
		t, err := s.Load(id)
		if err != nil {
			s.logger.Warn("skipping unreadable task file",
				zap.String("id", id.String()),
				zap.String("dir", s.basePath),
				zap.Error(err),
			)
			continue
		}
		if filter.Matches(t.Completed) {
			tasks = append(tasks, t)
		}
	}

	slices.SortFunc(tasks, func(a, b *task.Task) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return tasks, nil
}

// AllIDs returns all task IDs (for ID generation collision checking).
func (s *Store) AllIDs() (map[task.ID]bool, error) {
	if !s.IsInitialized() {
		return nil, s.notInitialized()
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}

	ids := make(map[task.ID]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		ids[task.ID(strings.TrimSuffix(entry.Name(), fileExt))] = true
	}
	return ids, nil
}

// RemoveDependency removes a dependency from all tasks that reference it.
func (s *Store) RemoveDependency(depID task.ID) error {
	tasks, err := s.List(CompletionFilter{})
	if err != nil {
		return err
	}

	for _, t := range tasks {
		if !t.DependsOn(depID) {
			continue
		}
		t.Dependencies = slices.DeleteFunc(t.Dependencies, func(d task.ID) bool {
			return d == depID
		})
		if err := s.Save(t); err != nil {
			return err
		}
	}
	return nil
}

// NewTask holds the user-supplied fields of a task being created.
type NewTask struct {
	Title          string
	Description    string
	DueDate        string
	EstimatedHours float64
	Importance     int
	Dependencies   []task.ID
}

// CreateTask creates a new task with a generated ID.
func (s *Store) CreateTask(n NewTask) (*task.Task, error) {
	if !s.IsInitialized() {
		return nil, s.notInitialized()
	}

	createdAt := time.Now().UTC()

	existingIDs, err := s.AllIDs()
	if err != nil {
		return nil, err
	}
	id := task.GenerateID(n.Title, createdAt, func(id task.ID) bool {
		return existingIDs[id]
	})

	t := &task.Task{
		ID:             id,
		Title:          n.Title,
		DueDate:        n.DueDate,
		EstimatedHours: n.EstimatedHours,
		Importance:     n.Importance,
		Dependencies:   n.Dependencies,
		CreatedAt:      createdAt.Truncate(time.Second),
		Description:    n.Description,
	}

	if err := s.Save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// CompletionFilter controls which tasks to include in list results.
type CompletionFilter struct {
	Open      bool
	Completed bool
}

// Matches returns true if a task with the given completion state should be
// included. An empty filter includes everything.
func (f CompletionFilter) Matches(completed bool) bool {
	if !f.Open && !f.Completed {
		return true
	}
	if completed {
		return f.Completed
	}
	return f.Open
}
