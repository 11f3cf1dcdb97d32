package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/taskrank/internal/config"
	"github.com/abatilo/taskrank/internal/deps"
	rankerrors "github.com/abatilo/taskrank/internal/errors"
	"github.com/abatilo/taskrank/internal/observability"
	"github.com/abatilo/taskrank/internal/output"
	"github.com/abatilo/taskrank/internal/scoring"
	"github.com/abatilo/taskrank/internal/storage"
	"github.com/abatilo/taskrank/internal/task"
)

//nolint:gochecknoglobals // CLI flags and shared state are package-level by design
var (
	jsonOutput bool
	configPath string
	todayFlag  string

	formatter output.Formatter = output.NewHumanFormatter(os.Stdout)
	cfg       *config.Config
	logger    = zap.NewNop()
	engine    *scoring.Engine
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskrank",
		Short: "Rank tasks by urgency, importance, dependencies and effort",
		Long: "taskrank - scores a batch of tasks and ranks them, flagging circular dependencies.\n\n" +
			"Batches are read from a JSON or YAML file, stdin, or the local task directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if jsonOutput {
				formatter = output.NewJSONFormatter()
			} else {
				formatter = output.NewHumanFormatter(os.Stdout)
			}
			setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: taskrank.yaml search path)")
	root.PersistentFlags().StringVar(&todayFlag, "today", "", "Reference date YYYY-MM-DD (default: system date)")

	root.AddCommand(
		analyzeCmd(),
		suggestCmd(),
		cyclesCmd(),
		graphCmd(),
		initCmd(),
		addCmd(),
		importCmd(),
		listCmd(),
		showCmd(),
		depCmd(),
		undepCmd(),
		completeCmd(),
		rmCmd(),
		serveCmd(),
		mcpCmd(),
	)
	return root
}

// setup loads configuration, the logger and the engine shared by every command.
// The package-level logger stays a no-op logger until setup succeeds.
func setup() {
	c, l, e, err := newRuntime(configPath, todayFlag)
	if err != nil {
		printError(err)
	}
	cfg, logger, engine = c, l, e
}

// newRuntime builds the configuration, logger and engine without touching
// package state.
func newRuntime(path, today string) (*config.Config, *zap.Logger, *scoring.Engine, error) {
	c, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}

	l, err := observability.SetupLogger(c.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	opts := []scoring.Option{scoring.WithLogger(l)}
	if today != "" {
		d, err := task.ParseDate(today)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, scoring.WithClock(scoring.FixedClock(d)))
	} else if d, ok := c.TodayOverride(); ok {
		opts = append(opts, scoring.WithClock(scoring.FixedClock(d)))
	}
	return c, l, scoring.NewEngine(opts...), nil
}

func getStore() (*storage.Store, error) {
	store, err := storage.NewStore(cfg.Store.Dir)
	if err != nil {
		return nil, err
	}
	store.SetLogger(logger.Named("store"))
	return store, nil
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	logger.Debug("command failed", zap.Error(err))
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}

// initCmd implements 'taskrank init'.
func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the task directory",
		Run: func(_ *cobra.Command, _ []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}
			if err = store.Init(force); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Initialized taskrank at %s", store.BasePath())))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Reinitialize even if already exists")
	return cmd
}

// addCmd implements 'taskrank add'.
func addCmd() *cobra.Command {
	var (
		description string
		due         string
		hours       float64
		importance  int
		dependsOn   []string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}

			n, err := newTaskFromFlags(args[0], description, due, hours, importance, dependsOn)
			if err != nil {
				printError(err)
			}

			for _, dep := range n.Dependencies {
				if !store.Exists(dep) {
					printError(rankerrors.TaskNotFoundError{ID: dep})
				}
			}

			t, err := store.CreateTask(n)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date YYYY-MM-DD (default: today)")
	cmd.Flags().Float64Var(&hours, "hours", 1, "Estimated effort in hours")
	cmd.Flags().IntVarP(&importance, "importance", "i", 5, "Importance from 1 to 10")
	cmd.Flags().StringSliceVar(&dependsOn, "dep", nil, "ID of a task this one depends on (repeatable)")
	return cmd
}

// newTaskFromFlags validates the user-facing fields of a stored task.
func newTaskFromFlags(title, description, due string, hours float64, importance int, dependsOn []string) (storage.NewTask, error) {
	if due == "" {
		due = task.FormatDate(engine.Today())
	}
	if _, err := task.ParseDate(due); err != nil {
		return storage.NewTask{}, err
	}
	if !task.IsValidImportance(importance) {
		return storage.NewTask{}, rankerrors.InvalidImportanceError{Value: importance}
	}
	if hours < 0 {
		return storage.NewTask{}, InvalidHoursError{Value: hours}
	}

	depIDs := make([]task.ID, 0, len(dependsOn))
	for _, d := range dependsOn {
		if id := task.ID(d); !slices.Contains(depIDs, id) {
			depIDs = append(depIDs, id)
		}
	}
	return storage.NewTask{
		Title:          title,
		Description:    description,
		DueDate:        due,
		EstimatedHours: hours,
		Importance:     importance,
		Dependencies:   depIDs,
	}, nil
}

// listCmd implements 'taskrank list'.
func listCmd() *cobra.Command {
	var showOpen, showCompleted bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored tasks",
		Run: func(_ *cobra.Command, _ []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}

			tasks, err := store.List(storage.CompletionFilter{
				Open:      showOpen,
				Completed: showCompleted,
			})
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTaskList(tasks))
		},
	}
	cmd.Flags().BoolVar(&showOpen, "open", false, "Show only open tasks")
	cmd.Flags().BoolVar(&showCompleted, "completed", false, "Show only completed tasks")
	return cmd
}

// showCmd implements 'taskrank show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}

			t, err := store.Load(task.ID(args[0]))
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
}

// depCmd implements 'taskrank dep'.
func depCmd() *cobra.Command {
	var allowCycle bool
	cmd := &cobra.Command{
		Use:   "dep <id> <depends-on-id>",
		Short: "Add a dependency",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(_ *cobra.Command, args []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}

			taskID := task.ID(args[0])
			depID := task.ID(args[1])

			// Load all tasks for cycle detection
			tasks, err := store.List(storage.CompletionFilter{})
			if err != nil {
				printError(err)
			}

			graph := deps.NewGraph(tasks)
			if err = graph.ValidateAddDep(taskID, depID); err != nil {
				var cycleErr deps.CycleError
				if !allowCycle || !errors.As(err, &cycleErr) {
					printError(err)
				}
			}

			t, err := store.Load(taskID)
			if err != nil {
				printError(err)
			}

			if t.DependsOn(depID) {
				printOutput(formatter.FormatMessage("Dependency already exists"))
				return
			}

			t.Dependencies = append(t.Dependencies, depID)
			if err = store.Save(t); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
	cmd.Flags().BoolVar(&allowCycle, "allow-cycle", false, "Record the dependency even if it closes a cycle")
	return cmd
}

// undepCmd implements 'taskrank undep'.
func undepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undep <id> <depends-on-id>",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(_ *cobra.Command, args []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}

			t, err := store.Load(task.ID(args[0]))
			if err != nil {
				printError(err)
			}

			depID := task.ID(args[1])
			originalLen := len(t.Dependencies)
			t.Dependencies = slices.DeleteFunc(t.Dependencies, func(d task.ID) bool {
				return d == depID
			})
			if len(t.Dependencies) == originalLen {
				printOutput(formatter.FormatMessage("Dependency not found"))
				return
			}
			if err = store.Save(t); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
}

// completeCmd implements 'taskrank complete'.
func completeCmd() *cobra.Command {
	var reopen bool
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}

			t, err := store.Load(task.ID(args[0]))
			if err != nil {
				printError(err)
			}

			t.Completed = !reopen
			if err = store.Save(t); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
	cmd.Flags().BoolVar(&reopen, "reopen", false, "Mark the task as not completed")
	return cmd
}

// graphCmd implements 'taskrank graph'.
func graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Display the dependency graph of the task directory",
		Run: func(_ *cobra.Command, _ []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}

			tasks, err := store.List(storage.CompletionFilter{})
			if err != nil {
				printError(err)
			}

			graph := deps.NewGraph(tasks)
			printOutput(formatter.FormatGraph(graph.BuildTree()))
		},
	}
}

// rmCmd implements 'taskrank rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}

			taskID := task.ID(args[0])

			if _, err = store.Load(taskID); err != nil {
				printError(err)
			}

			// Remove from other tasks' dependencies
			if err = store.RemoveDependency(taskID); err != nil {
				printError(err)
			}

			if err = store.Delete(taskID); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Removed task %s", taskID)))
		},
	}
}
