package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abatilo/taskrank/internal/batch"
	"github.com/abatilo/taskrank/internal/deps"
	"github.com/abatilo/taskrank/internal/scoring"
	"github.com/abatilo/taskrank/internal/storage"
	"github.com/abatilo/taskrank/internal/task"
)

// loadBatch reads the batch named by args: a file path, "-" or nothing for
// stdin, or the task directory when fromDir is set.
func loadBatch(args []string, fromDir bool, stdin io.Reader) ([]*task.Task, error) {
	if fromDir {
		if len(args) > 0 {
			return nil, ConflictingInputError{Path: args[0]}
		}
		store, err := getStore()
		if err != nil {
			return nil, err
		}
		return store.List(storage.CompletionFilter{})
	}

	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return batch.Decode(data, batch.FormatAuto)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return batch.Decode(data, batch.FormatFromPath(path))
}

// analyzeCmd implements 'taskrank analyze'.
func analyzeCmd() *cobra.Command {
	var fromDir bool
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Score and rank a batch of tasks",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			tasks, err := loadBatch(args, fromDir, cmd.InOrStdin())
			if err != nil {
				printError(err)
			}

			analysis, err := engine.Analyze(tasks)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatAnalysis(analysis.Today, analysis.Tasks, analysis.Cycles))
		},
	}
	cmd.Flags().BoolVar(&fromDir, "dir", false, "Rank the tasks in the task directory")
	return cmd
}

// suggestCmd implements 'taskrank suggest'.
func suggestCmd() *cobra.Command {
	var (
		fromDir bool
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "suggest [file|-]",
		Short: "Show the top tasks to work on next",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			tasks, err := loadBatch(args, fromDir, cmd.InOrStdin())
			if err != nil {
				printError(err)
			}

			n := limit
			if n < 1 {
				n = cfg.Analysis.SuggestLimit
			}
			suggestions, err := engine.Suggest(tasks, n)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatSuggestions(suggestions))
		},
	}
	cmd.Flags().BoolVar(&fromDir, "dir", false, "Suggest from the tasks in the task directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of suggestions (default: analysis.suggest_limit)")
	return cmd
}

// cyclesCmd implements 'taskrank cycles'.
func cyclesCmd() *cobra.Command {
	var fromDir bool
	cmd := &cobra.Command{
		Use:   "cycles [file|-]",
		Short: "List tasks on circular dependency chains",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			tasks, err := loadBatch(args, fromDir, cmd.InOrStdin())
			if err != nil {
				printError(err)
			}
			if err = scoring.Validate(tasks); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatCycles(deps.NewGraph(tasks).Cycles()))
		},
	}
	cmd.Flags().BoolVar(&fromDir, "dir", false, "Check the tasks in the task directory")
	return cmd
}

// importCmd implements 'taskrank import'.
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file|-]",
		Short: "Copy a batch into the task directory",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			tasks, err := loadBatch(args, false, cmd.InOrStdin())
			if err != nil {
				printError(err)
			}
			if err = scoring.Validate(tasks); err != nil {
				printError(err)
			}

			store, err := getStore()
			if err != nil {
				printError(err)
			}
			if err = store.InsertAll(tasks); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Imported %d task(s)", len(tasks))))
		},
	}
}
