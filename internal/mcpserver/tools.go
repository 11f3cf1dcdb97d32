package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abatilo/taskrank/internal/deps"
	"github.com/abatilo/taskrank/internal/output"
	"github.com/abatilo/taskrank/internal/scoring"
)

const tasksDescription = "Task batch as a JSON array (or an object with a \"tasks\" array). " +
	"Each task needs id, title, due_date (YYYY-MM-DD), estimated_hours, importance (1-10) and dependencies."

func registerRankingTools(s *server.MCPServer, engine *scoring.Engine) {
	analyzeTasks := mcp.NewTool("analyze_tasks",
		mcp.WithDescription("Score and rank a batch of tasks by urgency, importance, dependency fan-in and effort. Tasks on circular dependencies score 0."),
		mcp.WithString("tasks",
			mcp.Description(tasksDescription),
			mcp.Required(),
		),
	)

	detectCycles := mcp.NewTool("detect_cycles",
		mcp.WithDescription("List groups of tasks that depend on each other in a circle."),
		mcp.WithString("tasks",
			mcp.Description(tasksDescription),
			mcp.Required(),
		),
	)

	suggestTasks := mcp.NewTool("suggest_tasks",
		mcp.WithDescription("Return the highest ranked tasks that are neither completed nor blocked by a cycle."),
		mcp.WithString("tasks",
			mcp.Description(tasksDescription),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("How many tasks to return (default 3)"),
		),
	)

	s.AddTool(analyzeTasks, makeAnalyzeHandler(engine))
	s.AddTool(detectCycles, makeDetectCyclesHandler())
	s.AddTool(suggestTasks, makeSuggestHandler(engine))
}

func makeAnalyzeHandler(engine *scoring.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := tasksArg(request)
		if err != nil {
			return errorResult(err), nil
		}

		analysis, err := engine.Analyze(tasks)
		if err != nil {
			return errorResult(err), nil
		}

		return textResult(output.NewJSONFormatter().FormatAnalysis(analysis.Today, analysis.Tasks, analysis.Cycles)), nil
	}
}

func makeDetectCyclesHandler() server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := tasksArg(request)
		if err != nil {
			return errorResult(err), nil
		}
		if err := scoring.Validate(tasks); err != nil {
			return errorResult(err), nil
		}

		cycles := deps.NewGraph(tasks).Cycles()
		return textResult(output.NewJSONFormatter().FormatCycles(cycles)), nil
	}
}

func makeSuggestHandler(engine *scoring.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := tasksArg(request)
		if err != nil {
			return errorResult(err), nil
		}

		suggestions, err := engine.Suggest(tasks, int(request.GetFloat("limit", 0)))
		if err != nil {
			return errorResult(err), nil
		}

		return textResult(output.NewJSONFormatter().FormatSuggestions(suggestions)), nil
	}
}
