package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abatilo/taskrank/internal/batch"
	"github.com/abatilo/taskrank/internal/task"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: err.Error(),
			},
		},
		IsError: true,
	}
}

// tasksArg decodes the "tasks" argument, a JSON or YAML batch.
func tasksArg(request mcp.CallToolRequest) ([]*task.Task, error) {
	raw := request.GetString("tasks", "")
	if raw == "" {
		return nil, fmt.Errorf("tasks is required")
	}
	return batch.Decode([]byte(raw), batch.FormatAuto)
}
