package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abatilo/taskrank/internal/batch"
	"github.com/abatilo/taskrank/internal/output"
	"github.com/abatilo/taskrank/internal/task"
)

func errorBody(msg string) gin.H {
	return gin.H{"status": "error", "message": msg}
}

// readBatch decodes the request body, as YAML when the content type says so
// and JSON otherwise.
func (s *Server) readBatch(c *gin.Context) ([]*task.Task, error) {
	body := c.Request.Body
	if s.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, s.cfg.MaxBodyBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	format := batch.FormatJSON
	if strings.Contains(c.ContentType(), "yaml") {
		format = batch.FormatYAML
	}
	return batch.Decode(data, format)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	status := http.StatusBadRequest
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	s.logger.Debug("rejected batch",
		zap.Error(err),
		zap.String("request_id", c.GetString(requestIDKey)),
	)
	c.JSON(status, errorBody(err.Error()))
}

func (s *Server) analyze(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, errorBody("Only POST allowed"))
		return
	}

	tasks, err := s.readBatch(c)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	analysis, err := s.engine.Analyze(tasks)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"tasks":  output.ToScoredJSONList(analysis.Tasks),
	})
}

func (s *Server) suggestPlaceholder(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"note":              "Use the main Analyzer for live data.",
		"top_3_suggestions": []output.TaskJSON{},
	})
}

func (s *Server) suggest(c *gin.Context) {
	limit := s.suggestLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, errorBody("limit must be a positive integer"))
			return
		}
		limit = n
	}

	tasks, err := s.readBatch(c)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	suggestions, err := s.engine.Suggest(tasks, limit)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"suggestions": output.ToScoredJSONList(suggestions),
	})
}
