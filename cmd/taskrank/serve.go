package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	mcpgo "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/taskrank/internal/mcpserver"
	"github.com/abatilo/taskrank/internal/server"
)

// serveCmd implements 'taskrank serve'.
func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyze and suggest endpoints over HTTP",
		Run: func(cmd *cobra.Command, _ []string) {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if !cfg.Log.Development {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(engine, cfg, logger.Named("http"))
			if err := srv.Run(ctx); err != nil {
				printError(err)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")
	return cmd
}

// mcpCmd implements 'taskrank mcp'.
func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the ranking tools over MCP on stdio",
		Run: func(_ *cobra.Command, _ []string) {
			s := mcpserver.New(engine)
			logger.Info("mcp server starting on stdio")
			if err := mcpgo.ServeStdio(s); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("mcp server error", zap.Error(err))
				printError(err)
			}
		},
	}
}
