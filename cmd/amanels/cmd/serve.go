package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanels/internal/logging"
	"github.com/Aman-CERP/amanels/internal/mcp"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol server so AI assistants can run ELS
searches.

The server speaks JSON-RPC on stdin/stdout. Nothing else is written to
stdout; logs go to ~/.amanels/logs/amanels.log.

Tools: els_search, els_languages, els_history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), transport)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type (stdio)")

	return cmd
}

func runServe(ctx context.Context, transport string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if transport == "" {
		transport = cfg.Server.Transport
	}

	// stdout carries JSON-RPC only. Debug mode keeps its stderr tee.
	logger := slog.Default()
	if !debugMode {
		l, cleanup, err := logging.Setup(logging.ServerConfig(cfg.Server.LogLevel))
		if err == nil {
			defer cleanup()
			logger = l
		}
	}

	if err := verifyStdinForMCP(); err != nil {
		logger.Warn("mcp_stdin_not_pipe", slog.String("error", err.Error()))
	}

	srch, closeSearcher, err := openSearcher(cfg, true)
	if err != nil {
		// History is optional for the server.
		logger.Warn("history_unavailable", slog.String("error", err.Error()))
		srch, closeSearcher, err = openSearcher(cfg, false)
		if err != nil {
			return err
		}
	}
	defer closeSearcher()

	server, err := mcp.NewServer(srch, cfg, mcp.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, transport); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// verifyStdinForMCP reports when stdin is an interactive terminal, where no
// MCP client can be attached.
func verifyStdinForMCP() error {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return errors.New("stdin is a terminal; serve expects an MCP client on a pipe")
	}
	return nil
}
