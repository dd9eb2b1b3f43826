package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modeltx/modeltx/pkg/modeltx"
	"github.com/modeltx/modeltx/pkg/modeltx/resource"
	"github.com/modeltx/modeltx/pkg/modeltx/server"
)

func newServeCommand() *cobra.Command {
	var (
		modelPath string
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine to automation clients over MCP stdio",
		Long: `Serve every registered operation, batch execution, and transaction-group
control as MCP tools on stdio. Without --model the server starts on an
empty in-memory document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := modeltx.LoadConfig()
			if err != nil {
				return err
			}
			if modelPath == "" {
				modelPath = cfg.ModelPath
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			level, err := modeltx.LogLevelFromString(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logger := modeltx.NewLogger(os.Stderr, level)

			var doc *resource.Document
			if modelPath != "" {
				doc, err = resource.LoadDocument(modelPath)
				if err != nil {
					return err
				}
			} else {
				doc = resource.NewDocument()
			}

			engine, err := modeltx.New(doc, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(engine, cfg.ServerName, version, logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "model document file (JSON)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	return cmd
}
