package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modeltx/modeltx/pkg/modeltx"
	"github.com/modeltx/modeltx/pkg/modeltx/resource"
)

func newRunCommand() *cobra.Command {
	var (
		modelPath   string
		logLevel    string
		stopOnError bool
	)

	cmd := &cobra.Command{
		Use:   "run [plan-file]",
		Short: "Execute a batch plan against a model document",
		Long: `Execute the operations from a YAML batch plan, in file order, inside one
transaction scope. The model document is saved back only when the batch
commits; a rolled-back batch leaves the file untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := modeltx.LoadConfig()
			if err != nil {
				return err
			}
			if modelPath == "" {
				modelPath = cfg.ModelPath
			}
			if modelPath == "" {
				return fmt.Errorf("no model file: pass --model or set MODELTX_MODEL_PATH")
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			level, err := modeltx.LogLevelFromString(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logger := modeltx.NewLogger(os.Stderr, level)

			plan, err := modeltx.LoadPlan(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("stop-on-error") {
				plan.StopOnError = stopOnError
			}

			doc, err := resource.LoadDocument(modelPath)
			if err != nil {
				return err
			}
			engine, err := modeltx.New(doc, logger)
			if err != nil {
				return err
			}

			result, err := engine.Executor.Run(context.Background(), plan.ToOperations(), plan.Options())
			if err != nil {
				return err
			}

			for _, entry := range result.Entries {
				status := "✓"
				if !entry.Result.Success {
					status = "✗"
				}
				fmt.Printf("  %s [%d] %s", status, entry.Index, entry.Name)
				if !entry.Result.Success {
					fmt.Printf(" (%s)", entry.Result.ErrorMessage)
				}
				fmt.Println()
			}
			fmt.Printf("Succeeded: %d, Failed: %d\n", result.Succeeded, result.Failed)

			if result.RolledBack {
				fmt.Printf("Rolled back: %s\n", result.RollbackReason)
				return fmt.Errorf("batch rolled back")
			}

			if err := doc.Save(modelPath); err != nil {
				return err
			}
			fmt.Printf("Model saved to %s\n", modelPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "model document file (JSON)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "roll back the whole batch on the first failure (overrides the plan)")

	return cmd
}
