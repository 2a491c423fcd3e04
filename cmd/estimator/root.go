package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"restoredoc/internal/domain/assessment"
	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/rules"
	"restoredoc/internal/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the persistent flags are read.
type app struct {
	rulesFile string
	logLevel  string

	tables rules.Tables
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "estimator",
		Short:         "Price restoration estimates from the command line",
		Long:          "Validates, adjusts and sizes equipment for water, fire and mold restoration estimates using the configured regional pricing rules.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = logger

			a.tables = rules.YorkPA()
			if a.rulesFile != "" {
				t, err := rules.Load(a.rulesFile)
				if err != nil {
					return err
				}
				a.tables = t
				a.logger.Debug("pricing rules loaded", zap.String("file", a.rulesFile), zap.String("region", t.Region))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.rulesFile, "rules", "", "YAML pricing rules file (default: built-in York, PA)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newValidateCmd(a), newAdjustCmd(a), newEquipmentCmd(a))
	return root
}

// readEstimateFile decodes an estimate written in the assessment shape.
func readEstimateFile(path string) (entities.Estimate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entities.Estimate{}, fmt.Errorf("read %s: %w", path, err)
	}
	return assessment.Decode(raw, "")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
