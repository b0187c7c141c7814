// Package cli: команды бинарника exporter.
package cli

import (
	"context"
	"fmt"

	"design-exporter/internal/common/config"
	"design-exporter/internal/common/logger"

	"github.com/spf13/cobra"
)

type contextKey struct{}

// GlobalFlags: флаги, общие для всех команд.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCmd создаёт корневую команду: до запуска подкоманды загружается
// конфигурация и настраивается логгер.
func NewRootCmd() *cobra.Command {
	flags := &GlobalFlags{}

	root := &cobra.Command{
		Use:   "exporter",
		Short: "Export canvas designs as Flutter projects",
		Long: `exporter turns a room's canvas design into a downloadable Flutter project.

Two independent paths are available:
  template  deterministic code from the design layers
  ai        canvas capture, structure inference and code generation by external models`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if flags.Verbose {
				cfg.Log.Level = "debug"
			}
			logger.Init(cfg.Log)
			cmd.SetContext(context.WithValue(cmd.Context(), contextKey{}, cfg))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "config file path")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(NewServeCmd())
	root.AddCommand(NewTemplateCmd())
	return root
}

// configFrom достаёт конфигурацию, загруженную корневой командой.
func configFrom(cmd *cobra.Command) (*config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("command context not initialized")
	}
	cfg, ok := ctx.Value(contextKey{}).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("config not loaded")
	}
	return cfg, nil
}
