package main

import (
	"fmt"

	"github.com/chazu/floorplan/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// rootOptions carries global flags and the state PersistentPreRunE builds
// from them.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "floorplan",
		Short: "Headless room-layout workspace",
		Long: `floorplan drives the room-layout editing core without a window.

Session scripts are small Lisp programs that select tools, place elements,
draw walls and edit the result exactly as pointer input would.

Examples:
  floorplan run room.fp                 # Run a script and print the scene
  floorplan run room.fp --meshes        # Include triangle meshes
  floorplan catalog                     # List placeable elements
  floorplan config init                 # Write floorplan.yaml with defaults`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			log, level, err := cfg.Logger()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if opts.logLevel != "" {
				lvl, err := zapcore.ParseLevel(opts.logLevel)
				if err != nil {
					return fmt.Errorf("invalid --log-level: %w", err)
				}
				level.SetLevel(lvl)
				cfg.Logging.Level = lvl.String()
			}
			opts.cfg, opts.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: ./floorplan.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(newRunCmd(opts), newCatalogCmd(), newConfigCmd(opts))
	return root
}
