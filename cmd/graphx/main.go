package main

import (
	"fmt"
	"os"
	"runtime"

	"graphx/internal/config"
	"graphx/internal/logger"

	"github.com/spf13/cobra"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	debug      bool
	collisions bool
}

func newRootCommand() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:          "graphx",
		Short:        "Batched OpenGL renderer demo",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Logging.Debug); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			closer.Bind(func() {
				logger.Log.Info("Shutting down")
				logger.Sync()
			})

			config.Apply(cfg)
			if err := run(cfg); err != nil {
				logger.Log.Error("Demo failed", zap.Error(err))
				closer.Exit(1)
			}
			closer.Close()
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "engine YAML file; defaults apply when empty")
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "development logging at debug level")
	root.PersistentFlags().BoolVar(&f.collisions, "collisions", false, "draw mesh bounding boxes")

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	})
	return root
}

// loadConfig reads the config file if given and applies flag overrides
func loadConfig(f flags) (*config.Engine, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	if f.debug {
		cfg.Logging.Debug = true
	}
	if f.collisions {
		cfg.Renderer.DebugCollisions = true
	}
	return cfg, nil
}
