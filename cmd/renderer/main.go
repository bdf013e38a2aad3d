package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marcusziade/gpqatracker/pkg/chart"
	"github.com/marcusziade/gpqatracker/pkg/config"
	"github.com/marcusziade/gpqatracker/pkg/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "renderer",
	Short:        "Render the stored GPQA Diamond scores as a bar chart",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "renderer: load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "renderer: init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cfg)
	},
}

func render(cfg *config.Config) error {
	s, err := store.Read(cfg.Store.Path)
	if err != nil {
		return err
	}

	opts := chart.DefaultOptions(cfg.Chart.Path)
	if cfg.Chart.DPI > 0 {
		opts.DPI = cfg.Chart.DPI
	}
	if err := chart.Render(s, opts); err != nil {
		return err
	}

	zap.L().Info("wrote chart", zap.String("path", cfg.Chart.Path), zap.Int("models", len(s)))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("render failed", zap.Error(err))
		os.Exit(1)
	}
}
