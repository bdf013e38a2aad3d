package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marcusziade/gpqatracker/pkg/client"
	"github.com/marcusziade/gpqatracker/pkg/collector"
	"github.com/marcusziade/gpqatracker/pkg/config"
	"github.com/marcusziade/gpqatracker/pkg/db"
	"github.com/marcusziade/gpqatracker/pkg/scores"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "collector",
	Short:        "Scrape GPQA Diamond scores and merge them into the local store",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "collector: load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "collector: init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: run,
}

func run(cmd *cobra.Command, _ []string) error {
	log := zap.L()

	fetcher := client.NewClient(
		client.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		client.WithUserAgent(cfg.Fetch.UserAgent),
		client.WithMaxBodySize(cfg.Fetch.MaxBodyBytes),
	)

	opts := []collector.Option{collector.WithLogger(log)}

	if cfg.Fetch.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		opts = append(opts, collector.WithProgress(newProgressBar(len(scores.Sources()))))
	}

	var mirror *db.DB
	if cfg.DB.Path != "" {
		m, err := db.New(cfg.DB.Path)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.InitSchema(); err != nil {
			return err
		}
		mirror = m
		opts = append(opts, collector.WithMirror(mirror))
	}

	res, err := collector.New(fetcher, cfg.Store.Path, opts...).Run(cmd.Context())
	if err != nil {
		return err
	}

	records, err := summaryRecords(res, mirror)
	if err != nil {
		return err
	}

	fmt.Println(renderSummary(res, records))
	return nil
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("collect failed", zap.Error(err))
		os.Exit(1)
	}
}
