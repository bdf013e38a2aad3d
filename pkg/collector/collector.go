package collector

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/marcusziade/gpqatracker/pkg/client"
	"github.com/marcusziade/gpqatracker/pkg/models"
	"github.com/marcusziade/gpqatracker/pkg/scores"
	"github.com/marcusziade/gpqatracker/pkg/store"
)

// Fetcher returns the visible text of a page.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Mirror receives the full store after every change.
type Mirror interface {
	SyncStore(s models.Store) error
}

// Progress is advanced once per source. *progressbar.ProgressBar satisfies it.
type Progress interface {
	Describe(description string)
	Add(num int) error
	Finish() error
}

// Result summarises one collector run.
type Result struct {
	Store    models.Store
	Changed  bool
	Seeded   bool
	Accepted int
	Rejected int
	Failed   []string
}

// Collector fetches every source, merges what it finds into the store on
// disk and writes the store back when something changed.
type Collector struct {
	fetcher   Fetcher
	storePath string
	sources   []scores.Source
	mirror    Mirror
	progress  Progress
	logger    *zap.Logger
	now       func() time.Time
}

// Option defines a collector option
type Option func(*Collector)

// WithSources replaces the built-in source list
func WithSources(sources []scores.Source) Option {
	return func(c *Collector) {
		c.sources = sources
	}
}

// WithMirror sets a mirror that is synced after the store is written
func WithMirror(m Mirror) Option {
	return func(c *Collector) {
		c.mirror = m
	}
}

// WithProgress sets a progress reporter
func WithProgress(p Progress) Option {
	return func(c *Collector) {
		c.progress = p
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the clock used for as_of dates
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// New creates a collector that reads and writes the store at storePath.
func New(fetcher Fetcher, storePath string, options ...Option) *Collector {
	c := &Collector{
		fetcher:   fetcher,
		storePath: storePath,
		sources:   scores.Sources(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Run performs one collection pass. Source failures are logged and skipped;
// only failing to lock, persist or mirror the store is returned as an error.
func (c *Collector) Run(ctx context.Context) (*Result, error) {
	unlock, err := store.Lock(ctx, c.storePath)
	if err != nil {
		return nil, eris.Wrap(err, "collector: lock store")
	}
	defer func() {
		if err := unlock(); err != nil {
			c.logger.Warn("failed to release store lock", zap.Error(err))
		}
	}()

	existing, err := store.Load(c.storePath)
	if err != nil {
		c.logger.Warn("existing store unreadable, starting empty",
			zap.String("path", c.storePath), zap.Error(err))
	}

	today := c.now().Format(time.DateOnly)
	combined := existing.Clone()
	res := &Result{}

	for _, src := range c.sources {
		if c.progress != nil {
			c.progress.Describe(src.Name)
		}

		found, err := c.collectSource(ctx, src)
		if err != nil {
			c.logger.Warn("source failed", zap.String("source", src.Name), zap.Error(err))
			res.Failed = append(res.Failed, src.Name)
		} else {
			var stats scores.MergeStats
			combined, stats = scores.Merge(combined, found, src.Name, today)
			res.Accepted += stats.Accepted
			res.Rejected += stats.Rejected
			c.logger.Info("source processed",
				zap.String("source", src.Name),
				zap.Int("found", len(found)),
				zap.Int("accepted", stats.Accepted),
				zap.Int("rejected", stats.Rejected))
		}

		if c.progress != nil {
			_ = c.progress.Add(1)
		}
	}
	if c.progress != nil {
		_ = c.progress.Finish()
	}

	if len(combined) == 0 {
		combined = scores.Seed(today)
		res.Seeded = true
		c.logger.Info("populated with seed scores (first run fallback)")
	}
	res.Store = combined

	if combined.Equal(existing) {
		c.logger.Info("no changes detected")
		return res, nil
	}

	if err := store.Save(c.storePath, combined); err != nil {
		return res, eris.Wrap(err, "collector: save store")
	}
	res.Changed = true
	c.logger.Info("wrote store", zap.String("path", c.storePath), zap.Int("records", len(combined)))

	if c.mirror != nil {
		if err := c.mirror.SyncStore(combined); err != nil {
			return res, eris.Wrap(err, "collector: mirror store")
		}
	}

	return res, nil
}

func (c *Collector) collectSource(ctx context.Context, src scores.Source) (map[string]float64, error) {
	text, err := c.fetcher.FetchText(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	return client.ExtractScores(text, src.Candidates), nil
}
