// Package pipeline runs the batch segmentation sequence over an
// in-memory row set: clean, aggregate, score, classify. Stages only
// ever feed forward.
package pipeline

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/rfmkit-dev/rfmkit/internal/cleaner"
	"github.com/rfmkit-dev/rfmkit/internal/config"
	"github.com/rfmkit-dev/rfmkit/internal/model"
	"github.com/rfmkit-dev/rfmkit/internal/rfm"
	"github.com/rfmkit-dev/rfmkit/internal/segment"
)

// Result is the fully segmented table plus run metadata. Scored and
// Assignments are index-aligned, both sorted by customer ID.
type Result struct {
	Scored      []model.ScoredRFM
	Assignments []model.Assignment
	Quality     cleaner.Report
	Snapshot    time.Time
	Bins        int
}

// Options tune a pipeline run.
type Options struct {
	Logger   *zap.Logger
	Progress bool // show a row-level progress bar during cleaning
}

// Run executes the full pipeline over raw rows. Row-level problems are
// dropped and tallied; an input yielding no usable rows is fatal.
func Run(rows []model.RawRow, cfg *config.Config, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	txns, quality := cleanRows(rows, opts.Progress)
	logger.Info("cleaned input",
		zap.Int("total", quality.Total),
		zap.Int("kept", quality.Kept),
		zap.Int("dropped", quality.DroppedTotal()))
	for reason, n := range quality.Dropped {
		logger.Debug("drop tally", zap.String("reason", string(reason)), zap.Int("rows", n))
	}
	if len(txns) == 0 {
		return nil, cleaner.ErrNoUsableRows
	}

	reference, err := cfg.SnapshotTime()
	if err != nil {
		return nil, err
	}
	snapshot, err := rfm.SnapshotDate(txns, reference)
	if err != nil {
		return nil, err
	}

	records, err := rfm.Aggregate(txns, reference)
	if err != nil {
		return nil, fmt.Errorf("aggregating: %w", err)
	}
	logger.Info("aggregated customers",
		zap.Int("customers", len(records)),
		zap.Time("snapshot", snapshot))

	scored, err := rfm.Score(records, cfg.Bins)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}

	rules := segment.Rules(cfg.Thresholds)
	assignments := segment.Classify(scored, rules)
	logger.Info("classified segments", zap.Int("customers", len(assignments)))

	return &Result{
		Scored:      scored,
		Assignments: assignments,
		Quality:     quality,
		Snapshot:    snapshot,
		Bins:        cfg.Bins,
	}, nil
}

// cleanRows is cleaner.Clean driven row by row so a progress bar can
// track large exports.
func cleanRows(rows []model.RawRow, progress bool) ([]model.Transaction, cleaner.Report) {
	report := cleaner.Report{Total: len(rows), Dropped: make(map[cleaner.DropReason]int)}

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(int64(len(rows)), "cleaning")
	}

	var txns []model.Transaction
	for _, row := range rows {
		txn, reason := cleaner.CleanRow(row)
		if reason == cleaner.DropNone {
			txns = append(txns, txn)
		} else {
			report.Dropped[reason]++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	report.Kept = len(txns)
	return txns, report
}
