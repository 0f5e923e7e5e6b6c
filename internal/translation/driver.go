package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/globaltime"
)

// Syncer synchronizes one unit. *Engine implements it.
type Syncer interface {
	SyncOne(ctx context.Context, unit Unit, opts RunOptions) (SyncReport, error)
}

// BatchProgress reports unit-level progress for batch runs.
type BatchProgress struct {
	Current int
	Total   int
	Key     string
}

// BatchOptions controls one SyncAll call.
type BatchOptions struct {
	RunOptions
	Progress func(BatchProgress)
	OnReport func(SyncReport)
}

// Driver runs an engine over a list of units, one unit at a time.
type Driver struct {
	syncer Syncer
	logger zerolog.Logger
}

func NewDriver(syncer Syncer, logger zerolog.Logger) *Driver {
	return &Driver{syncer: syncer, logger: logger}
}

// SyncAll processes units strictly in input order and returns one report per
// processed unit, in the same order. A unit that returns an error or panics gets
// a report with a single failed entry and the run moves on. The returned error is
// non-nil only when ctx is cancelled; the reports gathered so far are still returned.
func (d *Driver) SyncAll(ctx context.Context, units []Unit, opts BatchOptions) ([]SyncReport, error) {
	if d == nil || d.syncer == nil {
		return nil, fmt.Errorf("sync driver is not initialized")
	}

	reports := make([]SyncReport, 0, len(units))
	for idx, unit := range units {
		if err := ctx.Err(); err != nil {
			d.logger.Warn().Err(err).Int("processed", idx).Int("total", len(units)).Msg("batch sync cancelled")
			return reports, err
		}

		if opts.Progress != nil {
			opts.Progress(BatchProgress{
				Current: idx + 1,
				Total:   len(units),
				Key:     strings.TrimSpace(unit.Key),
			})
		}

		report, err := d.syncUnit(ctx, unit, opts.RunOptions)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				reports = append(reports, report)
				d.notify(opts, report)
				return reports, ctxErr
			}
			d.logger.Warn().Err(err).Str("key", unit.Key).Msg("unit sync failed")
			report = failedUnitReport(unit, report, err)
		}

		reports = append(reports, report)
		d.notify(opts, report)
	}

	return reports, nil
}

func (d *Driver) syncUnit(ctx context.Context, unit Unit, opts RunOptions) (report SyncReport, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("unexpected panic: %v", recovered)
		}
	}()
	return d.syncer.SyncOne(ctx, unit, opts)
}

func (d *Driver) notify(opts BatchOptions, report SyncReport) {
	if opts.OnReport != nil {
		opts.OnReport(report)
	}
}

// failedUnitReport replaces whatever partial outcome a unit produced with one
// failed entry covering all of its languages.
func failedUnitReport(unit Unit, partial SyncReport, err error) SyncReport {
	report := SyncReport{
		Key:        strings.TrimSpace(unit.Key),
		Context:    strings.TrimSpace(unit.Context),
		StartedAt:  partial.StartedAt,
		FinishedAt: globaltime.UTC(),
	}
	if report.StartedAt.IsZero() {
		report.StartedAt = report.FinishedAt
	}
	report.add(AllLanguages, OutcomeFailed, err.Error())
	return report
}
