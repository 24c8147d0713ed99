package ingest

import (
	"context"
	"fmt"

	"cinebatch/internal/config"
	"cinebatch/internal/database"
)

// ScanMovieRange walks the inclusive id interval [start, end] in order.
// A reversed range is a no-op. Only a lost database connection stops the
// scan early.
func (r *Runner) ScanMovieRange(ctx context.Context, start, end int) error {
	for id := start; id <= end; id++ {
		if err := r.processMovie(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// ScanTVShowRange is the TV counterpart of ScanMovieRange.
func (r *Runner) ScanTVShowRange(ctx context.Context, start, end int) error {
	for id := start; id <= end; id++ {
		if err := r.processTVShow(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DiscoverMovieYear pages the discover endpoint for one release year
// until a page comes back empty, then ingests every collected id. A
// failed page request aborts the year: later pages cannot be reached
// once discovery itself breaks.
func (r *Runner) DiscoverMovieYear(ctx context.Context, year int) error {
	var ids []int
	for page := 1; ; page++ {
		pageIDs, err := r.source.DiscoverMovies(ctx, year, page)
		if err != nil {
			return fmt.Errorf("failed to discover movies for year %d page %d: %w", year, page, err)
		}
		if len(pageIDs) == 0 {
			break
		}
		ids = append(ids, pageIDs...)
	}

	r.log.Info("ingest", "DiscoverMovieYear", fmt.Sprintf("Discovered %d movies for year %d", len(ids), year))

	for _, id := range ids {
		if err := r.processMovie(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DiscoverTVShowYear is the TV counterpart of DiscoverMovieYear.
func (r *Runner) DiscoverTVShowYear(ctx context.Context, year int) error {
	var ids []int
	for page := 1; ; page++ {
		pageIDs, err := r.source.DiscoverTVShows(ctx, year, page)
		if err != nil {
			return fmt.Errorf("failed to discover TV shows for year %d page %d: %w", year, page, err)
		}
		if len(pageIDs) == 0 {
			break
		}
		ids = append(ids, pageIDs...)
	}

	r.log.Info("ingest", "DiscoverTVShowYear", fmt.Sprintf("Discovered %d TV shows for year %d", len(ids), year))

	for _, id := range ids {
		if err := r.processTVShow(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Run executes one full ingestion pass in the configured mode. It
// returns an error only when the database connection is lost; everything
// else has already been logged and skipped further down.
func (r *Runner) Run(ctx context.Context) error {
	ing := r.cfg.Ingest
	r.log.Info("ingest", "Run", fmt.Sprintf("Starting ingestion run in %q mode", ing.Mode))

	var err error
	switch ing.Mode {
	case config.ModeRange:
		err = r.runRange(ctx, ing.StartID, ing.EndID)
	case config.ModeSweep:
		err = r.runSweep(ctx, ing.StartID, ing.EndID, ing.ChunkSize)
	case config.ModeYears:
		err = r.runYears(ctx, ing.StartYear, ing.EndYear)
	default:
		err = fmt.Errorf("unknown ingest mode %q", ing.Mode)
	}

	if err != nil {
		r.log.Error("ingest", "Run", fmt.Sprintf("Ingestion run aborted: %v", err))
		return err
	}

	r.log.Info("ingest", "Run", "Ingestion run finished")
	return nil
}

// runRange processes one fixed id range, movies first, then TV shows.
func (r *Runner) runRange(ctx context.Context, start, end int) error {
	if err := r.ScanMovieRange(ctx, start, end); err != nil {
		return err
	}
	return r.ScanTVShowRange(ctx, start, end)
}

// runSweep advances a fixed-width window across the id space,
// alternating TV and movie processing per window.
func (r *Runner) runSweep(ctx context.Context, start, end, chunk int) error {
	for lo := start; lo <= end; lo += chunk {
		hi := lo + chunk - 1
		if hi > end {
			hi = end
		}
		r.log.Info("ingest", "runSweep", fmt.Sprintf("Sweeping ids [%d, %d]", lo, hi))
		if err := r.ScanTVShowRange(ctx, lo, hi); err != nil {
			return err
		}
		if err := r.ScanMovieRange(ctx, lo, hi); err != nil {
			return err
		}
	}
	return nil
}

// runYears sweeps discovery from startYear down to endYear inclusive. A
// broken year (discovery page failure) is logged and the sweep moves on;
// a lost connection ends the run.
func (r *Runner) runYears(ctx context.Context, startYear, endYear int) error {
	for year := startYear; year >= endYear; year-- {
		if err := r.DiscoverTVShowYear(ctx, year); err != nil {
			if database.IsConnError(err) {
				return err
			}
			r.log.Error("ingest", "runYears", fmt.Sprintf("TV discovery failed for year %d: %v", year, err))
		}
		if err := r.DiscoverMovieYear(ctx, year); err != nil {
			if database.IsConnError(err) {
				return err
			}
			r.log.Error("ingest", "runYears", fmt.Sprintf("Movie discovery failed for year %d: %v", year, err))
		}
	}
	return nil
}
