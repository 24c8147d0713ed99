package ingest

import (
	"context"
	"errors"
	"fmt"

	"cinebatch/internal/config"
	"cinebatch/internal/database"
	"cinebatch/internal/logger"
	"cinebatch/internal/tmdb"
)

// metadataSource is the slice of the TMDB client the runner consumes.
type metadataSource interface {
	FetchMovie(ctx context.Context, id int) (*database.MovieRecord, error)
	FetchTVShow(ctx context.Context, id int) (*database.TVShowRecord, error)
	DiscoverMovies(ctx context.Context, year, page int) ([]int, error)
	DiscoverTVShows(ctx context.Context, year, page int) ([]int, error)
}

// mediaStore is the relational write surface the runner consumes.
type mediaStore interface {
	UpsertMovie(m *database.Movie) error
	UpsertTVShow(s *database.TVShow) error
	UpsertGenre(g *database.Genre) error
	UpsertActor(a *database.Actor) error
	LinkMovieGenre(movieID, genreID int) error
	LinkMovieActor(movieID, actorID int) error
	LinkTVShowGenre(tvShowID, genreID int) error
	LinkTVShowActor(tvShowID, actorID int) error
	InsertMovieVideo(movieID int, v *database.Video) error
	InsertTVShowVideo(tvShowID int, v *database.Video) error
	UpsertWatchProvider(tvShowID int, p *database.WatchProvider) error
}

// Runner drives the fetch-store loop. All work is strictly sequential:
// one upstream request or database write in flight at a time.
type Runner struct {
	cfg    *config.Config
	source metadataSource
	store  mediaStore
	log    *logger.Logger
}

func New(cfg *config.Config, source metadataSource, store mediaStore, log *logger.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		source: source,
		store:  store,
		log:    log,
	}
}

// reportWriteErr decides what a failed write means for the run: a
// connection-class error is returned so the run aborts, anything else is
// logged and swallowed so the loop moves on.
func (r *Runner) reportWriteErr(err error, method, what string) error {
	if database.IsConnError(err) {
		return err
	}
	r.log.Error("ingest", method, fmt.Sprintf("Failed to write %s: %v", what, err))
	return nil
}

// processMovie ingests a single movie id. A missing id or a failed fetch
// is logged and swallowed; only a lost database connection propagates.
func (r *Runner) processMovie(ctx context.Context, id int) error {
	rec, err := r.source.FetchMovie(ctx, id)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			r.log.NotFound("ingest", "processMovie", fmt.Sprintf("Movie %d not found", id))
			return nil
		}
		r.log.Error("ingest", "processMovie", fmt.Sprintf("Failed to fetch movie %d: %v", id, err))
		return nil
	}
	return r.storeMovie(rec)
}

// processTVShow is the TV counterpart of processMovie.
func (r *Runner) processTVShow(ctx context.Context, id int) error {
	rec, err := r.source.FetchTVShow(ctx, id)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			r.log.NotFound("ingest", "processTVShow", fmt.Sprintf("TV show %d not found", id))
			return nil
		}
		r.log.Error("ingest", "processTVShow", fmt.Sprintf("Failed to fetch TV show %d: %v", id, err))
		return nil
	}
	return r.storeTVShow(rec)
}

// storeMovie writes one record. The movie row goes first so join rows
// never reference a missing parent; the remaining steps are independent
// of each other, so one bad genre or actor costs only itself.
func (r *Runner) storeMovie(rec *database.MovieRecord) error {
	id := rec.Movie.ID

	if err := r.store.UpsertMovie(&rec.Movie); err != nil {
		return r.reportWriteErr(err, "storeMovie", fmt.Sprintf("movie %d", id))
	}

	for i := range rec.Genres {
		genre := &rec.Genres[i]
		if err := r.store.UpsertGenre(genre); err != nil {
			if fatal := r.reportWriteErr(err, "storeMovie", fmt.Sprintf("genre %d for movie %d", genre.ID, id)); fatal != nil {
				return fatal
			}
			continue
		}
		if err := r.store.LinkMovieGenre(id, genre.ID); err != nil {
			if fatal := r.reportWriteErr(err, "storeMovie", fmt.Sprintf("movie_genre (%d, %d)", id, genre.ID)); fatal != nil {
				return fatal
			}
		}
	}

	for i := range rec.Cast {
		actor := &rec.Cast[i]
		if err := r.store.UpsertActor(actor); err != nil {
			if fatal := r.reportWriteErr(err, "storeMovie", fmt.Sprintf("actor %d for movie %d", actor.ID, id)); fatal != nil {
				return fatal
			}
			continue
		}
		if err := r.store.LinkMovieActor(id, actor.ID); err != nil {
			if fatal := r.reportWriteErr(err, "storeMovie", fmt.Sprintf("movie_actor (%d, %d)", id, actor.ID)); fatal != nil {
				return fatal
			}
		}
	}

	for i := range rec.Videos {
		video := &rec.Videos[i]
		if err := r.store.InsertMovieVideo(id, video); err != nil {
			if fatal := r.reportWriteErr(err, "storeMovie", fmt.Sprintf("video %q for movie %d", video.Key, id)); fatal != nil {
				return fatal
			}
		}
	}

	r.log.Info("ingest", "storeMovie", fmt.Sprintf("Stored movie %d (%s)", id, rec.Movie.Title))
	return nil
}

// storeTVShow mirrors storeMovie and additionally writes the flat-rate
// watch providers.
func (r *Runner) storeTVShow(rec *database.TVShowRecord) error {
	id := rec.TVShow.ID

	if err := r.store.UpsertTVShow(&rec.TVShow); err != nil {
		return r.reportWriteErr(err, "storeTVShow", fmt.Sprintf("tvshow %d", id))
	}

	for i := range rec.Genres {
		genre := &rec.Genres[i]
		if err := r.store.UpsertGenre(genre); err != nil {
			if fatal := r.reportWriteErr(err, "storeTVShow", fmt.Sprintf("genre %d for tvshow %d", genre.ID, id)); fatal != nil {
				return fatal
			}
			continue
		}
		if err := r.store.LinkTVShowGenre(id, genre.ID); err != nil {
			if fatal := r.reportWriteErr(err, "storeTVShow", fmt.Sprintf("tvshow_genre (%d, %d)", id, genre.ID)); fatal != nil {
				return fatal
			}
		}
	}

	for i := range rec.Cast {
		actor := &rec.Cast[i]
		if err := r.store.UpsertActor(actor); err != nil {
			if fatal := r.reportWriteErr(err, "storeTVShow", fmt.Sprintf("actor %d for tvshow %d", actor.ID, id)); fatal != nil {
				return fatal
			}
			continue
		}
		if err := r.store.LinkTVShowActor(id, actor.ID); err != nil {
			if fatal := r.reportWriteErr(err, "storeTVShow", fmt.Sprintf("tvshow_actor (%d, %d)", id, actor.ID)); fatal != nil {
				return fatal
			}
		}
	}

	for i := range rec.Videos {
		video := &rec.Videos[i]
		if err := r.store.InsertTVShowVideo(id, video); err != nil {
			if fatal := r.reportWriteErr(err, "storeTVShow", fmt.Sprintf("video %q for tvshow %d", video.Key, id)); fatal != nil {
				return fatal
			}
		}
	}

	for i := range rec.Providers {
		provider := &rec.Providers[i]
		if err := r.store.UpsertWatchProvider(id, provider); err != nil {
			if fatal := r.reportWriteErr(err, "storeTVShow", fmt.Sprintf("watch provider %d for tvshow %d", provider.ProviderID, id)); fatal != nil {
				return fatal
			}
		}
	}

	r.log.Info("ingest", "storeTVShow", fmt.Sprintf("Stored tvshow %d (%s)", id, rec.TVShow.Name))
	return nil
}
