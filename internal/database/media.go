package database

import (
	"database/sql"
	"fmt"
)

// Movie mirrors one row of the movies table. The TMDB id doubles as the
// primary key.
type Movie struct {
	ID                  int            `json:"id"`
	Adult               bool           `json:"adult"`
	BackdropPath        sql.NullString `json:"backdrop_path"`
	ImdbID              sql.NullString `json:"imdb_id"`
	OriginalLanguage    string         `json:"original_language"`
	OriginalTitle       string         `json:"original_title"`
	Overview            string         `json:"overview"`
	Popularity          float64        `json:"popularity"`
	PosterPath          sql.NullString `json:"poster_path"`
	ReleaseDate         sql.NullTime   `json:"release_date"`
	Revenue             int64          `json:"revenue"`
	Runtime             int            `json:"runtime"`
	Title               string         `json:"title"`
	Video               bool           `json:"video"`
	VoteAverage         float64        `json:"vote_average"`
	VoteCount           int            `json:"vote_count"`
	DirectorName        sql.NullString `json:"director_name"`
	DirectorProfilePath sql.NullString `json:"director_profile_path"`
}

// TVShow mirrors one row of the tvshows table.
type TVShow struct {
	ID                  int            `json:"id"`
	Adult               bool           `json:"adult"`
	BackdropPath        sql.NullString `json:"backdrop_path"`
	FirstAirDate        sql.NullTime   `json:"first_air_date"`
	LastAirDate         sql.NullTime   `json:"last_air_date"`
	Name                string         `json:"name"`
	NumberOfEpisodes    int            `json:"number_of_episodes"`
	NumberOfSeasons     int            `json:"number_of_seasons"`
	Overview            string         `json:"overview"`
	Popularity          float64        `json:"popularity"`
	PosterPath          sql.NullString `json:"poster_path"`
	Type                string         `json:"type"`
	VoteAverage         float64        `json:"vote_average"`
	VoteCount           int            `json:"vote_count"`
	DirectorName        sql.NullString `json:"director_name"`
	DirectorProfilePath sql.NullString `json:"director_profile_path"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Actor struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	ProfilePath sql.NullString `json:"profile_path"`
}

// Video is a trailer, teaser or clip attached to a movie or show. It has
// no identity beyond the owning media id and provider key.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type WatchProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// MovieRecord is one fully fetched movie plus everything hanging off it,
// the unit handed from the fetcher to the writer.
type MovieRecord struct {
	Movie  Movie
	Genres []Genre
	Cast   []Actor
	Videos []Video
}

// TVShowRecord is the TV counterpart of MovieRecord.
type TVShowRecord struct {
	TVShow    TVShow
	Genres    []Genre
	Cast      []Actor
	Videos    []Video
	Providers []WatchProvider
}

// UpsertMovie inserts the movie row, overwriting every column when the id
// already exists. Vote counts and popularity drift between runs, so the
// latest fetch wins.
func (db *DB) UpsertMovie(m *Movie) error {
	query := `
		INSERT INTO movies (
			id, adult, backdrop_path, imdb_id, original_language, original_title,
			overview, popularity, poster_path, release_date, revenue, runtime,
			title, video, vote_average, vote_count, director_name, director_profile_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			adult = EXCLUDED.adult,
			backdrop_path = EXCLUDED.backdrop_path,
			imdb_id = EXCLUDED.imdb_id,
			original_language = EXCLUDED.original_language,
			original_title = EXCLUDED.original_title,
			overview = EXCLUDED.overview,
			popularity = EXCLUDED.popularity,
			poster_path = EXCLUDED.poster_path,
			release_date = EXCLUDED.release_date,
			revenue = EXCLUDED.revenue,
			runtime = EXCLUDED.runtime,
			title = EXCLUDED.title,
			video = EXCLUDED.video,
			vote_average = EXCLUDED.vote_average,
			vote_count = EXCLUDED.vote_count,
			director_name = EXCLUDED.director_name,
			director_profile_path = EXCLUDED.director_profile_path
	`
	_, err := db.Exec(query,
		m.ID, m.Adult, m.BackdropPath, m.ImdbID, m.OriginalLanguage, m.OriginalTitle,
		m.Overview, m.Popularity, m.PosterPath, m.ReleaseDate, m.Revenue, m.Runtime,
		m.Title, m.Video, m.VoteAverage, m.VoteCount, m.DirectorName, m.DirectorProfilePath,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert movie %d: %w", m.ID, err)
	}
	return nil
}

// UpsertTVShow inserts the show row, overwriting every column when the id
// already exists.
func (db *DB) UpsertTVShow(s *TVShow) error {
	query := `
		INSERT INTO tvshows (
			id, adult, backdrop_path, first_air_date, last_air_date, name,
			number_of_episodes, number_of_seasons, overview, popularity,
			poster_path, type, vote_average, vote_count, director_name, director_profile_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			adult = EXCLUDED.adult,
			backdrop_path = EXCLUDED.backdrop_path,
			first_air_date = EXCLUDED.first_air_date,
			last_air_date = EXCLUDED.last_air_date,
			name = EXCLUDED.name,
			number_of_episodes = EXCLUDED.number_of_episodes,
			number_of_seasons = EXCLUDED.number_of_seasons,
			overview = EXCLUDED.overview,
			popularity = EXCLUDED.popularity,
			poster_path = EXCLUDED.poster_path,
			type = EXCLUDED.type,
			vote_average = EXCLUDED.vote_average,
			vote_count = EXCLUDED.vote_count,
			director_name = EXCLUDED.director_name,
			director_profile_path = EXCLUDED.director_profile_path
	`
	_, err := db.Exec(query,
		s.ID, s.Adult, s.BackdropPath, s.FirstAirDate, s.LastAirDate, s.Name,
		s.NumberOfEpisodes, s.NumberOfSeasons, s.Overview, s.Popularity,
		s.PosterPath, s.Type, s.VoteAverage, s.VoteCount, s.DirectorName, s.DirectorProfilePath,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tvshow %d: %w", s.ID, err)
	}
	return nil
}

// UpsertGenre writes the genre if absent and leaves an existing row
// untouched.
func (db *DB) UpsertGenre(g *Genre) error {
	query := `
		INSERT INTO genres (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := db.Exec(query, g.ID, g.Name); err != nil {
		return fmt.Errorf("failed to upsert genre %d: %w", g.ID, err)
	}
	return nil
}

// UpsertActor writes the actor if absent and leaves an existing row
// untouched.
func (db *DB) UpsertActor(a *Actor) error {
	query := `
		INSERT INTO actors (id, name, profile_path) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := db.Exec(query, a.ID, a.Name, a.ProfilePath); err != nil {
		return fmt.Errorf("failed to upsert actor %d: %w", a.ID, err)
	}
	return nil
}

func (db *DB) LinkMovieGenre(movieID, genreID int) error {
	query := `
		INSERT INTO movie_genre (movie_id, genre_id) VALUES ($1, $2)
		ON CONFLICT (movie_id, genre_id) DO NOTHING
	`
	if _, err := db.Exec(query, movieID, genreID); err != nil {
		return fmt.Errorf("failed to link movie %d to genre %d: %w", movieID, genreID, err)
	}
	return nil
}

func (db *DB) LinkMovieActor(movieID, actorID int) error {
	query := `
		INSERT INTO movie_actor (movie_id, actor_id) VALUES ($1, $2)
		ON CONFLICT (movie_id, actor_id) DO NOTHING
	`
	if _, err := db.Exec(query, movieID, actorID); err != nil {
		return fmt.Errorf("failed to link movie %d to actor %d: %w", movieID, actorID, err)
	}
	return nil
}

func (db *DB) LinkTVShowGenre(tvShowID, genreID int) error {
	query := `
		INSERT INTO tvshow_genre (tvshow_id, genre_id) VALUES ($1, $2)
		ON CONFLICT (tvshow_id, genre_id) DO NOTHING
	`
	if _, err := db.Exec(query, tvShowID, genreID); err != nil {
		return fmt.Errorf("failed to link tvshow %d to genre %d: %w", tvShowID, genreID, err)
	}
	return nil
}

func (db *DB) LinkTVShowActor(tvShowID, actorID int) error {
	query := `
		INSERT INTO tvshow_actor (tvshow_id, actor_id) VALUES ($1, $2)
		ON CONFLICT (tvshow_id, actor_id) DO NOTHING
	`
	if _, err := db.Exec(query, tvShowID, actorID); err != nil {
		return fmt.Errorf("failed to link tvshow %d to actor %d: %w", tvShowID, actorID, err)
	}
	return nil
}

// InsertMovieVideo inserts unconditionally. Videos carry no natural key,
// so re-ingesting an id accumulates duplicate rows; known limitation.
func (db *DB) InsertMovieVideo(movieID int, v *Video) error {
	query := `
		INSERT INTO videos (movie_id, video_key, name, site, type)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := db.Exec(query, movieID, v.Key, v.Name, v.Site, v.Type); err != nil {
		return fmt.Errorf("failed to insert video %q for movie %d: %w", v.Key, movieID, err)
	}
	return nil
}

// InsertTVShowVideo inserts unconditionally, like InsertMovieVideo.
func (db *DB) InsertTVShowVideo(tvShowID int, v *Video) error {
	query := `
		INSERT INTO videos (tvshow_id, video_key, name, site, type)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := db.Exec(query, tvShowID, v.Key, v.Name, v.Site, v.Type); err != nil {
		return fmt.Errorf("failed to insert video %q for tvshow %d: %w", v.Key, tvShowID, err)
	}
	return nil
}

// UpsertWatchProvider writes one flat-rate provider offering if absent.
func (db *DB) UpsertWatchProvider(tvShowID int, p *WatchProvider) error {
	query := `
		INSERT INTO watch_providers (tvshow_id, provider_id, provider_name, logo_path)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tvshow_id, provider_id) DO NOTHING
	`
	if _, err := db.Exec(query, tvShowID, p.ProviderID, p.ProviderName, p.LogoPath); err != nil {
		return fmt.Errorf("failed to upsert watch provider %d for tvshow %d: %w", p.ProviderID, tvShowID, err)
	}
	return nil
}
