package database

import "fmt"

// Table definitions, primary entities before join tables so the foreign
// keys resolve.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY,
		adult BOOLEAN NOT NULL DEFAULT FALSE,
		backdrop_path TEXT,
		imdb_id TEXT,
		original_language TEXT,
		original_title TEXT,
		overview TEXT,
		popularity DOUBLE PRECISION,
		poster_path TEXT,
		release_date DATE,
		revenue BIGINT,
		runtime INTEGER,
		title TEXT,
		video BOOLEAN NOT NULL DEFAULT FALSE,
		vote_average DOUBLE PRECISION,
		vote_count INTEGER,
		director_name TEXT,
		director_profile_path TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS tvshows (
		id INTEGER PRIMARY KEY,
		adult BOOLEAN NOT NULL DEFAULT FALSE,
		backdrop_path TEXT,
		first_air_date DATE,
		last_air_date DATE,
		name TEXT,
		number_of_episodes INTEGER,
		number_of_seasons INTEGER,
		overview TEXT,
		popularity DOUBLE PRECISION,
		poster_path TEXT,
		type TEXT,
		vote_average DOUBLE PRECISION,
		vote_count INTEGER,
		director_name TEXT,
		director_profile_path TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS actors (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		profile_path TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id SERIAL PRIMARY KEY,
		movie_id INTEGER REFERENCES movies(id),
		tvshow_id INTEGER REFERENCES tvshows(id),
		video_key TEXT NOT NULL,
		name TEXT,
		site TEXT,
		type TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS watch_providers (
		tvshow_id INTEGER NOT NULL REFERENCES tvshows(id),
		provider_id INTEGER NOT NULL,
		provider_name TEXT,
		logo_path TEXT,
		PRIMARY KEY (tvshow_id, provider_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genre (
		movie_id INTEGER NOT NULL REFERENCES movies(id),
		genre_id INTEGER NOT NULL REFERENCES genres(id),
		PRIMARY KEY (movie_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_actor (
		movie_id INTEGER NOT NULL REFERENCES movies(id),
		actor_id INTEGER NOT NULL REFERENCES actors(id),
		PRIMARY KEY (movie_id, actor_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tvshow_genre (
		tvshow_id INTEGER NOT NULL REFERENCES tvshows(id),
		genre_id INTEGER NOT NULL REFERENCES genres(id),
		PRIMARY KEY (tvshow_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tvshow_actor (
		tvshow_id INTEGER NOT NULL REFERENCES tvshows(id),
		actor_id INTEGER NOT NULL REFERENCES actors(id),
		PRIMARY KEY (tvshow_id, actor_id)
	)`,
}

// InitSchema creates any missing tables. Existing tables are left alone;
// this is not a migration tool.
func (db *DB) InitSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
