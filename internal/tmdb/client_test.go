package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinebatch/internal/config"
	"cinebatch/internal/logger"
)

const imageBase = "https://image.tmdb.org/t/p/w500"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log, err := logger.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	return NewClient(config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		ImageBaseURL: imageBase,
		Language:     "ko-KR",
		WatchRegion:  "KR",
	}, log)
}

func TestFetchMovie_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"The resource you requested could not be found."}`, http.StatusNotFound)
	}))

	_, err := client.FetchMovie(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchMovie_ParsesRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "videos,credits", r.URL.Query().Get("append_to_response"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "ko-KR", r.URL.Query().Get("language"))
		w.Write([]byte(`{
			"id": 603,
			"adult": false,
			"backdrop_path": "/backdrop.jpg",
			"poster_path": null,
			"imdb_id": "tt0133093",
			"original_language": "en",
			"original_title": "The Matrix",
			"overview": "A hacker learns the truth.",
			"popularity": 85.1,
			"release_date": "1999-03-30",
			"revenue": 463517383,
			"runtime": 136,
			"title": "The Matrix",
			"video": false,
			"vote_average": 8.2,
			"vote_count": 24000,
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}],
			"credits": {
				"cast": [
					{"id": 6384, "name": "Keanu Reeves", "profile_path": "/keanu.jpg"},
					{"id": 2975, "name": "Laurence Fishburne", "profile_path": null}
				],
				"crew": [
					{"job": "Producer", "name": "Joel Silver", "profile_path": "/joel.jpg"},
					{"job": "Director", "name": "Lana Wachowski", "profile_path": null}
				]
			},
			"videos": {"results": [{"key": "vKQi3bBA1y8", "name": "Trailer", "site": "YouTube", "type": "Trailer"}]}
		}`))
	})

	client := newTestClient(t, mux)
	rec, err := client.FetchMovie(context.Background(), 603)
	require.NoError(t, err)

	movie := rec.Movie
	assert.Equal(t, 603, movie.ID)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.Equal(t, imageBase+"/backdrop.jpg", movie.BackdropPath.String)
	assert.True(t, movie.BackdropPath.Valid)

	// Absent poster path stays null, never the bare base URL.
	assert.False(t, movie.PosterPath.Valid)
	assert.Empty(t, movie.PosterPath.String)

	assert.True(t, movie.ReleaseDate.Valid)
	assert.Equal(t, time.Date(1999, 3, 30, 0, 0, 0, 0, time.UTC), movie.ReleaseDate.Time)

	// Director found, but a missing profile path must not be prefixed.
	assert.Equal(t, "Lana Wachowski", movie.DirectorName.String)
	assert.True(t, movie.DirectorName.Valid)
	assert.False(t, movie.DirectorProfilePath.Valid)

	require.Len(t, rec.Genres, 2)
	assert.Equal(t, 28, rec.Genres[0].ID)
	assert.Equal(t, "Action", rec.Genres[0].Name)

	require.Len(t, rec.Cast, 2)
	assert.Equal(t, imageBase+"/keanu.jpg", rec.Cast[0].ProfilePath.String)
	assert.False(t, rec.Cast[1].ProfilePath.Valid)

	require.Len(t, rec.Videos, 1)
	assert.Equal(t, "vKQi3bBA1y8", rec.Videos[0].Key)
	assert.Equal(t, "YouTube", rec.Videos[0].Site)
}

func TestFetchMovie_NoDirector(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/100", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 100,
			"title": "Uncredited",
			"credits": {"cast": [], "crew": [{"job": "Editor", "name": "Someone", "profile_path": "/x.jpg"}]},
			"videos": {"results": []}
		}`))
	})

	client := newTestClient(t, mux)
	rec, err := client.FetchMovie(context.Background(), 100)
	require.NoError(t, err)

	assert.False(t, rec.Movie.DirectorName.Valid)
	assert.False(t, rec.Movie.DirectorProfilePath.Valid)
}

func TestFetchTVShow_ParsesRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tv/1396", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 1396,
			"adult": false,
			"backdrop_path": "/bb-backdrop.jpg",
			"poster_path": "/bb-poster.jpg",
			"created_by": [{"name": "Vince Gilligan", "profile_path": "/vince.jpg"}],
			"first_air_date": "2008-01-20",
			"last_air_date": "not-a-date",
			"name": "Breaking Bad",
			"number_of_episodes": 62,
			"number_of_seasons": 5,
			"overview": "A chemistry teacher turns to crime.",
			"popularity": 300.5,
			"type": "Scripted",
			"vote_average": 8.9,
			"vote_count": 12000,
			"genres": [{"id": 18, "name": "Drama"}],
			"credits": {"cast": [{"id": 17419, "name": "Bryan Cranston", "profile_path": "/bryan.jpg"}], "crew": []},
			"videos": {"results": [{"key": "HhesaQXLuRY", "name": "Trailer", "site": "YouTube", "type": "Trailer"}]}
		}`))
	})
	mux.HandleFunc("/tv/1396/watch/providers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"results": {
				"KR": {"flatrate": [
					{"provider_id": 8, "provider_name": "Netflix", "logo_path": "/netflix.jpg"},
					{"provider_id": 97, "provider_name": "Watcha", "logo_path": "/watcha.jpg"}
				]},
				"US": {"flatrate": [{"provider_id": 1, "provider_name": "Other", "logo_path": "/other.jpg"}]}
			}
		}`))
	})

	client := newTestClient(t, mux)
	rec, err := client.FetchTVShow(context.Background(), 1396)
	require.NoError(t, err)

	show := rec.TVShow
	assert.Equal(t, "Breaking Bad", show.Name)
	assert.Equal(t, 62, show.NumberOfEpisodes)
	assert.Equal(t, 5, show.NumberOfSeasons)

	assert.True(t, show.FirstAirDate.Valid)
	assert.Equal(t, time.Date(2008, 1, 20, 0, 0, 0, 0, time.UTC), show.FirstAirDate.Time)

	// A string that fails to parse as a calendar date is stored null.
	assert.False(t, show.LastAirDate.Valid)

	assert.Equal(t, "Vince Gilligan", show.DirectorName.String)
	assert.Equal(t, imageBase+"/vince.jpg", show.DirectorProfilePath.String)

	// Only the configured region's flat-rate tier is kept.
	require.Len(t, rec.Providers, 2)
	assert.Equal(t, 8, rec.Providers[0].ProviderID)
	assert.Equal(t, "Netflix", rec.Providers[0].ProviderName)
	assert.Equal(t, imageBase+"/netflix.jpg", rec.Providers[0].LogoPath)
}

func TestFetchTVShow_NoCreators(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tv/42", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 42, "name": "Anonymous", "created_by": [], "credits": {"cast": [], "crew": []}, "videos": {"results": []}}`))
	})
	mux.HandleFunc("/tv/42/watch/providers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": {}}`))
	})

	client := newTestClient(t, mux)
	rec, err := client.FetchTVShow(context.Background(), 42)
	require.NoError(t, err)

	assert.False(t, rec.TVShow.DirectorName.Valid)
	assert.False(t, rec.TVShow.DirectorProfilePath.Valid)
	assert.Empty(t, rec.Providers)
}

func TestFetchTVWatchProviders_MissingRegionOrTier(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tv/7/watch/providers", func(w http.ResponseWriter, r *http.Request) {
		// Region present but no flatrate tier.
		w.Write([]byte(`{"results": {"KR": {}}}`))
	})
	mux.HandleFunc("/tv/8/watch/providers", func(w http.ResponseWriter, r *http.Request) {
		// Region absent entirely.
		w.Write([]byte(`{"results": {"US": {"flatrate": [{"provider_id": 1, "provider_name": "X", "logo_path": "/x.jpg"}]}}}`))
	})

	client := newTestClient(t, mux)

	providers, err := client.FetchTVWatchProviders(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, providers)

	providers, err = client.FetchTVWatchProviders(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestDiscoverTVShows(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/discover/tv", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2020", r.URL.Query().Get("first_air_date_year"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Write([]byte(`{"page": 3, "results": [{"id": 101}, {"id": 102}, {"id": 103}]}`))
	})

	client := newTestClient(t, mux)
	ids, err := client.DiscoverTVShows(context.Background(), 2020, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{101, 102, 103}, ids)
}

func TestDiscoverMovies_UpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"Internal error"}`, http.StatusInternalServerError)
	}))

	_, err := client.DiscoverMovies(context.Background(), 2020, 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
