package tmdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"cinebatch/internal/config"
	"cinebatch/internal/database"
	"cinebatch/internal/logger"
)

// ErrNotFound is returned when TMDB has no record for the requested id.
// Callers are expected to skip these ids, not abort.
var ErrNotFound = errors.New("tmdb: not found")

var apiKeyPattern = regexp.MustCompile(`api_key=[^&]+`)

type Client struct {
	cfg    config.TMDBConfig
	log    *logger.Logger
	client *http.Client
}

func NewClient(cfg config.TMDBConfig, log *logger.Logger) *Client {
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		cfg:    cfg,
		log:    log,
		client: client,
	}
}

// get performs one API request and returns the raw body. The api_key is
// appended here so callers never handle the credential, and is redacted
// from logged URLs.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, params.Encode())
	c.log.Debug("tmdb", "get", fmt.Sprintf("Requesting %s", apiKeyPattern.ReplaceAllString(reqURL, "api_key=REDACTED")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned non-200 status: %s, Body: %s", resp.Status, string(body))
	}

	return io.ReadAll(resp.Body)
}

// imageURL expands a relative image path against the CDN base. An absent
// path stays null; the base URL is never stored on its own.
func (c *Client) imageURL(path string) sql.NullString {
	if path == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: c.cfg.ImageBaseURL + path, Valid: true}
}

// parseDate keeps a date only when it is a real calendar date.
func parseDate(value string) sql.NullTime {
	if value == "" {
		return sql.NullTime{}
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: date, Valid: true}
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

// FetchMovie retrieves one movie with its trailers and credits embedded.
func (c *Client) FetchMovie(ctx context.Context, id int) (*database.MovieRecord, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos,credits")
	params.Set("language", c.cfg.Language)

	body, err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	var details movieDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to decode movie %d: %w", id, err)
	}

	movie := database.Movie{
		ID:               details.ID,
		Adult:            details.Adult,
		BackdropPath:     c.imageURL(details.BackdropPath),
		ImdbID:           nullString(details.ImdbID),
		OriginalLanguage: details.OriginalLanguage,
		OriginalTitle:    details.OriginalTitle,
		Overview:         details.Overview,
		Popularity:       details.Popularity,
		PosterPath:       c.imageURL(details.PosterPath),
		ReleaseDate:      parseDate(details.ReleaseDate),
		Revenue:          details.Revenue,
		Runtime:          details.Runtime,
		Title:            details.Title,
		Video:            details.Video,
		VoteAverage:      details.VoteAverage,
		VoteCount:        details.VoteCount,
	}

	for _, member := range details.Credits.Crew {
		if member.Job == "Director" {
			movie.DirectorName = nullString(member.Name)
			movie.DirectorProfilePath = c.imageURL(member.ProfilePath)
			break
		}
	}

	return &database.MovieRecord{
		Movie:  movie,
		Genres: convertGenres(details.Genres),
		Cast:   c.convertCast(details.Credits.Cast),
		Videos: convertVideos(details.Videos.Results),
	}, nil
}

// FetchTVShow retrieves one show with trailers and credits embedded, plus
// its flat-rate watch providers for the configured region.
func (c *Client) FetchTVShow(ctx context.Context, id int) (*database.TVShowRecord, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos,credits")
	params.Set("language", c.cfg.Language)

	body, err := c.get(ctx, fmt.Sprintf("/tv/%d", id), params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get tvshow %d: %w", id, err)
	}

	var details tvShowDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to decode tvshow %d: %w", id, err)
	}

	show := database.TVShow{
		ID:               details.ID,
		Adult:            details.Adult,
		BackdropPath:     c.imageURL(details.BackdropPath),
		FirstAirDate:     parseDate(details.FirstAirDate),
		LastAirDate:      parseDate(details.LastAirDate),
		Name:             details.Name,
		NumberOfEpisodes: details.NumberOfEpisodes,
		NumberOfSeasons:  details.NumberOfSeasons,
		Overview:         details.Overview,
		Popularity:       details.Popularity,
		PosterPath:       c.imageURL(details.PosterPath),
		Type:             details.Type,
		VoteAverage:      details.VoteAverage,
		VoteCount:        details.VoteCount,
	}

	if len(details.CreatedBy) > 0 {
		creator := details.CreatedBy[0]
		show.DirectorName = nullString(creator.Name)
		show.DirectorProfilePath = c.imageURL(creator.ProfilePath)
	}

	providers, err := c.FetchTVWatchProviders(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch providers for tvshow %d: %w", id, err)
	}

	return &database.TVShowRecord{
		TVShow:    show,
		Genres:    convertGenres(details.Genres),
		Cast:      c.convertCast(details.Credits.Cast),
		Videos:    convertVideos(details.Videos.Results),
		Providers: providers,
	}, nil
}

// FetchTVWatchProviders returns the flat-rate offerings for the
// configured region. A region with no entry, or an entry without a
// flatrate tier, yields an empty list.
func (c *Client) FetchTVWatchProviders(ctx context.Context, id int) ([]database.WatchProvider, error) {
	body, err := c.get(ctx, fmt.Sprintf("/tv/%d/watch/providers", id), nil)
	if err != nil {
		return nil, err
	}

	var response watchProvidersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode watch providers: %w", err)
	}

	var providers []database.WatchProvider
	for _, p := range response.Results[c.cfg.WatchRegion].Flatrate {
		providers = append(providers, database.WatchProvider{
			ProviderID:   p.ProviderID,
			ProviderName: p.ProviderName,
			LogoPath:     c.cfg.ImageBaseURL + p.LogoPath,
		})
	}
	return providers, nil
}

// DiscoverMovies returns the movie ids on one page of the discover
// endpoint filtered to a release year. An empty result marks the last
// page.
func (c *Client) DiscoverMovies(ctx context.Context, year, page int) ([]int, error) {
	params := url.Values{}
	params.Set("primary_release_year", fmt.Sprintf("%d", year))
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("language", c.cfg.Language)

	return c.discover(ctx, "/discover/movie", params)
}

// DiscoverTVShows is the TV counterpart of DiscoverMovies.
func (c *Client) DiscoverTVShows(ctx context.Context, year, page int) ([]int, error) {
	params := url.Values{}
	params.Set("first_air_date_year", fmt.Sprintf("%d", year))
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("language", c.cfg.Language)

	return c.discover(ctx, "/discover/tv", params)
}

func (c *Client) discover(ctx context.Context, path string, params url.Values) ([]int, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to discover: %w", err)
	}

	var response discoverResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode discover response: %w", err)
	}

	var ids []int
	for _, result := range response.Results {
		ids = append(ids, result.ID)
	}
	return ids, nil
}

func convertGenres(in []genreData) []database.Genre {
	var genres []database.Genre
	for _, g := range in {
		genres = append(genres, database.Genre{ID: g.ID, Name: g.Name})
	}
	return genres
}

func (c *Client) convertCast(in []castData) []database.Actor {
	var cast []database.Actor
	for _, member := range in {
		cast = append(cast, database.Actor{
			ID:          member.ID,
			Name:        member.Name,
			ProfilePath: c.imageURL(member.ProfilePath),
		})
	}
	return cast
}

func convertVideos(in []videoData) []database.Video {
	var videos []database.Video
	for _, v := range in {
		videos = append(videos, database.Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type})
	}
	return videos
}
