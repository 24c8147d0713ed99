package tmdb

// Response shapes for the TMDB v3 API. Decoded once here; everything
// downstream works with the database models.

type genreData struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type castData struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

type crewData struct {
	Job         string `json:"job"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

type creatorData struct {
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

type videoData struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type videoList struct {
	Results []videoData `json:"results"`
}

type creditsData struct {
	Cast []castData `json:"cast"`
	Crew []crewData `json:"crew"`
}

type movieDetails struct {
	ID               int         `json:"id"`
	Adult            bool        `json:"adult"`
	BackdropPath     string      `json:"backdrop_path"`
	Genres           []genreData `json:"genres"`
	ImdbID           string      `json:"imdb_id"`
	OriginalLanguage string      `json:"original_language"`
	OriginalTitle    string      `json:"original_title"`
	Overview         string      `json:"overview"`
	Popularity       float64     `json:"popularity"`
	PosterPath       string      `json:"poster_path"`
	ReleaseDate      string      `json:"release_date"`
	Revenue          int64       `json:"revenue"`
	Runtime          int         `json:"runtime"`
	Title            string      `json:"title"`
	Video            bool        `json:"video"`
	VoteAverage      float64     `json:"vote_average"`
	VoteCount        int         `json:"vote_count"`
	Videos           videoList   `json:"videos"`
	Credits          creditsData `json:"credits"`
}

type tvShowDetails struct {
	ID               int           `json:"id"`
	Adult            bool          `json:"adult"`
	BackdropPath     string        `json:"backdrop_path"`
	CreatedBy        []creatorData `json:"created_by"`
	FirstAirDate     string        `json:"first_air_date"`
	LastAirDate      string        `json:"last_air_date"`
	Genres           []genreData   `json:"genres"`
	Name             string        `json:"name"`
	NumberOfEpisodes int           `json:"number_of_episodes"`
	NumberOfSeasons  int           `json:"number_of_seasons"`
	Overview         string        `json:"overview"`
	Popularity       float64       `json:"popularity"`
	PosterPath       string        `json:"poster_path"`
	Type             string        `json:"type"`
	VoteAverage      float64       `json:"vote_average"`
	VoteCount        int           `json:"vote_count"`
	Videos           videoList     `json:"videos"`
	Credits          creditsData   `json:"credits"`
}

type providerData struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type regionOfferings struct {
	Flatrate []providerData `json:"flatrate"`
}

type watchProvidersResponse struct {
	Results map[string]regionOfferings `json:"results"`
}

type discoverResponse struct {
	Page    int `json:"page"`
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}
