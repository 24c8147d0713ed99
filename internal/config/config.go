package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Run modes understood by the ingest runner.
const (
	ModeRange = "range"
	ModeSweep = "sweep"
	ModeYears = "years"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	TMDB     TMDBConfig     `yaml:"tmdb"`
	Ingest   IngestConfig   `yaml:"ingest"`
	LogDir   string         `yaml:"log_dir"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TMDBConfig struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	ImageBaseURL string `yaml:"image_base_url"`
	Language     string `yaml:"language"`
	WatchRegion  string `yaml:"watch_region"`
}

type IngestConfig struct {
	Mode      string `yaml:"mode"`
	StartID   int    `yaml:"start_id"`
	EndID     int    `yaml:"end_id"`
	ChunkSize int    `yaml:"chunk_size"`
	StartYear int    `yaml:"start_year"`
	EndYear   int    `yaml:"end_year"`
	Schedule  string `yaml:"schedule"`
}

// ConnString builds the lib/pq DSN. An explicit URL wins over the
// individual host/user fields.
func (d DatabaseConfig) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	port := d.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, port, d.User, d.Password, d.Name, sslmode)
}

// LoadConfig loads the configuration from a file and environment variables
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Override with environment variables
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if apiKey := os.Getenv("TMDB_API_KEY"); apiKey != "" {
		cfg.TMDB.APIKey = apiKey
	}

	cfg.applyDefaults()

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = "https://image.tmdb.org/t/p/w500"
	}
	if c.TMDB.Language == "" {
		c.TMDB.Language = "ko-KR"
	}
	if c.TMDB.WatchRegion == "" {
		c.TMDB.WatchRegion = "KR"
	}
	if c.Ingest.Mode == "" {
		c.Ingest.Mode = ModeRange
	}
	if c.Ingest.ChunkSize == 0 {
		c.Ingest.ChunkSize = 1000
	}
	if c.LogDir == "" {
		c.LogDir = "."
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb api_key is required")
	}

	switch c.Ingest.Mode {
	case ModeRange, ModeSweep:
		if c.Ingest.StartID < 0 {
			return fmt.Errorf("start_id must not be negative, got %d", c.Ingest.StartID)
		}
		if c.Ingest.EndID < 0 {
			return fmt.Errorf("end_id must not be negative, got %d", c.Ingest.EndID)
		}
		if c.Ingest.Mode == ModeSweep && c.Ingest.ChunkSize <= 0 {
			return fmt.Errorf("chunk_size must be greater than 0, got %d", c.Ingest.ChunkSize)
		}
	case ModeYears:
		if c.Ingest.StartYear < c.Ingest.EndYear {
			return fmt.Errorf("start_year (%d) must not be before end_year (%d): years run descending",
				c.Ingest.StartYear, c.Ingest.EndYear)
		}
	default:
		return fmt.Errorf("unknown ingest mode %q", c.Ingest.Mode)
	}

	return nil
}
