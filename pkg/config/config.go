// Package config provides configuration management for filmdb.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
//   - Default config (from New()) is always valid.
//   - All mutations go through Option functions.
//   - Invalid options are rejected with gn.Warn(), config stays valid.
//   - ToOptions() converts persistent fields (those in config.yaml).
//
// # Environment Variables
//
// Use FILMDB_ prefix with underscores for nesting:
//
//	FILMDB_DATABASE_DRIVER=sqlite
//	FILMDB_PROVIDERS_TMDB_API_KEY=...
//	FILMDB_LOG_LEVEL=debug
//	FILMDB_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete filmdb configuration.
type Config struct {
	// Database contains catalog database connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Providers contains credentials and endpoints of external sources.
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`

	// Ranking contains settings of the ranking snapshot store.
	Ranking RankingConfig `mapstructure:"ranking" yaml:"ranking"`

	// Weekly contains settings of the weekly spreadsheet ingestion.
	Weekly WeeklyConfig `mapstructure:"weekly" yaml:"weekly"`

	Search SearchConfig `mapstructure:"search" yaml:"search"`

	Reconcile ReconcileConfig `mapstructure:"reconcile" yaml:"reconcile"`

	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`

	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// JobsNumber is the number of concurrent workers for bulk imports.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains catalog database connection parameters.
type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// SQLitePath is the database file used when Driver is "sqlite".
	// Relative paths are resolved against the cache directory.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// BatchSize is the number of rows written per INSERT statement
	// by snapshot and spreadsheet writers.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// ProvidersConfig groups external provider settings.
type ProvidersConfig struct {
	TMDB         TMDBConfig         `mapstructure:"tmdb"         yaml:"tmdb"`
	KMDB         KMDBConfig         `mapstructure:"kmdb"         yaml:"kmdb"`
	KOBIS        KOBISConfig        `mapstructure:"kobis"        yaml:"kobis"`
	Availability AvailabilityConfig `mapstructure:"availability" yaml:"availability"`

	// TimeoutSec is the timeout of a single provider call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// RatePerSecond limits requests per second sent to one provider.
	RatePerSecond int `mapstructure:"rate_per_second" yaml:"rate_per_second"`

	// Burst is the token bucket size of the provider rate limiter.
	Burst int `mapstructure:"burst" yaml:"burst"`
}

// TMDBConfig configures the general movie database.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"        yaml:"api_key"`
	BaseURL      string `mapstructure:"base_url"       yaml:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url" yaml:"image_base_url"`
	// Language is sent with search, detail and list calls.
	Language string `mapstructure:"language" yaml:"language"`
}

// KMDBConfig configures the national film database.
type KMDBConfig struct {
	APIKey  string `mapstructure:"api_key"  yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// KOBISConfig configures the box-office registry.
type KOBISConfig struct {
	APIKey  string `mapstructure:"api_key"  yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// AvailabilityConfig configures the streaming-availability graph.
type AvailabilityConfig struct {
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Language string `mapstructure:"language" yaml:"language"`
}

// RankingConfig configures ranking snapshots.
type RankingConfig struct {
	// TopN is the number of ranked rows kept from one fetch.
	TopN int `mapstructure:"top_n" yaml:"top_n"`

	// Regions lists ranked feeds, one per region code.
	Regions []RegionConfig `mapstructure:"regions" yaml:"regions"`
}

// RegionConfig describes where the ranking of one region comes from.
type RegionConfig struct {
	// Code is the region key stored with snapshots (GLOBAL, KR, US).
	Code string `mapstructure:"code" yaml:"code"`
	// Feed is "trending" or "popular".
	Feed string `mapstructure:"feed" yaml:"feed"`
	// Language of titles in the feed.
	Language string `mapstructure:"language" yaml:"language"`
	// Region is sent to the provider, empty for worldwide feeds.
	Region string `mapstructure:"region" yaml:"region"`
	// Cron is the refresh schedule in standard five-field form.
	Cron string `mapstructure:"cron" yaml:"cron"`
}

// WeeklyConfig configures the weekly spreadsheet ingestion.
type WeeklyConfig struct {
	URL  string `mapstructure:"url"  yaml:"url"`
	Cron string `mapstructure:"cron" yaml:"cron"`
	// TimeoutSec bounds the spreadsheet download, which is much larger
	// than a provider JSON response.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	// MaxMB is the largest accepted spreadsheet.
	MaxMB int `mapstructure:"max_mb" yaml:"max_mb"`
}

// SearchConfig configures local search and gap-fill.
type SearchConfig struct {
	// PageSize is the default number of movies per page.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
	// GapFillThreshold is the local match count below which
	// external results are pulled in.
	GapFillThreshold int `mapstructure:"gap_fill_threshold" yaml:"gap_fill_threshold"`
	// GapFillPages is the maximum number of external pages fetched.
	GapFillPages int `mapstructure:"gap_fill_pages" yaml:"gap_fill_pages"`
	// GapFillMax is the maximum number of records reconciled.
	GapFillMax int `mapstructure:"gap_fill_max" yaml:"gap_fill_max"`
}

// ReconcileConfig configures enrichment of reconciled movies.
type ReconcileConfig struct {
	// WatchRegions are tried in order, the first one with offers wins.
	WatchRegions []string `mapstructure:"watch_regions" yaml:"watch_regions"`
	// CastLimit is the number of cast members linked to a movie.
	CastLimit int `mapstructure:"cast_limit" yaml:"cast_limit"`
}

// ScheduleConfig configures periodic jobs.
type ScheduleConfig struct {
	// Timezone is the IANA location used to interpret cron specs.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
	// JobTimeoutSec bounds a single scheduled run.
	JobTimeoutSec int `mapstructure:"job_timeout_sec" yaml:"job_timeout_sec"`
	// ImportCron enables periodic import of popular movies when set.
	ImportCron string `mapstructure:"import_cron" yaml:"import_cron"`
	// ImportPages is the number of pages fetched by the periodic import.
	ImportPages int `mapstructure:"import_pages" yaml:"import_pages"`
	// RetryAttempts is how many times a job failing on an unavailable
	// provider is run again within its timeout.
	RetryAttempts int `mapstructure:"retry_attempts" yaml:"retry_attempts"`
	// RetryDelaySec is the first pause between attempts. It doubles after
	// every attempt.
	RetryDelaySec int `mapstructure:"retry_delay_sec" yaml:"retry_delay_sec"`
}

// MetricsConfig configures the Prometheus endpoint of the serve command.
type MetricsConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:     "postgres",
			Host:       "localhost",
			Port:       5432,
			User:       "postgres",
			Password:   "postgres",
			Database:   "filmdb",
			SSLMode:    "disable",
			SQLitePath: "filmdb.sqlite",
			BatchSize:  500,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		Providers: ProvidersConfig{
			TMDB: TMDBConfig{
				BaseURL:      "https://api.themoviedb.org/3",
				ImageBaseURL: "https://image.tmdb.org/t/p",
				Language:     "ko-KR",
			},
			KMDB: KMDBConfig{
				BaseURL: "https://api.koreafilm.or.kr/openapi-data2/" +
					"wisenut/search_api/search_json2.jsp",
			},
			KOBIS: KOBISConfig{
				BaseURL: "https://kobis.or.kr/kobisopenapi/webservice/rest",
			},
			Availability: AvailabilityConfig{
				BaseURL:  "https://apis.justwatch.com/graphql",
				Language: "ko",
			},
			TimeoutSec:    10,
			RatePerSecond: 20,
			Burst:         5,
		},
		Ranking: RankingConfig{
			TopN:    20,
			Regions: DefaultRegions(),
		},
		Weekly: WeeklyConfig{
			URL:        "https://www.netflix.com/tudum/top10/data/all-weeks-global.xlsx",
			Cron:       "0 21 * * 2",
			TimeoutSec: 120,
			MaxMB:      64,
		},
		Search: SearchConfig{
			PageSize:         20,
			GapFillThreshold: 10,
			GapFillPages:     2,
			GapFillMax:       10,
		},
		Reconcile: ReconcileConfig{
			WatchRegions: []string{"KR", "US"},
			CastLimit:    10,
		},
		Schedule: ScheduleConfig{
			Timezone:      "Asia/Seoul",
			JobTimeoutSec: 600,
			ImportPages:   5,
			RetryAttempts: 3,
			RetryDelaySec: 30,
		},
		Metrics: MetricsConfig{
			Address: ":9464",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}

// DefaultRegions returns ranking feeds of the GLOBAL, KR and US regions.
func DefaultRegions() []RegionConfig {
	return []RegionConfig{
		{Code: "GLOBAL", Feed: "trending", Language: "ko-KR", Cron: "0 3 * * *"},
		{Code: "KR", Feed: "popular", Language: "ko-KR", Region: "KR",
			Cron: "5 3 * * *"},
		{Code: "US", Feed: "popular", Language: "en-US", Region: "US",
			Cron: "10 3 * * *"},
	}
}

// RegionByCode returns the ranking feed configured for a region code.
func (c *Config) RegionByCode(code string) (RegionConfig, bool) {
	for _, v := range c.Ranking.Regions {
		if v.Code == code {
			return v, true
		}
	}
	return RegionConfig{}, false
}
