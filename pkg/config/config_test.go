package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/filmograph/filmdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "filmdb"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "filmdb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "filmdb", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "filmdb", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestSQLiteFilePath(t *testing.T) {
	home := "/home/user"
	assert.Equal(t,
		filepath.Join(home, ".cache", "filmdb", "films.sqlite"),
		config.SQLiteFilePath(home, "films.sqlite"))
	assert.Equal(t, "/data/films.sqlite",
		config.SQLiteFilePath(home, "/data/films.sqlite"))
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "filmdb", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.Providers.TMDB.BaseURL)
	assert.Empty(t, cfg.Providers.TMDB.APIKey)
	assert.Equal(t, 20, cfg.Ranking.TopN)
	require.Len(t, cfg.Ranking.Regions, 3)
	assert.Equal(t, "GLOBAL", cfg.Ranking.Regions[0].Code)
	assert.Equal(t, "trending", cfg.Ranking.Regions[0].Feed)

	assert.Equal(t, 10, cfg.Search.GapFillThreshold)
	assert.Equal(t, 2, cfg.Search.GapFillPages)
	assert.Equal(t, 10, cfg.Search.GapFillMax)
	assert.Equal(t, []string{"KR", "US"}, cfg.Reconcile.WatchRegions)
	assert.Equal(t, "Asia/Seoul", cfg.Schedule.Timezone)
	assert.Equal(t, "0 21 * * 2", cfg.Weekly.Cron)
	assert.Equal(t, 120, cfg.Weekly.TimeoutSec)
	assert.Equal(t, 64, cfg.Weekly.MaxMB)
	assert.Equal(t, 3, cfg.Schedule.RetryAttempts)
	assert.Equal(t, 30, cfg.Schedule.RetryDelaySec)

	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestRegionByCode(t *testing.T) {
	cfg := config.New()

	kr, ok := cfg.RegionByCode("KR")
	require.True(t, ok)
	assert.Equal(t, "popular", kr.Feed)
	assert.Equal(t, "KR", kr.Region)

	_, ok = cfg.RegionByCode("JP")
	assert.False(t, ok)
}

func TestOptionDatabaseDriver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets sqlite", "sqlite", "sqlite"},
		{"normalizes case", "  SQLite ", "sqlite"},
		{"rejects unknown", "mysql", "postgres"},
		{"rejects empty", "", "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseDriver(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Driver)
		})
	}
}

func TestOptionURLs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets valid url", "http://localhost:8080/3", "http://localhost:8080/3"},
		{"trims trailing slash", "https://tmdb.test/3/", "https://tmdb.test/3"},
		{"rejects no scheme", "tmdb.test/3", "https://api.themoviedb.org/3"},
		{"rejects ftp", "ftp://tmdb.test", "https://api.themoviedb.org/3"},
		{"rejects empty", "  ", "https://api.themoviedb.org/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptTMDBBaseURL(tt.input)})
			assert.Equal(t, tt.expected, cfg.Providers.TMDB.BaseURL)
		})
	}
}

func TestOptionPositiveInts(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptRankingTopN(0),
		config.OptSearchGapFillMax(-1),
		config.OptJobsNumber(3),
		config.OptProvidersTimeoutSec(5),
	})
	assert.Equal(t, 20, cfg.Ranking.TopN)
	assert.Equal(t, 10, cfg.Search.GapFillMax)
	assert.Equal(t, 3, cfg.JobsNumber)
	assert.Equal(t, 5, cfg.Providers.TimeoutSec)
}

func TestOptionRankingRegions(t *testing.T) {
	t.Run("keeps valid regions only", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptRankingRegions(
			[]config.RegionConfig{
				{Code: " jp ", Feed: "Popular", Region: "JP"},
				{Code: "XX", Feed: "weekly"},
				{Code: "", Feed: "trending"},
			},
		)})
		require.Len(t, cfg.Ranking.Regions, 1)
		assert.Equal(t, "JP", cfg.Ranking.Regions[0].Code)
		assert.Equal(t, "popular", cfg.Ranking.Regions[0].Feed)
	})

	t.Run("keeps defaults when nothing is valid", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptRankingRegions(
			[]config.RegionConfig{{Code: "XX", Feed: "weekly"}},
		)})
		assert.Equal(t, config.DefaultRegions(), cfg.Ranking.Regions)
	})
}

func TestOptionWatchRegions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptReconcileWatchRegions([]string{" us", "", "kr "}),
	})
	assert.Equal(t, []string{"US", "KR"}, cfg.Reconcile.WatchRegions)
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets debug", "debug", "debug"},
		{"normalizes case", "WARN", "warn"},
		{"ignores invalid", "verbose", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogLevel(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		original.Update([]config.Option{
			config.OptDatabaseDriver("sqlite"),
			config.OptDatabaseSQLitePath("/tmp/films.sqlite"),
			config.OptDatabaseHost("db.test"),
			config.OptDatabasePort(15432),
			config.OptTMDBAPIKey("secret"),
			config.OptKOBISAPIKey("kobis"),
			config.OptRankingTopN(10),
			config.OptSearchGapFillThreshold(5),
			config.OptScheduleImportCron("0 4 * * *"),
			config.OptScheduleRetryAttempts(5),
			config.OptScheduleRetryDelaySec(2),
			config.OptWeeklyTimeoutSec(300),
			config.OptWeeklyMaxMB(16),
			config.OptLogFormat("text"),
			config.OptJobsNumber(8),
		})

		newCfg := config.New()
		newCfg.Update(original.ToOptions())

		assert.Equal(t, original.Database, newCfg.Database)
		assert.Equal(t, original.Providers, newCfg.Providers)
		assert.Equal(t, original.Ranking, newCfg.Ranking)
		assert.Equal(t, original.Search, newCfg.Search)
		assert.Equal(t, original.Schedule, newCfg.Schedule)
		assert.Equal(t, original.Weekly, newCfg.Weekly)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir("/custom/home")})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())
		assert.Equal(t, "", newCfg.HomeDir)
	})
}
