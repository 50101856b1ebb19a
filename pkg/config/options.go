package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the catalog database driver.
// Valid values: "postgres", "sqlite".
func OptDatabaseDriver(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseSQLitePath sets the SQLite database file.
func OptDatabaseSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Database.SQLitePath = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per INSERT statement.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptTMDBAPIKey sets the credential of the general movie database.
func OptTMDBAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("TMDB API Key", s) {
			c.Providers.TMDB.APIKey = s
		}
	}
}

// OptTMDBBaseURL sets the API root of the general movie database.
func OptTMDBBaseURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidURL("TMDB Base URL", s) {
			c.Providers.TMDB.BaseURL = s
		}
	}
}

// OptTMDBImageBaseURL sets the root of poster, backdrop and logo URLs.
func OptTMDBImageBaseURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidURL("TMDB Image Base URL", s) {
			c.Providers.TMDB.ImageBaseURL = s
		}
	}
}

// OptTMDBLanguage sets the language of TMDB responses, e.g. "ko-KR".
func OptTMDBLanguage(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("TMDB Language", s) {
			c.Providers.TMDB.Language = s
		}
	}
}

// OptKMDBAPIKey sets the credential of the national film database.
func OptKMDBAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("KMDB API Key", s) {
			c.Providers.KMDB.APIKey = s
		}
	}
}

// OptKMDBBaseURL sets the search endpoint of the national film database.
func OptKMDBBaseURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("KMDB Base URL", s) {
			c.Providers.KMDB.BaseURL = s
		}
	}
}

// OptKOBISAPIKey sets the credential of the box-office registry.
func OptKOBISAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("KOBIS API Key", s) {
			c.Providers.KOBIS.APIKey = s
		}
	}
}

// OptKOBISBaseURL sets the REST root of the box-office registry.
func OptKOBISBaseURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidURL("KOBIS Base URL", s) {
			c.Providers.KOBIS.BaseURL = s
		}
	}
}

// OptAvailabilityBaseURL sets the streaming-availability endpoint.
func OptAvailabilityBaseURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Availability Base URL", s) {
			c.Providers.Availability.BaseURL = s
		}
	}
}

// OptAvailabilityLanguage sets the language of availability responses.
func OptAvailabilityLanguage(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Availability Language", s) {
			c.Providers.Availability.Language = s
		}
	}
}

// OptProvidersTimeoutSec sets the timeout of one provider call.
func OptProvidersTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Providers Timeout", i) {
			c.Providers.TimeoutSec = i
		}
	}
}

// OptProvidersRatePerSecond sets the request rate limit per provider.
func OptProvidersRatePerSecond(i int) Option {
	return func(c *Config) {
		if isValidInt("Providers Rate", i) {
			c.Providers.RatePerSecond = i
		}
	}
}

// OptProvidersBurst sets the rate limiter burst per provider.
func OptProvidersBurst(i int) Option {
	return func(c *Config) {
		if isValidInt("Providers Burst", i) {
			c.Providers.Burst = i
		}
	}
}

// OptRankingTopN sets how many ranked rows are kept from one fetch.
func OptRankingTopN(i int) Option {
	return func(c *Config) {
		if isValidInt("Ranking Top N", i) {
			c.Ranking.TopN = i
		}
	}
}

// OptRankingRegions replaces the list of ranked feeds.
// Regions with an empty code or an unknown feed are dropped.
func OptRankingRegions(regions []RegionConfig) Option {
	return func(c *Config) {
		var res []RegionConfig
		for _, v := range regions {
			v.Code = strings.ToUpper(strings.TrimSpace(v.Code))
			v.Feed = strings.ToLower(strings.TrimSpace(v.Feed))
			if !isValidString("Region Code", v.Code) ||
				!isValidEnum("Region.Feed", v.Feed) {
				continue
			}
			res = append(res, v)
		}
		if len(res) > 0 {
			c.Ranking.Regions = res
		}
	}
}

// OptWeeklyURL sets the location of the weekly spreadsheet.
func OptWeeklyURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Weekly URL", s) {
			c.Weekly.URL = s
		}
	}
}

// OptWeeklyCron sets the schedule of the weekly ingestion.
func OptWeeklyCron(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Weekly Cron", s) {
			c.Weekly.Cron = s
		}
	}
}

// OptWeeklyTimeoutSec bounds the spreadsheet download.
func OptWeeklyTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Weekly Timeout", i) {
			c.Weekly.TimeoutSec = i
		}
	}
}

// OptWeeklyMaxMB limits the size of the downloaded spreadsheet.
func OptWeeklyMaxMB(i int) Option {
	return func(c *Config) {
		if isValidInt("Weekly Max MB", i) {
			c.Weekly.MaxMB = i
		}
	}
}

// OptSearchPageSize sets the default number of movies per page.
func OptSearchPageSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Search Page Size", i) {
			c.Search.PageSize = i
		}
	}
}

// OptSearchGapFillThreshold sets the local match count that
// triggers gap-fill.
func OptSearchGapFillThreshold(i int) Option {
	return func(c *Config) {
		if isValidInt("Gap-fill Threshold", i) {
			c.Search.GapFillThreshold = i
		}
	}
}

// OptSearchGapFillPages sets the maximum number of external pages.
func OptSearchGapFillPages(i int) Option {
	return func(c *Config) {
		if isValidInt("Gap-fill Pages", i) {
			c.Search.GapFillPages = i
		}
	}
}

// OptSearchGapFillMax sets the maximum number of gap-filled records.
func OptSearchGapFillMax(i int) Option {
	return func(c *Config) {
		if isValidInt("Gap-fill Max", i) {
			c.Search.GapFillMax = i
		}
	}
}

// OptReconcileWatchRegions sets regions tried for streaming offers.
func OptReconcileWatchRegions(ss []string) Option {
	var res []string
	for _, v := range ss {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			res = append(res, v)
		}
	}
	return func(c *Config) {
		if len(res) > 0 {
			c.Reconcile.WatchRegions = res
		}
	}
}

// OptReconcileCastLimit sets how many cast members are linked.
func OptReconcileCastLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Cast Limit", i) {
			c.Reconcile.CastLimit = i
		}
	}
}

// OptScheduleTimezone sets the IANA location of cron specs.
func OptScheduleTimezone(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Schedule Timezone", s) {
			c.Schedule.Timezone = s
		}
	}
}

// OptScheduleJobTimeoutSec bounds one scheduled run.
func OptScheduleJobTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Job Timeout", i) {
			c.Schedule.JobTimeoutSec = i
		}
	}
}

// OptScheduleImportCron enables the periodic import of popular movies.
func OptScheduleImportCron(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Import Cron", s) {
			c.Schedule.ImportCron = s
		}
	}
}

// OptScheduleImportPages sets pages fetched by the periodic import.
func OptScheduleImportPages(i int) Option {
	return func(c *Config) {
		if isValidInt("Import Pages", i) {
			c.Schedule.ImportPages = i
		}
	}
}

// OptScheduleRetryAttempts sets how often a job is retried after a
// provider outage.
func OptScheduleRetryAttempts(i int) Option {
	return func(c *Config) {
		if isValidInt("Retry Attempts", i) {
			c.Schedule.RetryAttempts = i
		}
	}
}

// OptScheduleRetryDelaySec sets the first pause between retries.
func OptScheduleRetryDelaySec(i int) Option {
	return func(c *Config) {
		if isValidInt("Retry Delay", i) {
			c.Schedule.RetryDelaySec = i
		}
	}
}

// OptMetricsAddress sets the listen address of the metrics endpoint.
func OptMetricsAddress(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics Address", s) {
			c.Metrics.Address = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
