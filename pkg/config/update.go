package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Empty strings and non-positive numbers are skipped, so defaults survive.
func (c *Config) ToOptions() []Option {
	var res []Option
	str := func(s string, fn func(string) Option) {
		if s != "" {
			res = append(res, fn(s))
		}
	}
	num := func(i int, fn func(int) Option) {
		if i > 0 {
			res = append(res, fn(i))
		}
	}

	db := c.Database
	str(db.Driver, OptDatabaseDriver)
	str(db.Host, OptDatabaseHost)
	num(db.Port, OptDatabasePort)
	str(db.User, OptDatabaseUser)
	str(db.Password, OptDatabasePassword)
	str(db.Database, OptDatabaseDatabase)
	str(db.SSLMode, OptDatabaseSSLMode)
	str(db.SQLitePath, OptDatabaseSQLitePath)
	num(db.BatchSize, OptDatabaseBatchSize)

	str(c.Log.Format, OptLogFormat)
	str(c.Log.Level, OptLogLevel)
	str(c.Log.Destination, OptLogDestination)

	p := c.Providers
	str(p.TMDB.APIKey, OptTMDBAPIKey)
	str(p.TMDB.BaseURL, OptTMDBBaseURL)
	str(p.TMDB.ImageBaseURL, OptTMDBImageBaseURL)
	str(p.TMDB.Language, OptTMDBLanguage)
	str(p.KMDB.APIKey, OptKMDBAPIKey)
	str(p.KMDB.BaseURL, OptKMDBBaseURL)
	str(p.KOBIS.APIKey, OptKOBISAPIKey)
	str(p.KOBIS.BaseURL, OptKOBISBaseURL)
	str(p.Availability.BaseURL, OptAvailabilityBaseURL)
	str(p.Availability.Language, OptAvailabilityLanguage)
	num(p.TimeoutSec, OptProvidersTimeoutSec)
	num(p.RatePerSecond, OptProvidersRatePerSecond)
	num(p.Burst, OptProvidersBurst)

	num(c.Ranking.TopN, OptRankingTopN)
	if len(c.Ranking.Regions) > 0 {
		res = append(res, OptRankingRegions(c.Ranking.Regions))
	}

	str(c.Weekly.URL, OptWeeklyURL)
	str(c.Weekly.Cron, OptWeeklyCron)
	num(c.Weekly.TimeoutSec, OptWeeklyTimeoutSec)
	num(c.Weekly.MaxMB, OptWeeklyMaxMB)

	num(c.Search.PageSize, OptSearchPageSize)
	num(c.Search.GapFillThreshold, OptSearchGapFillThreshold)
	num(c.Search.GapFillPages, OptSearchGapFillPages)
	num(c.Search.GapFillMax, OptSearchGapFillMax)

	if len(c.Reconcile.WatchRegions) > 0 {
		res = append(res, OptReconcileWatchRegions(c.Reconcile.WatchRegions))
	}
	num(c.Reconcile.CastLimit, OptReconcileCastLimit)

	str(c.Schedule.Timezone, OptScheduleTimezone)
	num(c.Schedule.JobTimeoutSec, OptScheduleJobTimeoutSec)
	str(c.Schedule.ImportCron, OptScheduleImportCron)
	num(c.Schedule.ImportPages, OptScheduleImportPages)
	num(c.Schedule.RetryAttempts, OptScheduleRetryAttempts)
	num(c.Schedule.RetryDelaySec, OptScheduleRetryDelaySec)

	str(c.Metrics.Address, OptMetricsAddress)

	num(c.JobsNumber, OptJobsNumber)
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidURL(name, s string) bool {
	if !isValidString(name, s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		gn.Warn("<em>%s</em> is not a valid http(s) URL: '%s', ignoring",
			name, s)
		return false
	}
	return true
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.Driver": {"postgres": s, "sqlite": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
		"Region.Feed":     {"trending": s, "popular": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}

	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		lines = append(lines, fmt.Sprintf("  * %s", v))
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
