package ioschedule

import (
	"fmt"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

// CronError is returned for an invalid cron spec of a job.
func CronError(job, spec string, err error) error {
	return &gn.Error{
		Code: errcode.ScheduleCronError,
		Msg:  "Invalid schedule <em>%s</em> of job %s",
		Vars: []any{spec, job},
		Err:  fmt.Errorf("cron spec %q of %s: %w", spec, job, err),
	}
}

// TimezoneError is returned when the schedule location is unknown.
func TimezoneError(tz string, err error) error {
	return &gn.Error{
		Code: errcode.ScheduleTimezoneError,
		Msg:  "Unknown time zone <em>%s</em>",
		Vars: []any{tz},
		Err:  fmt.Errorf("time zone %q: %w", tz, err),
	}
}
