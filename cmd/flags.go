package cmd

import (
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/spf13/cobra"
)

// persistentFlags adds flags that override config.yaml and FILMDB_*
// variables for every command.
func persistentFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("driver", "", "database driver: postgres or sqlite")
	pf.String("host", "", "PostgreSQL host")
	pf.Int("port", 0, "PostgreSQL port")
	pf.String("database", "", "PostgreSQL database name")
	pf.String("sqlite-path", "", "SQLite database file")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-destination", "", "log destination: file, stdout or stderr")
	pf.IntP("jobs", "j", 0, "number of concurrent import workers")
}

// flagOptions converts explicitly set persistent flags to options.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	flags := cmd.Flags()

	str := func(name string, fn func(string) config.Option) {
		if flags.Changed(name) {
			s, _ := flags.GetString(name)
			res = append(res, fn(s))
		}
	}
	num := func(name string, fn func(int) config.Option) {
		if flags.Changed(name) {
			i, _ := flags.GetInt(name)
			res = append(res, fn(i))
		}
	}

	str("driver", config.OptDatabaseDriver)
	str("host", config.OptDatabaseHost)
	num("port", config.OptDatabasePort)
	str("database", config.OptDatabaseDatabase)
	str("sqlite-path", config.OptDatabaseSQLitePath)
	str("log-level", config.OptLogLevel)
	str("log-destination", config.OptLogDestination)
	num("jobs", config.OptJobsNumber)
	return res
}
