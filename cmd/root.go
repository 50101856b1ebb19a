/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/filmograph/filmdb/internal/iofs"
	"github.com/filmograph/filmdb/internal/iologger"
	app "github.com/filmograph/filmdb/pkg"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	homeDir string
	cfg     *config.Config
)

// getRootCmd builds the command tree. Every call returns new instances,
// so tests can run commands independently.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "filmdb",
		Short:   "filmdb keeps a movie catalog in sync with public movie sources",
		Long: `filmdb builds and maintains a movie catalog from the general movie
database, the national film archive, the daily box office and OTT
availability, together with regional rankings and weekly top-10 charts.

Run without a command it prints the effective configuration.

Configuration precedence (highest to lowest):
  1. CLI flags (--driver, --log-level, etc.)
  2. Environment variables (FILMDB_*)
  3. Config file (~/.config/filmdb/config.yaml)
  4. Built-in defaults

Environment variables use underscores for nesting, for example:
  FILMDB_DATABASE_DRIVER            postgres or sqlite
  FILMDB_DATABASE_HOST              PostgreSQL host
  FILMDB_PROVIDERS_TMDB_API_KEY     general movie database key
  FILMDB_PROVIDERS_KOBIS_API_KEY    box office key
  FILMDB_LOG_LEVEL                  debug, info, warn or error`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for filmdb")
	persistentFlags(rootCmd)

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getClearCmd(),
		getReconcileCmd(),
		getImportCmd(),
		getSearchCmd(),
		getDetailCmd(),
		getRankingCmd(),
		getWeeklyCmd(),
		getBoxOfficeCmd(),
		getServeCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// the real settings are known only after the config is read
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())
	cfg.Update(flagOptions(cmd))
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = iologger.Init(config.LogDir(homeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Database.Driver,
	)
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	gn.Info(
		"Configuration file is <em>%s</em>",
		config.ConfigFilePath(cfg.HomeDir),
	)
	out, err := configYAML(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// configYAML renders the effective configuration with secrets masked.
func configYAML(c *config.Config) (string, error) {
	res := *c
	mask := func(s *string) {
		if *s != "" {
			*s = "******"
		}
	}
	mask(&res.Database.Password)
	mask(&res.Providers.TMDB.APIKey)
	mask(&res.Providers.KMDB.APIKey)
	mask(&res.Providers.KOBIS.APIKey)

	bs, err := yaml.Marshal(&res)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// initEnvVars lists allowed environment variables explicitly. They match
// the persistent fields of config.ToOptions().
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("FILMDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		env := "FILMDB_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env)
	}

	v.AutomaticEnv()
}

var envKeys = []string{
	"database.driver",
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",
	"database.sqlite_path",
	"database.batch_size",

	"log.level",
	"log.format",
	"log.destination",

	"providers.tmdb.api_key",
	"providers.tmdb.base_url",
	"providers.tmdb.image_base_url",
	"providers.tmdb.language",
	"providers.kmdb.api_key",
	"providers.kmdb.base_url",
	"providers.kobis.api_key",
	"providers.kobis.base_url",
	"providers.availability.base_url",
	"providers.availability.language",
	"providers.timeout_sec",
	"providers.rate_per_second",
	"providers.burst",

	"ranking.top_n",

	"weekly.url",
	"weekly.cron",
	"weekly.timeout_sec",
	"weekly.max_mb",

	"search.page_size",
	"search.gap_fill_threshold",
	"search.gap_fill_pages",
	"search.gap_fill_max",

	"reconcile.watch_regions",
	"reconcile.cast_limit",

	"schedule.timezone",
	"schedule.job_timeout_sec",
	"schedule.import_cron",
	"schedule.import_pages",
	"schedule.retry_attempts",
	"schedule.retry_delay_sec",

	"metrics.address",

	"jobs_number",
}
