package cmd

import (
	"testing"

	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagOptions(t *testing.T) {
	root := getRootCmd()
	sub, args, err := root.Find([]string{"search"})
	require.NoError(t, err)
	require.NoError(t, sub.ParseFlags(append(args,
		"--driver", "sqlite", "--sqlite-path", "/tmp/x.sqlite", "-j", "3",
	)))

	c := config.New()
	c.Update(flagOptions(sub))
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "/tmp/x.sqlite", c.Database.SQLitePath)
	assert.Equal(t, 3, c.JobsNumber)
	assert.Equal(t, "localhost", c.Database.Host, "unset flags keep values")
}

func TestFlagOptionsEmpty(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	persistentFlags(cmd)
	require.NoError(t, cmd.ParseFlags(nil))
	assert.Empty(t, flagOptions(cmd))
}

func TestRunImportValidates(t *testing.T) {
	err := runImport(provider.ListKind("upcoming"), 1)
	assert.Equal(t, errcode.InvalidArgumentError, errcode.Code(err))

	err = runImport(provider.Popular, 0)
	assert.Equal(t, errcode.InvalidArgumentError, errcode.Code(err))
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{getImportCmd(), []string{"list", "pages"}},
		{getSearchCmd(), []string{"from", "to", "sort", "page", "size", "json"}},
		{getDetailCmd(), []string{"region", "json"}},
		{getReconcileCmd(), []string{"archive", "year", "json"}},
		{getBoxOfficeCmd(), []string{"date", "json"}},
		{getServeCmd(), []string{"run-now"}},
		{getWeeklyIngestCmd(), []string{"file"}},
		{getWeeklyLatestCmd(), []string{"week", "category", "json"}},
		{getClearCmd(), []string{"force"}},
	}
	for _, tt := range tests {
		for _, f := range tt.flags {
			assert.NotNil(t, tt.cmd.Flags().Lookup(f), tt.cmd.Name()+" --"+f)
		}
	}

	imp := getImportCmd()
	assert.Equal(t, "popular", imp.Flags().Lookup("list").DefValue)
}

func TestArgs(t *testing.T) {
	assert.Error(t, getDetailCmd().Args(nil, nil))
	assert.NoError(t, getDetailCmd().Args(nil, []string{"1"}))
	assert.Error(t, getReconcileCmd().Args(nil, nil))
	assert.Error(t, getRankingLatestCmd().Args(nil, []string{"KR", "US"}))
}

func TestOutputHelpers(t *testing.T) {
	s := "Bong Joon-ho"
	assert.Equal(t, "Bong Joon-ho", str(&s))
	assert.Equal(t, "-", str(nil))

	views := int64(1234567)
	assert.Equal(t, "1,234,567", num(&views))
	assert.Equal(t, "-", num[int](nil))
}
