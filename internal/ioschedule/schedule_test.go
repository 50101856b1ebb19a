package ioschedule_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/filmograph/filmdb/internal/iohttp"
	"github.com/filmograph/filmdb/internal/ioschedule"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRanker struct {
	mu        sync.Mutex
	refreshed []string
	fail      string
	deadline  bool
}

func (f *fakeRanker) Refresh(ctx context.Context, region string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, region)
	_, f.deadline = ctx.Deadline()
	if region == f.fail {
		return 0, errors.New("provider down")
	}
	return 20, nil
}

func (f *fakeRanker) Regions() []string {
	return []string{"GLOBAL", "KR", "US"}
}

type fakeWeekly struct {
	calls int
}

func (f *fakeWeekly) Ingest(context.Context) (int, error) {
	f.calls++
	return 40, nil
}

type fakeImporter struct{}

func (fakeImporter) Import(context.Context, provider.ListKind, int) (int, error) {
	return 0, nil
}

func jobNames(o *ioschedule.Orchestrator) []string {
	var res []string
	for _, v := range o.Jobs() {
		res = append(res, v.Name+" "+v.Spec)
	}
	return res
}

func TestNew(t *testing.T) {
	cfg := config.New()
	o, err := ioschedule.New(cfg, &fakeRanker{}, &fakeWeekly{}, fakeImporter{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ranking_GLOBAL 0 3 * * *",
		"ranking_KR 5 3 * * *",
		"ranking_US 10 3 * * *",
		"weekly 0 21 * * 2",
	}, jobNames(o), "import is off without a schedule")
	assert.Equal(t, "Asia/Seoul", o.Location().String())

	cfg.Schedule.ImportCron = "30 4 * * *"
	o, err = ioschedule.New(cfg, &fakeRanker{}, &fakeWeekly{}, fakeImporter{})
	require.NoError(t, err)
	assert.Contains(t, jobNames(o), "import 30 4 * * *")

	o, err = ioschedule.New(cfg, &fakeRanker{}, &fakeWeekly{}, nil)
	require.NoError(t, err)
	assert.Len(t, o.Jobs(), 4)
}

func TestNewErrors(t *testing.T) {
	cfg := config.New()
	cfg.Weekly.Cron = "every tuesday"
	_, err := ioschedule.New(cfg, &fakeRanker{}, &fakeWeekly{}, nil)
	assert.Equal(t, errcode.ScheduleCronError, errcode.Code(err))

	cfg = config.New()
	cfg.Schedule.Timezone = "Mars/Olympus"
	_, err = ioschedule.New(cfg, &fakeRanker{}, &fakeWeekly{}, nil)
	assert.Equal(t, errcode.ScheduleTimezoneError, errcode.Code(err))
}

func TestRunAll(t *testing.T) {
	ranker := &fakeRanker{fail: "KR"}
	weekly := &fakeWeekly{}
	o, err := ioschedule.New(config.New(), ranker, weekly, nil)
	require.NoError(t, err)

	err = o.RunAll(t.Context())
	assert.EqualError(t, err, "provider down")

	slices.Sort(ranker.refreshed)
	assert.Equal(t, []string{"GLOBAL", "KR", "US"}, ranker.refreshed,
		"a failed region does not stop the others")
	assert.Equal(t, 1, weekly.calls)
}

func TestRunRankingHasTimeout(t *testing.T) {
	ranker := &fakeRanker{}
	o, err := ioschedule.New(config.New(), ranker, &fakeWeekly{}, nil)
	require.NoError(t, err)

	require.NoError(t, o.RunRanking(context.Background(), "US"))
	assert.True(t, ranker.deadline)
	require.NoError(t, o.RunWeekly(t.Context()))
}

type flakyRanker struct {
	fakeRanker
	errs  []error
	calls int
}

func (f *flakyRanker) Refresh(ctx context.Context, region string) (int, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return 0, err
	}
	return 20, nil
}

func TestRunRetriesUnavailableProvider(t *testing.T) {
	down := iohttp.RequestError("tmdb", "https://tmdb.test", errors.New("reset"))
	tests := []struct {
		msg     string
		errs    []error
		calls   int
		success bool
	}{
		{"recovers after one outage", []error{down}, 2, true},
		{"gives up after all attempts", []error{down, down, down, down}, 4, false},
		{"other errors are not retried", []error{errors.New("bad row")}, 1, false},
		{"missing credentials are not retried",
			[]error{iohttp.NotConfiguredError("tmdb", "providers.tmdb.api_key")},
			1, false},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			cfg := config.New()
			cfg.Schedule.RetryAttempts = 3
			cfg.Schedule.RetryDelaySec = 0
			ranker := &flakyRanker{errs: v.errs}
			o, err := ioschedule.New(cfg, ranker, &fakeWeekly{}, nil)
			require.NoError(t, err)

			err = o.RunRanking(t.Context(), "KR")
			assert.Equal(t, v.success, err == nil)
			assert.Equal(t, v.calls, ranker.calls)
		})
	}
}

func TestRunRetryStopsAtTimeout(t *testing.T) {
	cfg := config.New()
	cfg.Schedule.JobTimeoutSec = 1
	cfg.Schedule.RetryAttempts = 3
	cfg.Schedule.RetryDelaySec = 60
	down := iohttp.RequestError("tmdb", "https://tmdb.test", errors.New("reset"))
	ranker := &flakyRanker{errs: []error{down, down}}
	o, err := ioschedule.New(cfg, ranker, &fakeWeekly{}, nil)
	require.NoError(t, err)

	start := time.Now()
	err = o.RunRanking(t.Context(), "KR")
	assert.True(t, errcode.IsUpstream(err))
	assert.Equal(t, 1, ranker.calls)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestServeStops(t *testing.T) {
	o, err := ioschedule.New(config.New(), &fakeRanker{}, &fakeWeekly{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- o.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestMetricsServer(t *testing.T) {
	m := ioschedule.NewMetricsServer("127.0.0.1:0")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSupervisor(t *testing.T) {
	o, err := ioschedule.New(config.New(), &fakeRanker{}, &fakeWeekly{}, nil)
	require.NoError(t, err)
	sup := ioschedule.NewSupervisor(o, ioschedule.NewMetricsServer("127.0.0.1:0"))

	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()
	err = sup.Serve(ctx)
	if err != nil {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
}
