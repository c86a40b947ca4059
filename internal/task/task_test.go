package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/locket-service/internal/app/apptest"
	"github.com/haierkeys/locket-service/pkg/metrics"
	"github.com/haierkeys/locket-service/pkg/safe_close"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTask struct {
	spec    string
	startup bool
	runs    atomic.Int32
	fn      func() error
}

func (f *fakeTask) Name() string       { return "fake" }
func (f *fakeTask) Spec() string       { return f.spec }
func (f *fakeTask) IsStartupRun() bool { return f.startup }
func (f *fakeTask) Run(ctx context.Context) error {
	f.runs.Add(1)
	if f.fn != nil {
		return f.fn()
	}
	return nil
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop(), safe_close.NewSafeClose(), nil)
	assert.Error(t, s.AddTask(&fakeTask{spec: "every hour"}))
	assert.NoError(t, s.AddTask(&fakeTask{spec: "@every 1h"}))
	assert.NoError(t, s.AddTask(&fakeTask{spec: "*/5 * * * *"}))
}

func TestScheduler_StartupRunAndStop(t *testing.T) {
	sc := safe_close.NewSafeClose()
	var tracked atomic.Int32
	s := NewScheduler(zap.NewNop(), sc, func() func() {
		tracked.Add(1)
		return func() {}
	})

	ok := &fakeTask{spec: "@every 1h", startup: true}
	failing := &fakeTask{spec: "@every 1h", startup: true, fn: func() error { return errors.New("boom") }}
	panicking := &fakeTask{spec: "@every 1h", startup: true, fn: func() error { panic("bad") }}
	for _, task := range []Task{ok, failing, panicking} {
		require.NoError(t, s.AddTask(task))
	}
	s.Start()

	assert.Eventually(t, func() bool {
		return ok.runs.Load() == 1 && failing.runs.Load() == 1 && panicking.runs.Load() == 1
	}, time.Second, 10*time.Millisecond)

	sc.SendCloseSignal(nil)
	assert.NoError(t, sc.WaitClosed())
	assert.Equal(t, int32(3), tracked.Load())
}

func TestScheduler_EverySecond(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc, nil)
	task := &fakeTask{spec: "@every 1s"}
	require.NoError(t, s.AddTask(task))
	s.Start()

	assert.Eventually(t, func() bool { return task.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
}

func TestManager_RegistersBuiltinTasks(t *testing.T) {
	a := apptest.New(t)
	m := NewManager(a, safe_close.NewSafeClose())
	require.NoError(t, m.RegisterTasks())

	names := map[string]bool{}
	for _, st := range m.scheduler.tasks {
		names[st.task.Name()] = true
	}
	assert.True(t, names["token_cleanup"])
	assert.True(t, names["stats_gauge"])
}

func TestStatsGaugeTask(t *testing.T) {
	a := apptest.New(t)
	alice := apptest.User(t, a, "alice")
	_, err := a.LinkService.AddLink(context.Background(), alice, "https://example.com/one", "")
	require.NoError(t, err)

	task, err := NewStatsGaugeTask(a)
	require.NoError(t, err)
	require.NoError(t, task.Run(context.Background()))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Links))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Bookmarks))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Statuses))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.TitleJobs.WithLabelValues("panicked")))
}

func TestTokenCleanupTask(t *testing.T) {
	a := apptest.New(t)
	alice := apptest.User(t, a, "alice")
	apptest.Token(t, a, alice)

	task, err := NewTokenCleanupTask(a)
	require.NoError(t, err)
	require.NoError(t, task.Run(context.Background()))

	tokens, err := a.TokenService.ListTokens(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
}
