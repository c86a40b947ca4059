package task

import (
	"context"

	"github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/pkg/metrics"
)

// StatsGaugeTask 刷新存量指标: 链接/书签/动态总数, 后台队列占用
type StatsGaugeTask struct {
	app *app.App
}

func (t *StatsGaugeTask) Name() string {
	return "stats_gauge"
}

func (t *StatsGaugeTask) Spec() string {
	return "@every 5m"
}

func (t *StatsGaugeTask) IsStartupRun() bool {
	return true
}

func (t *StatsGaugeTask) Run(ctx context.Context) error {
	st, err := t.app.QueryService.Stats(ctx)
	if err != nil {
		return err
	}
	metrics.Links.Set(float64(st.Links))
	metrics.Bookmarks.Set(float64(st.Bookmarks))
	metrics.Statuses.Set(float64(st.Statuses))

	if pool := t.app.WorkerPool(); pool != nil {
		m := pool.GetMetrics()
		metrics.TitleJobs.WithLabelValues("active").Set(float64(m.ActiveCount))
		metrics.TitleJobs.WithLabelValues("queued").Set(float64(m.QueuedCount))
		metrics.TitleJobs.WithLabelValues("panicked").Set(float64(m.Panics))
	}
	if q := t.app.WriteQueue(); q != nil {
		metrics.WriteLanes.Set(float64(q.QueueCount()))
	}
	return nil
}

// NewStatsGaugeTask 创建指标刷新任务
func NewStatsGaugeTask(a *app.App) (Task, error) {
	return &StatsGaugeTask{app: a}, nil
}

func init() {
	Register(NewStatsGaugeTask)
}
