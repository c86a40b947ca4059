package task

import (
	"context"
	"time"

	"github.com/haierkeys/locket-service/pkg/logger"
	"github.com/haierkeys/locket-service/pkg/safe_close"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	Spec() string                  // cron 表达式, 支持 @every 1h 这类描述符
	IsStartupRun() bool            // 是否立即执行一次
}

var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

type scheduled struct {
	task     Task
	schedule cron.Schedule
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []scheduled
	sc     *safe_close.SafeClose
	// track wraps every run so shutdown can wait for it
	track func() func()
}

// NewScheduler 创建任务调度器
func NewScheduler(lg *zap.Logger, sc *safe_close.SafeClose, track func() func()) *Scheduler {
	if track == nil {
		track = func() func() { return func() {} }
	}
	return &Scheduler{
		logger: lg,
		sc:     sc,
		track:  track,
	}
}

// AddTask 添加任务; 表达式无效时返回错误
func (s *Scheduler) AddTask(task Task) error {
	schedule, err := specParser.Parse(task.Spec())
	if err != nil {
		return errors.Wrapf(err, "task %s: invalid schedule %q", task.Name(), task.Spec())
	}
	s.tasks = append(s.tasks, scheduled{task: task, schedule: schedule})
	return nil
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, t := range s.tasks {
		s.startTask(t)
	}
}

// startTask 启动单个任务
func (s *Scheduler) startTask(t scheduled) {

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if t.task.IsStartupRun() {
			s.run(ctx, t.task, "startupRun")
		}

		for {
			next := t.schedule.Next(time.Now())
			timer := time.NewTimer(time.Until(next))

			select {
			case <-timer.C:
				s.run(ctx, t.task, "loopRun")
			case <-closeSignal:
				timer.Stop()
				s.logger.Info("task stopped", logger.Task(t.task.Name()))
				return
			}
		}
	})
}

func (s *Scheduler) run(ctx context.Context, task Task, kind string) {
	finish := s.track()
	defer finish()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				logger.Task(task.Name()),
				zap.String("type", kind),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		s.logger.Error("task running error",
			logger.Task(task.Name()),
			zap.String("type", kind),
			zap.Error(err))
		return
	}
	s.logger.Debug("task done",
		logger.Task(task.Name()),
		zap.String("type", kind),
		zap.Duration("elapsed", time.Since(start)))
}
