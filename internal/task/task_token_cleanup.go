package task

import (
	"context"

	"github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/pkg/logger"

	"go.uber.org/zap"
)

// TokenCleanupTask hard-deletes tokens revoked or expired longer than app.token-retention.
type TokenCleanupTask struct {
	app *app.App
}

func (t *TokenCleanupTask) Name() string {
	return "token_cleanup"
}

func (t *TokenCleanupTask) Spec() string {
	return "@every 1h"
}

func (t *TokenCleanupTask) IsStartupRun() bool {
	return false
}

func (t *TokenCleanupTask) Run(ctx context.Context) error {
	n, err := t.app.TokenService.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		t.app.Logger().Info("task log", logger.Task(t.Name()), zap.Int64("purged", n))
	}
	return nil
}

// NewTokenCleanupTask 创建令牌清理任务
func NewTokenCleanupTask(a *app.App) (Task, error) {
	return &TokenCleanupTask{app: a}, nil
}

func init() {
	Register(NewTokenCleanupTask)
}
