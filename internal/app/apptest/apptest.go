// Package apptest builds an App over a throwaway sqlite database for transport tests.
package apptest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/internal/dao"
	"github.com/haierkeys/locket-service/internal/dto"
	"github.com/haierkeys/locket-service/internal/service"

	"github.com/creasty/defaults"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopScheduler struct{}

func (noopScheduler) Schedule(int64) {}

// Config returns the default configuration with a test secret.
func Config(t testing.TB) *app.AppConfig {
	t.Helper()
	cfg := new(app.AppConfig)
	require.NoError(t, defaults.Set(cfg))
	cfg.File = filepath.Join(t.TempDir(), "config.yaml")
	cfg.Security.AuthTokenKey = "apptest-secret"
	cfg.Database.Path = filepath.Join(t.TempDir(), "locket.db")
	cfg.Log.File = ""
	cfg.Feed.Enabled = false
	return cfg
}

// New opens a migrated sqlite App. Title fetching is disabled so nothing leaves the process.
func New(t testing.TB, mutate ...func(*app.AppConfig)) *app.App {
	t.Helper()
	cfg := Config(t)
	for _, m := range mutate {
		m(cfg)
	}

	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), zap.NewNop())
	require.NoError(t, err)

	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)

	a.LinkService = service.NewSerialLinkService(
		service.NewLinkService(a.LinkRepo, a.UserLinkRepo, a.NoteRepo, a.StatusRepo, a.Dao, noopScheduler{}, nil, nil),
		a.WriteQueue())
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

// User creates a user and returns its id.
func User(t testing.TB, a *app.App, name string) int64 {
	t.Helper()
	u, err := a.UserService.Create(context.Background(), &dto.UserCreateRequest{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u.ID
}

// Token issues a personal access token for uid.
func Token(t testing.TB, a *app.App, uid int64) string {
	t.Helper()
	tok, err := a.TokenService.CreateToken(context.Background(), uid, &dto.TokenCreateRequest{Name: "test"})
	require.NoError(t, err)
	return tok.PlainTextToken
}
