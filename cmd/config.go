package cmd

import (
	"context"
	"strings"

	internalApp "github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/internal/dao"
	"github.com/haierkeys/locket-service/pkg/logger"
	"github.com/haierkeys/locket-service/pkg/fileurl"
	"github.com/haierkeys/locket-service/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.yaml"

// resolveConfig picks the config file to use. When none exists the embedded default
// is written to config/config.yaml with a freshly generated auth key.
func resolveConfig(path string) (string, error) {
	if path != "" {
		return path, nil
	}

	for _, candidate := range []string{"config/config-dev.yaml", "config.yaml", defaultConfigPath} {
		if fileurl.IsFile(candidate) {
			return candidate, nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")

	content := strings.Replace(configDefault, internalApp.DefaultAuthTokenKey, util.GetRandomString(32), 1)
	if err := fileurl.WriteNew(defaultConfigPath, []byte(content)); err != nil {
		return "", errors.Wrap(err, "config file auto create error")
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", defaultConfigPath))

	return defaultConfigPath, nil
}

// openApp builds the App container for one-shot commands. Console logs go to stderr
// so stdout stays clean for command output and the stdio agent transport.
func openApp(configPath string) (*internalApp.App, func(), error) {
	path, err := resolveConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg, _, err := internalApp.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	logCfg := cfg.GetLoggerConfig()
	logCfg.Stderr = true
	lg, err := logger.NewLogger(logCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := initStorage(cfg); err != nil {
		return nil, nil, err
	}

	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), lg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open database")
	}
	a, err := internalApp.NewApp(cfg, lg, db)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		_ = a.Shutdown(ctx)
		_ = lg.Sync()
	}
	return a, cleanup, nil
}
