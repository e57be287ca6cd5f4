//go:build wireinject
// +build wireinject

package internal

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/dushixiang/mastiff/internal/collector"
	"github.com/dushixiang/mastiff/internal/config"
	"github.com/dushixiang/mastiff/internal/gateway"
	"github.com/dushixiang/mastiff/internal/handler"
	"github.com/dushixiang/mastiff/internal/service"
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, cfg *config.Config) (*AppComponents, error) {
	wire.Build(
		provideExecutor,
		collector.NewLocalSystemCollector,

		service.NewStatusService,
		service.NewBackupService,

		handler.NewStatusHandler,
		handler.NewBackupHandler,

		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}

// AppComponents 应用组件
type AppComponents struct {
	StatusHandler *handler.StatusHandler
	BackupHandler *handler.BackupHandler

	StatusService *service.StatusService
	BackupService *service.BackupService

	Executor *gateway.Executor
}

// provideExecutor 提供命令执行网关
func provideExecutor(logger *zap.Logger, cfg *config.Config) *gateway.Executor {
	return gateway.NewExecutor(logger, gateway.Options{
		ScriptDir:      cfg.Scripts.Dir,
		Sudo:           cfg.Scripts.Sudo,
		Timeout:        cfg.Timeout(),
		Allow:          cfg.Scripts.Allow,
		Fail2banClient: cfg.Fail2ban.Client,
	})
}
