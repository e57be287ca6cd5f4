package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dushixiang/mastiff/internal/config"
	"github.com/dushixiang/mastiff/internal/gateway"
	"github.com/dushixiang/mastiff/internal/parser"
	"github.com/dushixiang/mastiff/internal/schema"
)

// BackupService 备份状态服务
type BackupService struct {
	logger   *zap.Logger
	executor *gateway.Executor
	scripts  config.ScriptsConfig
}

// NewBackupService 创建备份状态服务
func NewBackupService(logger *zap.Logger, executor *gateway.Executor, cfg *config.Config) *BackupService {
	return &BackupService{
		logger:   logger,
		executor: executor,
		scripts:  cfg.Scripts,
	}
}

// Status 执行备份状态脚本并解析结果
func (s *BackupService) Status(ctx context.Context) schema.BackupResponse {
	var defaults parser.BackupResult

	raw, err := s.executor.RunScript(ctx, s.scripts.Backup)
	if err != nil {
		s.logger.Warn("执行备份状态脚本失败", zap.Error(err))
		result := parser.NewPartialResult(defaults, err.Error())
		return schema.BuildBackupResponse(result, schema.ServerStatusError)
	}

	result := parser.Safe(s.logger, parser.ParseBackupOutput, raw.Text, defaults)
	status := schema.ServerStatusOnline
	if result.Partial {
		status = schema.ServerStatusPartial
	}
	return schema.BuildBackupResponse(result, status)
}
