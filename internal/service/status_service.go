package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/dushixiang/mastiff/internal/collector"
	"github.com/dushixiang/mastiff/internal/config"
	"github.com/dushixiang/mastiff/internal/gateway"
	"github.com/dushixiang/mastiff/internal/parser"
	"github.com/dushixiang/mastiff/internal/schema"
)

// StatusService 安全监控数据服务。
// 流程固定:执行网关拿原始输出 → Safe 包裹的解析器出内部记录 →
// schema 归一化出对外响应。全程请求作用域,无任何跨请求状态。

// ErrJailNotFound jail 不存在
var ErrJailNotFound = errors.New("jail 不存在")

// StatusService 状态服务
type StatusService struct {
	logger   *zap.Logger
	executor *gateway.Executor
	local    *collector.LocalSystemCollector
	scripts  config.ScriptsConfig
}

// NewStatusService 创建状态服务
func NewStatusService(logger *zap.Logger, executor *gateway.Executor, local *collector.LocalSystemCollector, cfg *config.Config) *StatusService {
	return &StatusService{
		logger:   logger,
		executor: executor,
		local:    local,
		scripts:  cfg.Scripts,
	}
}

// internalStatus 由健康诊断和解析完整性得出内部四态
func internalStatus(diag parser.HealthDiagnosis, partial bool) string {
	switch {
	case diag.Kind == parser.ErrorKindConnection || diag.Kind == parser.ErrorKindServiceDown:
		return schema.ServerStatusOffline
	case diag.IsError:
		return schema.ServerStatusError
	case partial:
		return schema.ServerStatusPartial
	default:
		return schema.ServerStatusOnline
	}
}

// monitorReport 执行监控脚本并安全解析
func (s *StatusService) monitorReport(ctx context.Context) (parser.Result[parser.MonitorReport], parser.HealthDiagnosis) {
	defaults := parser.MonitorReport{
		Fail2ban: parser.Fail2banSummary{Status: "unknown", Jails: []string{}},
		Jails:    []parser.JailBans{},
		Nginx:    parser.NginxStats{TopIPs: []parser.IPHit{}},
	}

	report, err := s.executor.RunScript(ctx, s.scripts.Monitor)
	if err != nil {
		s.logger.Warn("执行监控脚本失败", zap.Error(err))
		return parser.NewPartialResult(defaults, err.Error()),
			parser.HealthDiagnosis{IsError: true, Kind: parser.ErrorKindCommandNotFound, Message: err.Error()}
	}

	diag := parser.DetectFail2banError(report.Text, report.StderrText)
	result := parser.Safe(s.logger, parser.ParseMonitorReport, report.Text, defaults)
	if diag.IsError && diag.Kind != parser.ErrorKindNone {
		result.AddError(diag.Message)
	}
	return result, diag
}

// Overview 总览:监控报告与系统信息并发获取
func (s *StatusService) Overview(ctx context.Context) schema.Overview {
	var (
		report parser.Result[parser.MonitorReport]
		diag   parser.HealthDiagnosis
		system parser.Result[parser.SystemInfo]
	)

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		report, diag = s.monitorReport(ctx)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		system = s.systemInfo(ctx)
		return nil
	})
	_ = p.Wait()

	// 监控报告缺系统章节时用独立的系统信息补位
	if report.Data.System.Hostname == nil && system.Data.Hostname != nil {
		report.Data.System = system.Data
	}

	return schema.BuildOverview(report, internalStatus(diag, report.Partial))
}

// Jails jail 列表:全局状态一次查询,逐 jail 详情有界并发查询
func (s *StatusService) Jails(ctx context.Context) schema.JailsResponse {
	raw, err := s.executor.RunFail2banStatus(ctx)
	if err != nil {
		s.logger.Warn("查询 fail2ban 全局状态失败", zap.Error(err))
		return schema.BuildJailsResponse(nil, []string{err.Error()}, true, schema.ServerStatusOffline)
	}

	diag := parser.DetectFail2banError(raw.Text, raw.StderrText)
	global := parser.Safe(s.logger, parser.ParseGlobalStatus,
		raw.Text, parser.GlobalStatus{Status: "unknown", Jails: []string{}})

	details := make([]parser.Result[parser.JailDetail], len(global.Data.Jails))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(4)
	for i, name := range global.Data.Jails {
		p.Go(func(ctx context.Context) error {
			details[i] = s.jailDetail(ctx, name)
			return nil
		})
	}
	_ = p.Wait()

	jails := make([]schema.NormalizedJail, 0, len(details))
	errs := append([]string{}, global.Errors...)
	partial := global.Partial
	for _, detail := range details {
		jails = append(jails, schema.NormalizeJail(schema.JailFromDetail(detail.Data)))
		errs = append(errs, detail.Errors...)
		partial = partial || detail.Partial
	}

	return schema.BuildJailsResponse(jails, errs, partial, internalStatus(diag, partial))
}

// jailDetail 查询并解析单个 jail 的详情
func (s *StatusService) jailDetail(ctx context.Context, name string) parser.Result[parser.JailDetail] {
	defaults := parser.JailDetail{Name: name, BannedIPs: []string{}}

	raw, err := s.executor.RunFail2banJailStatus(ctx, name)
	if err != nil {
		return parser.NewPartialResult(defaults, err.Error())
	}
	return parser.Safe(s.logger, func(text string) parser.Result[parser.JailDetail] {
		return parser.ParseJailDetail(name, text)
	}, raw.Text, defaults)
}

// Jail 单个 jail 详情,jail 不存在时返回 ErrJailNotFound
func (s *StatusService) Jail(ctx context.Context, name string) (schema.JailResponse, error) {
	raw, err := s.executor.RunFail2banJailStatus(ctx, name)
	if err != nil {
		return schema.JailResponse{}, err
	}
	if strings.Contains(strings.ToLower(raw.Text+raw.StderrText), "does not exist") {
		return schema.JailResponse{}, ErrJailNotFound
	}

	diag := parser.DetectFail2banError(raw.Text, raw.StderrText)
	detail := parser.Safe(s.logger, func(text string) parser.Result[parser.JailDetail] {
		return parser.ParseJailDetail(name, text)
	}, raw.Text, parser.JailDetail{Name: name, BannedIPs: []string{}})

	return schema.BuildJailResponse(detail, internalStatus(diag, detail.Partial)), nil
}

// Nginx nginx 攻击统计,取自综合监控报告
func (s *StatusService) Nginx(ctx context.Context) schema.NginxResponse {
	report, diag := s.monitorReport(ctx)
	return schema.BuildNginxResponse(report, internalStatus(diag, report.Partial))
}

// systemInfo 系统信息:配置了脚本走脚本,否则本地采集兜底
func (s *StatusService) systemInfo(ctx context.Context) parser.Result[parser.SystemInfo] {
	if s.scripts.System == "" {
		return s.local.Collect()
	}

	raw, err := s.executor.RunScript(ctx, s.scripts.System)
	if err != nil {
		s.logger.Warn("执行系统信息脚本失败,改用本地采集", zap.Error(err))
		return s.local.Collect()
	}
	return parser.Safe(s.logger, parser.ParseSystemInfo, raw.Text, parser.SystemInfo{})
}

// System 系统信息
func (s *StatusService) System(ctx context.Context) schema.SystemResponse {
	info := s.systemInfo(ctx)
	status := schema.ServerStatusOnline
	if info.Partial {
		status = schema.ServerStatusPartial
	}
	return schema.BuildSystemResponse(info, status)
}

// QuickCheck 快速巡检
func (s *StatusService) QuickCheck(ctx context.Context) parser.Result[parser.QuickCheck] {
	defaults := parser.QuickCheck{Jails: []string{}}

	raw, err := s.executor.RunFail2banStatus(ctx)
	if err != nil {
		return parser.NewPartialResult(defaults, err.Error())
	}
	return parser.Safe(s.logger, parser.ParseQuickCheck, raw.Text, defaults)
}
