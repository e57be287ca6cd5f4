package gateway

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 特权脚本/命令执行网关。
// 只有白名单里的脚本名可以被执行,脚本名不允许包含路径分隔符;
// 超时和输出上限都在这里兜住。对解析核心而言执行机制是不透明的,
// 它只消费 RawReport。

// maxOutputBytes 单条流的输出上限,防止失控脚本撑爆内存
const maxOutputBytes = 1 << 20

// RawReport 一次命令执行的原始产物。
// 非零退出码不是错误,是数据——由健康分类器决定它意味着什么。
type RawReport struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	StderrText string    `json:"stderrText"`
	ExitCode   int       `json:"exitCode"`
	ProducedAt time.Time `json:"producedAt"`
}

// Options 执行网关配置
type Options struct {
	// 脚本目录,白名单内的脚本名在此目录下解析
	ScriptDir string
	// 是否以 sudo 执行
	Sudo bool
	// 单次执行超时
	Timeout time.Duration
	// 允许执行的脚本名
	Allow []string
	// fail2ban-client 可执行文件路径
	Fail2banClient string
}

// Executor 命令执行器
type Executor struct {
	logger *zap.Logger

	mu   sync.RWMutex
	opts Options
}

// NewExecutor 创建执行器
func NewExecutor(logger *zap.Logger, opts Options) *Executor {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Fail2banClient == "" {
		opts.Fail2banClient = "fail2ban-client"
	}
	return &Executor{logger: logger, opts: opts}
}

// UpdateAllow 热更新脚本白名单(配置文件变更时由 watcher 调用)
func (e *Executor) UpdateAllow(allow []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Allow = allow
	e.logger.Info("脚本白名单已更新", zap.Strings("allow", allow))
}

// allowed 检查脚本名是否在白名单内
func (e *Executor) allowed(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, item := range e.opts.Allow {
		if item == name {
			return true
		}
	}
	return false
}

// RunScript 执行白名单内的脚本,返回原始报告。
// 脚本不存在、不在白名单、无法启动时返回 error;
// 脚本跑完但退出码非零不算 error。
func (e *Executor) RunScript(ctx context.Context, name string, args ...string) (*RawReport, error) {
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return nil, errors.Errorf("非法脚本名: %s", name)
	}
	if !e.allowed(name) {
		return nil, errors.Errorf("脚本不在白名单内: %s", name)
	}

	e.mu.RLock()
	scriptPath := filepath.Join(e.opts.ScriptDir, name)
	e.mu.RUnlock()

	return e.run(ctx, scriptPath, args...)
}

// RunFail2banStatus 查询 fail2ban 全局状态
func (e *Executor) RunFail2banStatus(ctx context.Context) (*RawReport, error) {
	e.mu.RLock()
	client := e.opts.Fail2banClient
	e.mu.RUnlock()
	return e.run(ctx, client, "status")
}

// RunFail2banJailStatus 查询单个 jail 的状态
func (e *Executor) RunFail2banJailStatus(ctx context.Context, jail string) (*RawReport, error) {
	e.mu.RLock()
	client := e.opts.Fail2banClient
	e.mu.RUnlock()
	return e.run(ctx, client, "status", jail)
}

// run 实际执行命令,stdout/stderr 分流并截断到上限
func (e *Executor) run(ctx context.Context, command string, args ...string) (*RawReport, error) {
	e.mu.RLock()
	timeout := e.opts.Timeout
	sudo := e.opts.Sudo
	e.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if sudo {
		args = append([]string{"-n", command}, args...)
		command = "sudo"
	}

	cmd := exec.CommandContext(ctx, command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	report := &RawReport{
		ID:         uuid.NewString(),
		Text:       truncate(stdout.String()),
		StderrText: truncate(stderr.String()),
		ProducedAt: start,
	}

	if err != nil {
		var exitErr *exec.ExitError
		// 超时先于退出码判断:被 ctx 杀掉的进程也会带着 ExitError 回来
		if ctx.Err() != nil {
			return nil, errors.Errorf("命令执行超时: %s", command)
		} else if errors.As(err, &exitErr) {
			// 命令跑完了,只是退出码非零:交给上层的分类器裁决
			report.ExitCode = exitErr.ExitCode()
		} else {
			return nil, errors.WrapPrefix(err, "命令启动失败: "+command, 0)
		}
	}

	e.logger.Debug("命令执行完成",
		zap.String("id", report.ID),
		zap.String("command", command),
		zap.Int("exitCode", report.ExitCode),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

func truncate(s string) string {
	if len(s) > maxOutputBytes {
		return s[:maxOutputBytes]
	}
	return s
}
