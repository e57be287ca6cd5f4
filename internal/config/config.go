package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-errors/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config 服务配置
type Config struct {
	// 配置文件路径
	Path string `yaml:"-"`

	// HTTP 服务配置
	Server ServerConfig `yaml:"server"`

	// 脚本执行配置
	Scripts ScriptsConfig `yaml:"scripts"`

	// fail2ban 配置
	Fail2ban Fail2banConfig `yaml:"fail2ban"`

	// 日志配置
	Log LogConfig `yaml:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	// 监听地址(如 127.0.0.1:18666)
	Addr string `yaml:"addr" validate:"required"`
}

// ScriptsConfig 脚本执行配置
type ScriptsConfig struct {
	// 脚本目录
	Dir string `yaml:"dir" validate:"required"`

	// 是否以 sudo 执行
	Sudo bool `yaml:"sudo"`

	// 单次执行超时(秒)
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=0,lte=300"`

	// 允许执行的脚本名白名单
	Allow []string `yaml:"allow"`

	// 各资源对应的脚本名,留空表示该资源不可用(或走本地兜底采集)
	Monitor string `yaml:"monitor"`
	System  string `yaml:"system"`
	Backup  string `yaml:"backup"`
}

// Fail2banConfig fail2ban 客户端配置
type Fail2banConfig struct {
	// fail2ban-client 可执行文件路径
	Client string `yaml:"client"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志文件路径,留空只输出到控制台
	File string `yaml:"file"`

	// 单个日志文件大小上限(MB)
	MaxSize int `yaml:"max_size"`

	// 保留的旧日志文件数
	MaxBackups int `yaml:"max_backups"`

	// 日志级别: debug/info/warn/error
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "127.0.0.1:18666",
		},
		Scripts: ScriptsConfig{
			Dir:            "/opt/mastiff/scripts",
			Sudo:           true,
			TimeoutSeconds: 15,
			Allow:          []string{"security-monitor.sh", "system-info.sh", "backup-status.sh"},
			Monitor:        "security-monitor.sh",
			System:         "system-info.sh",
			Backup:         "backup-status.sh",
		},
		Fail2ban: Fail2banConfig{
			Client: "fail2ban-client",
		},
		Log: LogConfig{
			MaxSize:    50,
			MaxBackups: 3,
			Level:      "info",
		},
	}
}

// Load 加载并校验配置文件,文件不存在时返回默认配置
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.WrapPrefix(err, "读取配置文件失败", 0)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapPrefix(err, "解析配置文件失败", 0)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.WrapPrefix(err, "配置校验失败", 0)
	}
	return cfg, nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapPrefix(err, "创建配置目录失败", 0)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.WrapPrefix(err, "序列化配置失败", 0)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapPrefix(err, "写入配置文件失败", 0)
	}
	return nil
}

// Timeout 脚本执行超时
func (c *Config) Timeout() time.Duration {
	if c.Scripts.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Scripts.TimeoutSeconds) * time.Second
}

// GetDefaultConfigPath 默认配置文件路径
func GetDefaultConfigPath() string {
	return "/etc/mastiff/mastiff.yaml"
}
