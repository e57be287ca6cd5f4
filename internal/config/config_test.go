package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "不存在.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:18666", cfg.Server.Addr)
	assert.Equal(t, "fail2ban-client", cfg.Fail2ban.Client)
	assert.Contains(t, cfg.Scripts.Allow, "security-monitor.sh")
	assert.Equal(t, path, cfg.Path)
}

func TestLoadMergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mastiff.yaml")
	content := "server:\n  addr: 0.0.0.0:9000\nscripts:\n  dir: /srv/scripts\n  timeout_seconds: 30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, "/srv/scripts", cfg.Scripts.Dir)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	// 未覆盖的字段保持默认值
	assert.Equal(t, "fail2ban-client", cfg.Fail2ban.Client)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadRejectsInvalidLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mastiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: verbose\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "配置校验失败")
}

func TestLoadRejectsBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mastiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [不是映射"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "mastiff.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:28666"
	cfg.Scripts.Sudo = false
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:28666", loaded.Server.Addr)
	assert.False(t, loaded.Scripts.Sudo)
	assert.Equal(t, cfg.Scripts.Allow, loaded.Scripts.Allow)
}

func TestTimeoutFallback(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 15*time.Second, cfg.Timeout())

	cfg.Scripts.TimeoutSeconds = 7
	assert.Equal(t, 7*time.Second, cfg.Timeout())
}
