package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSystemInfo(t *testing.T) {
	raw := `主机名 (Hostname): web-01
运行时间 (Uptime): 12d 4h 31m
内存 (Memory): 3.1GiB/7.8GiB (40%)
磁盘 (Disk): 21GiB/80GiB (26%)
负载 (Load): 0.42 0.38 0.35
`
	result := ParseSystemInfo(raw)

	require.Empty(t, result.Errors)
	require.NotNil(t, result.Data.Hostname)
	assert.Equal(t, "web-01", *result.Data.Hostname)
	require.NotNil(t, result.Data.Uptime)
	assert.Equal(t, "12d 4h 31m", *result.Data.Uptime)
	require.NotNil(t, result.Data.Memory)
	assert.Equal(t, "3.1GiB/7.8GiB (40%)", *result.Data.Memory)
	require.NotNil(t, result.Data.Disk)
	assert.Equal(t, "21GiB/80GiB (26%)", *result.Data.Disk)
	require.NotNil(t, result.Data.Load)
	assert.Equal(t, "0.42 0.38 0.35", *result.Data.Load)
}

func TestParseSystemInfoEnglishLabels(t *testing.T) {
	raw := "host: db-02\nmem: 1G/2G\nload average: 0.1 0.1 0.1\n"
	result := ParseSystemInfo(raw)

	require.NotNil(t, result.Data.Hostname)
	assert.Equal(t, "db-02", *result.Data.Hostname)
	require.NotNil(t, result.Data.Memory)
	assert.Equal(t, "1G/2G", *result.Data.Memory)
	require.NotNil(t, result.Data.Load)
	assert.Equal(t, "0.1 0.1 0.1", *result.Data.Load)
	assert.Nil(t, result.Data.Uptime)
	assert.Nil(t, result.Data.Disk)
}

func TestParseSystemInfoFirstMatchWins(t *testing.T) {
	raw := "主机名: web-01\nhostname: web-02\n"
	result := ParseSystemInfo(raw)

	require.NotNil(t, result.Data.Hostname)
	assert.Equal(t, "web-01", *result.Data.Hostname)
}

func TestParseSystemInfoHostnameFallback(t *testing.T) {
	// 首个非空行不含分隔符时按主机名兜底
	raw := "\nweb-03\n内存: 1G/2G\n"
	result := ParseSystemInfo(raw)

	require.NotNil(t, result.Data.Hostname)
	assert.Equal(t, "web-03", *result.Data.Hostname)
}

func TestParseSystemInfoNoFields(t *testing.T) {
	result := ParseSystemInfo("完全无关的内容 without any separators at all")

	assert.True(t, result.Partial)
	require.Len(t, result.Errors, 1)
	assert.Nil(t, result.Data.Hostname)
}
