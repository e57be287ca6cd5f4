package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackupOutputSuccess(t *testing.T) {
	raw := `✅ 备份成功 (Backup completed)
文件 (File): /var/backups/site-20250830.tar.gz
大小 (Size): 1.5 GB
`
	result := ParseBackupOutput(raw)

	require.Empty(t, result.Errors)
	assert.True(t, result.Data.Success)
	assert.Equal(t, "/var/backups/site-20250830.tar.gz", result.Data.Path)
	assert.Equal(t, "site-20250830.tar.gz", result.Data.Filename)
	require.NotNil(t, result.Data.Size)
	assert.Equal(t, int64(1610612736), *result.Data.Size)
	assert.Equal(t, "1.5 GB", result.Data.SizeFormatted)
	assert.NotEmpty(t, result.Data.Timestamp)
}

func TestParseBackupOutputFailureMarkerDominates(t *testing.T) {
	// 同时出现失败标记和文件路径时,失败标记压过 path-found 兜底
	raw := "❌ 备份失败 (Backup failed)\n残留文件: /var/backups/partial-backup.tar.gz\n"
	result := ParseBackupOutput(raw)

	assert.False(t, result.Data.Success)
	assert.True(t, result.Partial)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "失败标记")
}

func TestParseBackupOutputPathFoundFallback(t *testing.T) {
	// 无任何显式标记,仅凭文件路径判定成功,且不产生错误
	raw := "/var/backups/db-backup-20250831.sql.gz\n"
	result := ParseBackupOutput(raw)

	assert.True(t, result.Data.Success)
	assert.False(t, result.Partial)
	assert.Equal(t, []string{}, result.Errors)
	assert.Equal(t, "db-backup-20250831.sql.gz", result.Data.Filename)
}

func TestParseBackupOutputUndecidable(t *testing.T) {
	result := ParseBackupOutput("一些没有任何标记的输出\n")

	assert.False(t, result.Data.Success)
	assert.True(t, result.Partial)
	require.Len(t, result.Errors, 1)
}

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		text      string
		bytes     int64
		formatted string
	}{
		{"512KB", 524288, "512KB"},
		{"大小: 1.5 GB", 1610612736, "1.5 GB"},
		{"2 MB free", 2097152, "2 MB"},
		{"100 B", 100, "100 B"},
	}
	for _, tt := range tests {
		bytes, formatted, ok := parseHumanSize(tt.text)
		require.True(t, ok, tt.text)
		assert.Equal(t, tt.bytes, bytes, tt.text)
		assert.Equal(t, tt.formatted, formatted, tt.text)
	}

	_, _, ok := parseHumanSize("no size here")
	assert.False(t, ok)
}
