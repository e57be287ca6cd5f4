package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// 备份脚本输出解析。脚本输出带 emoji 标记和双语提示,形如:
//
//	✅ 备份成功 (Backup completed)
//	文件 (File): /var/backups/site-20250830.tar.gz
//	大小 (Size): 1.5 GB

// 显式成败标记,双语
var (
	backupSuccessMarkers = []string{"✅", "成功", "success", "completed"}
	backupFailureMarkers = []string{"❌", "失败", "error", "failed"}
)

// backupFilePattern 裸路径形态的备份文件名
var backupFilePattern = regexp.MustCompile(`[\w./-]*backup[\w.-]*\.(?:tar\.gz|tgz|zip|sql\.gz)|/[\w./-]+\.(?:tar\.gz|tgz|sql\.gz)`)

// backupSizePattern 人类可读的大小,如 "1.5 GB"、"512KB"
var backupSizePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(B|KB|MB|GB|TB)\b`)

// 二进制倍数单位表
var sizeUnits = map[string]float64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// parseHumanSize 人类可读大小转字节数
func parseHumanSize(text string) (int64, string, bool) {
	m := backupSizePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return int64(math.Round(value * sizeUnits[m[2]])), strings.TrimSpace(m[0]), true
}

func containsAnyMarker(lower string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ParseBackupOutput 解析备份脚本输出。
//
// 成败判定:显式失败标记优先于一切;其次显式成功标记;
// 都没有但找到了备份文件路径时默认成功(path-found 兜底)。
func ParseBackupOutput(raw string) Result[BackupResult] {
	backup := BackupResult{Timestamp: time.Now().UTC().Format(time.RFC3339)}
	result := NewResult(backup)

	lower := strings.ToLower(raw)
	hasSuccess := containsAnyMarker(lower, backupSuccessMarkers)
	hasFailure := containsAnyMarker(lower, backupFailureMarkers)

	// 文件路径:优先取显式 File 标签,否则在全文里找备份文件名形态的子串
	lines := SplitLines(raw)
	for _, line := range lines {
		if matchAnchor(line, "file") || matchAnchor(line, "文件") {
			if v := valueAfterColon(line); v != "" {
				result.Data.Path = strings.TrimSpace(v)
				break
			}
		}
	}
	if result.Data.Path == "" {
		result.Data.Path = backupFilePattern.FindString(raw)
	}
	if result.Data.Path != "" {
		if idx := strings.LastIndex(result.Data.Path, "/"); idx >= 0 {
			result.Data.Filename = result.Data.Path[idx+1:]
		} else {
			result.Data.Filename = result.Data.Path
		}
	}

	if bytes, formatted, ok := parseHumanSize(raw); ok {
		result.Data.Size = &bytes
		result.Data.SizeFormatted = formatted
	}

	switch {
	case hasFailure:
		// 失败标记压过 path-found 兜底
		result.Data.Success = false
		result.AddError("备份输出包含失败标记")
	case hasSuccess:
		result.Data.Success = true
	case result.Data.Path != "":
		result.Data.Success = true
	default:
		result.Data.Success = false
		result.AddError(fmt.Sprintf("备份输出无法判定成败 (长度 %d 字节)", len(raw)))
	}
	return result
}
