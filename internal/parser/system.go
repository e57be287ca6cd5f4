package parser

import (
	"regexp"
	"strings"
)

// 系统信息解析。输出是 key: value 形式的行,每个字段接受多种写法,
// 字段值保留原始字符串,不做二次解释(内存/磁盘的人类可读格式各异)。

// hostnamePattern 主机名字符类
var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// 每个字段可接受的标签写法,双语
var systemFieldAnchors = []struct {
	anchors []string
	assign  func(*SystemInfo, string)
}{
	{[]string{"hostname", "主机名", "host"}, func(s *SystemInfo, v string) {
		if s.Hostname == nil {
			s.Hostname = &v
		}
	}},
	{[]string{"uptime", "运行时间"}, func(s *SystemInfo, v string) {
		if s.Uptime == nil {
			s.Uptime = &v
		}
	}},
	{[]string{"memory", "内存", "mem"}, func(s *SystemInfo, v string) {
		if s.Memory == nil {
			s.Memory = &v
		}
	}},
	{[]string{"disk", "磁盘"}, func(s *SystemInfo, v string) {
		if s.Disk == nil {
			s.Disk = &v
		}
	}},
	{[]string{"load", "负载"}, func(s *SystemInfo, v string) {
		if s.Load == nil {
			s.Load = &v
		}
	}},
}

// parseSystemLines 从行集合中提取系统信息,每个字段首个结构化命中生效
func parseSystemLines(lines []string) SystemInfo {
	var info SystemInfo

	for _, line := range lines {
		stripped := stripDecoration(line)
		value := valueAfterColon(stripped)
		if value == "" {
			continue
		}
		label := strings.ToLower(stripped[:strings.IndexAny(stripped, ":：")])

		for _, field := range systemFieldAnchors {
			for _, anchor := range field.anchors {
				if strings.Contains(label, anchor) {
					field.assign(&info, value)
					break
				}
			}
		}
	}

	// 兜底:首个非空行若不含分隔符且符合主机名字符类,视为主机名
	if info.Hostname == nil {
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if !strings.ContainsAny(trimmed, ":： ") && hostnamePattern.MatchString(trimmed) {
				info.Hostname = &trimmed
			}
			break
		}
	}

	return info
}

// ParseSystemInfo 解析系统信息脚本输出
func ParseSystemInfo(raw string) Result[SystemInfo] {
	result := NewResult(SystemInfo{})

	lines := SplitLines(raw)
	result.Data = parseSystemLines(lines)

	if result.Data.Hostname == nil && result.Data.Uptime == nil &&
		result.Data.Memory == nil && result.Data.Disk == nil && result.Data.Load == nil {
		result.AddError("输出中未识别出任何系统信息字段")
	}
	return result
}
