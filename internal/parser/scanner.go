package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// 基于锚点的文本扫描工具。
// 上游脚本输出是给人看的,不是给机器看的:中英文混排、
// 标签和数值不保证在同一行、前缀可能带制表符/反引号/管道符。
// 这里只做"在锚点附近找值",不假设任何固定格式。

var (
	ipv4Pattern     = regexp.MustCompile(`(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})`)
	digitRunPattern = regexp.MustCompile(`\d+`)
)

// SplitLines 按行切分原始文本
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// matchAnchor 锚点匹配:大小写不敏感的子串包含
func matchAnchor(line, anchor string) bool {
	return strings.Contains(strings.ToLower(line), strings.ToLower(anchor))
}

// ExtractSection 返回 startAnchor 之后、endAnchor 之前的行。
// endAnchor 为空或未出现时取到文本末尾;startAnchor 未出现时静默返回空切片。
func ExtractSection(lines []string, startAnchor, endAnchor string) []string {
	start := -1
	for i, line := range lines {
		if matchAnchor(line, startAnchor) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return []string{}
	}

	end := len(lines)
	if endAnchor != "" {
		for i := start; i < len(lines); i++ {
			if matchAnchor(lines[i], endAnchor) {
				end = i
				break
			}
		}
	}
	return lines[start:end]
}

// FindValueAfterAnchor 定位首个匹配 anchor 的行,从该行起向后最多扫描
// maxSearch+1 行寻找整数值。锚点所在行只取锚点之后的部分
// (标签本身可能含数字,例如 "404 错误"),后续行整行参与:
// 先尝试整行按整数解析,再退化为取第一串数字。
// 两种方式都失败、或锚点不存在时返回 (0, false)。
func FindValueAfterAnchor(lines []string, anchor string, maxSearch int) (int, bool) {
	anchorIdx := -1
	for i, line := range lines {
		if matchAnchor(line, anchor) {
			anchorIdx = i
			break
		}
	}
	if anchorIdx < 0 {
		return 0, false
	}

	for i := anchorIdx; i <= anchorIdx+maxSearch && i < len(lines); i++ {
		candidate := lines[i]
		if i == anchorIdx {
			lower := strings.ToLower(candidate)
			pos := strings.Index(lower, strings.ToLower(anchor))
			candidate = candidate[pos+len(anchor):]
		}

		trimmed := strings.Trim(strings.TrimSpace(candidate), ":：`|\t ")
		if trimmed == "" {
			continue
		}
		if v, err := strconv.Atoi(trimmed); err == nil {
			return v, true
		}
		if m := digitRunPattern.FindString(trimmed); m != "" {
			if v, err := strconv.Atoi(m); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// ExtractIPs 提取文本中所有 IPv4 形状的子串,并校验每个八位组在 [0,255]。
// 保留出现顺序和重复项——同一地址出现多次可能代表多次封禁事件,不去重。
func ExtractIPs(text string) []string {
	ips := []string{}
	for _, m := range ipv4Pattern.FindAllStringSubmatch(text, -1) {
		valid := true
		for _, octet := range m[1:] {
			n, err := strconv.Atoi(octet)
			if err != nil || n > 255 {
				valid = false
				break
			}
		}
		if valid {
			ips = append(ips, m[0])
		}
	}
	return ips
}

// ExtractNumber 单行数值提取:用给定正则在一行内取数。
// 有捕获组时取第一个捕获组,否则取整个匹配。
func ExtractNumber(line string, pattern *regexp.Regexp) (int, bool) {
	m := pattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	candidate := m[0]
	if len(m) > 1 && m[1] != "" {
		candidate = m[1]
	}
	digits := digitRunPattern.FindString(candidate)
	if digits == "" {
		return 0, false
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return v, true
}
