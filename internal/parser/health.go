package parser

import "strings"

// ErrorKind fail2ban 故障类别
type ErrorKind string

const (
	ErrorKindNone            ErrorKind = "none"
	ErrorKindConnection      ErrorKind = "connection_error"
	ErrorKindServiceDown     ErrorKind = "service_down"
	ErrorKindPermission      ErrorKind = "permission_error"
	ErrorKindCommandNotFound ErrorKind = "command_not_found"
	ErrorKindEmptyOutput     ErrorKind = "empty_output"
)

// HealthDiagnosis 健康诊断结果
type HealthDiagnosis struct {
	IsError bool      `json:"isError"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message,omitempty"`
}

// errorSignature 故障特征:一组子串命中即判定为对应类别
type errorSignature struct {
	kind    ErrorKind
	message string
	needles []string
}

// 特征按固定优先级排列,首个命中生效。
// 同一段输出可能同时命中多条特征(比如 "failed to access socket:
// permission denied" 既像服务未运行又像权限问题),顺序即裁决:
// 连接失败 → 服务未运行 → 权限不足 → 命令不存在。
var fail2banSignatures = []errorSignature{
	{
		kind:    ErrorKindConnection,
		message: "无法连接到 fail2ban 服务",
		needles: []string{"connection refused", "cannot connect", "failed to connect", "无法连接"},
	},
	{
		kind:    ErrorKindServiceDown,
		message: "fail2ban 服务未运行",
		needles: []string{"is the server running", "server not running", "not running", "failed to access socket", "socket error", "服务未运行"},
	},
	{
		kind:    ErrorKindPermission,
		message: "权限不足,无法访问 fail2ban",
		needles: []string{"permission denied", "access denied", "operation not permitted", "权限不足", "拒绝访问"},
	},
	{
		kind:    ErrorKindCommandNotFound,
		message: "fail2ban-client 命令不存在",
		needles: []string{"command not found", "no such file or directory", "executable file not found", "未找到命令"},
	},
}

// DetectFail2banError 在不解析结构的前提下检查原始输出中的已知故障特征。
// stdout 和 stderr 拼接后统一小写比对,是结构化解析之前的廉价健康闸门。
func DetectFail2banError(stdout, stderr string) HealthDiagnosis {
	combined := strings.ToLower(stdout + "\n" + stderr)

	for _, sig := range fail2banSignatures {
		for _, needle := range sig.needles {
			if strings.Contains(combined, strings.ToLower(needle)) {
				return HealthDiagnosis{IsError: true, Kind: sig.kind, Message: sig.message}
			}
		}
	}

	if strings.TrimSpace(stdout) == "" && strings.TrimSpace(stderr) == "" {
		return HealthDiagnosis{IsError: true, Kind: ErrorKindEmptyOutput, Message: "命令无输出"}
	}

	return HealthDiagnosis{Kind: ErrorKindNone}
}
