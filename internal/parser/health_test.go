package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFail2banError(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		stderr string
		kind   ErrorKind
	}{
		{
			name:   "connection refused",
			stderr: "ERROR Failed: connection refused",
			kind:   ErrorKindConnection,
		},
		{
			name:   "service down",
			stderr: "Failed to access socket path: /var/run/fail2ban/fail2ban.sock",
			kind:   ErrorKindServiceDown,
		},
		{
			name:   "permission denied",
			stderr: "Permission denied: '/var/run/fail2ban/fail2ban.sock'",
			kind:   ErrorKindPermission,
		},
		{
			name:   "command not found",
			stderr: "sh: fail2ban-client: command not found",
			kind:   ErrorKindCommandNotFound,
		},
		{
			name: "empty output",
			kind: ErrorKindEmptyOutput,
		},
		{
			name:   "healthy output",
			stdout: "Status\n|- Number of jail:\t1",
			kind:   ErrorKindNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := DetectFail2banError(tt.stdout, tt.stderr)
			assert.Equal(t, tt.kind, diag.Kind)
			assert.Equal(t, tt.kind != ErrorKindNone, diag.IsError)
		})
	}
}

func TestDetectFail2banErrorPriority(t *testing.T) {
	// 同时命中多个特征时,按固定优先级取第一个:连接失败压过权限问题
	diag := DetectFail2banError("", "cannot connect: permission denied")
	assert.Equal(t, ErrorKindConnection, diag.Kind)

	// 服务未运行压过权限问题
	diag = DetectFail2banError("", "failed to access socket: permission denied")
	assert.Equal(t, ErrorKindServiceDown, diag.Kind)
}

func TestDetectFail2banErrorCaseInsensitive(t *testing.T) {
	diag := DetectFail2banError("CONNECTION REFUSED", "")
	assert.Equal(t, ErrorKindConnection, diag.Kind)
	assert.True(t, diag.IsError)
	assert.NotEmpty(t, diag.Message)
}
