package parser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Func 区段解析函数:纯函数,输入原始文本,输出解析结果
type Func[T any] func(raw string) Result[T]

// Safe 所有消费方统一经由此门面调用解析器,保证"解析永不失败":
//
//  1. 输入为 nil 时直接返回 defaults,解析函数不会被调用;
//  2. 输入不是文本时记一条告警日志后强转为文本继续;
//  3. 输入为空或纯空白时返回 defaults;
//  4. 解析函数内的任何 panic 都被捕获并转换为错误数据,绝不越过此边界;
//  5. 成功时补齐 Errors 切片(解析器可能遗漏初始化)。
//
// 下游可以把每次解析都当作"总是成功",只需检查 Errors/Partial。
func Safe[T any](logger *zap.Logger, fn Func[T], raw any, defaults T) (result Result[T]) {
	if raw == nil {
		return NewPartialResult(defaults, "输入为空指针 (null input)")
	}

	var text string
	switch v := raw.(type) {
	case string:
		text = v
	case *string:
		if v == nil {
			return NewPartialResult(defaults, "输入为空指针 (null input)")
		}
		text = *v
	case []byte:
		text = string(v)
	case fmt.Stringer:
		text = v.String()
	default:
		logger.Warn("解析输入不是文本,已强制转换", zap.String("type", fmt.Sprintf("%T", raw)))
		text = fmt.Sprintf("%v", raw)
	}

	if strings.TrimSpace(text) == "" {
		return NewPartialResult(defaults, "输入为空 (empty input)")
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("解析器 panic,已降级为部分结果", zap.Any("panic", r))
			result = NewPartialResult(defaults, fmt.Sprintf("解析异常: %v", r))
		}
	}()

	result = fn(text)
	if result.Errors == nil {
		result.Errors = []string{}
	}
	result.Partial = len(result.Errors) > 0
	return result
}
