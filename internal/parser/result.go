package parser

// Result 解析结果
// 解析器不抛出异常、不返回 error,所有失败都降级为数据:
// Errors 记录失败原因,Partial 标记结果不完整。
// 不变量: Partial == true 当且仅当 Errors 非空。
type Result[T any] struct {
	Data    T        `json:"data"`
	Errors  []string `json:"errors"`
	Partial bool     `json:"partial"`
}

// NewResult 创建完整的解析结果
func NewResult[T any](data T) Result[T] {
	return Result[T]{Data: data, Errors: []string{}}
}

// NewPartialResult 创建降级的解析结果
func NewPartialResult[T any](data T, errs ...string) Result[T] {
	r := Result[T]{Data: data, Errors: []string{}}
	for _, e := range errs {
		r.AddError(e)
	}
	return r
}

// AddError 记录一条错误并同步 Partial 标记
func (r *Result[T]) AddError(msg string) {
	if msg == "" {
		return
	}
	r.Errors = append(r.Errors, msg)
	r.Partial = true
}

// Ok 解析是否完整成功
func (r *Result[T]) Ok() bool {
	return !r.Partial && len(r.Errors) == 0
}
