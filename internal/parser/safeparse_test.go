package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSafeNilInputSkipsParser(t *testing.T) {
	called := false
	fn := func(raw string) Result[int] {
		called = true
		return NewResult(42)
	}

	result := Safe(zap.NewNop(), fn, nil, -1)

	assert.False(t, called, "nil 输入不应触发解析函数")
	assert.Equal(t, -1, result.Data)
	assert.True(t, result.Partial)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "空指针")
}

func TestSafeNilStringPointer(t *testing.T) {
	var p *string
	result := Safe(zap.NewNop(), func(raw string) Result[int] { return NewResult(1) }, p, 0)

	assert.True(t, result.Partial)
	assert.Equal(t, 0, result.Data)
}

func TestSafeEmptyInput(t *testing.T) {
	called := false
	fn := func(raw string) Result[int] {
		called = true
		return NewResult(42)
	}

	result := Safe(zap.NewNop(), fn, "   \n\t  ", 7)

	assert.False(t, called)
	assert.Equal(t, 7, result.Data)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "empty input")
}

func TestSafeCoercesNonText(t *testing.T) {
	var got string
	fn := func(raw string) Result[string] {
		got = raw
		return NewResult(raw)
	}

	result := Safe(zap.NewNop(), fn, 12345, "")

	assert.Equal(t, "12345", got)
	assert.False(t, result.Partial)
	assert.Equal(t, "12345", result.Data)
}

func TestSafeBytesInput(t *testing.T) {
	result := Safe(zap.NewNop(), func(raw string) Result[string] { return NewResult(raw) }, []byte("hello"), "")

	assert.Equal(t, "hello", result.Data)
	assert.False(t, result.Partial)
}

func TestSafeRecoversPanic(t *testing.T) {
	fn := func(raw string) Result[int] {
		panic("boom")
	}

	result := Safe(zap.NewNop(), fn, "some input", 9)

	assert.Equal(t, 9, result.Data)
	assert.True(t, result.Partial)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "boom")
}

func TestSafeSyncsPartialWithErrors(t *testing.T) {
	// 解析器若忘记同步 Partial/Errors,门面负责补齐
	fn := func(raw string) Result[int] {
		return Result[int]{Data: 3, Errors: []string{"某个错误"}, Partial: false}
	}

	result := Safe(zap.NewNop(), fn, "x", 0)

	assert.True(t, result.Partial)

	fn2 := func(raw string) Result[int] {
		return Result[int]{Data: 3, Errors: nil, Partial: true}
	}

	result2 := Safe(zap.NewNop(), fn2, "x", 0)

	assert.False(t, result2.Partial)
	assert.NotNil(t, result2.Errors)
}
