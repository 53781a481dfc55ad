// MockChatModel 是 llm.ChatModel 的测试模拟实现。
//
// 支持固定响应、延迟与错误注入场景，并记录每次调用。
package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tallen12/Resume-RAG/llm"
	"github.com/tallen12/Resume-RAG/types"
)

// ErrMockFailAfter 是 WithFailAfter 触发时返回的错误
var ErrMockFailAfter = errors.New("mock chat model: configured failure")

// MockChatCall 记录单次调用
type MockChatCall struct {
	Messages []types.Message
	Options  llm.ChatOptions
}

// MockChatModel 是 ChatModel 的模拟实现
type MockChatModel struct {
	mu sync.Mutex

	response  string
	err       error
	delay     time.Duration
	failAfter int
	chatFunc  func(ctx context.Context, messages []types.Message, opts llm.ChatOptions) (types.Message, error)

	calls []MockChatCall
}

var _ llm.ChatModel = (*MockChatModel)(nil)

// NewMockChatModel 创建新的 MockChatModel
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{response: "Mock response"}
}

// WithResponse 设置固定响应内容
func (m *MockChatModel) WithResponse(response string) *MockChatModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
	return m
}

// WithError 设置返回错误
func (m *MockChatModel) WithError(err error) *MockChatModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithDelay 设置响应延迟，期间遵守 ctx 取消
func (m *MockChatModel) WithDelay(d time.Duration) *MockChatModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// WithFailAfter 设置在第 n 次成功调用后失败
func (m *MockChatModel) WithFailAfter(n int) *MockChatModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	return m
}

// WithChatFunc 设置自定义响应逻辑，优先于固定响应
func (m *MockChatModel) WithChatFunc(fn func(ctx context.Context, messages []types.Message, opts llm.ChatOptions) (types.Message, error)) *MockChatModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatFunc = fn
	return m
}

// Chat 实现 llm.ChatModel
func (m *MockChatModel) Chat(ctx context.Context, messages []types.Message, opts ...llm.ChatOption) (types.Message, error) {
	o := llm.ApplyChatOptions(opts...)

	m.mu.Lock()
	m.calls = append(m.calls, MockChatCall{
		Messages: append([]types.Message(nil), messages...),
		Options:  o,
	})
	n := len(m.calls)
	response, err, delay, failAfter, fn := m.response, m.err, m.delay, m.failAfter, m.chatFunc
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return types.Message{}, ctx.Err()
		}
	}
	if err != nil {
		return types.Message{}, err
	}
	if failAfter > 0 && n > failAfter {
		return types.Message{}, ErrMockFailAfter
	}
	if fn != nil {
		return fn(ctx, messages, o)
	}
	return types.NewAssistantMessage(response), nil
}

// Calls 返回调用记录的副本
func (m *MockChatModel) Calls() []MockChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockChatCall(nil), m.calls...)
}

// CallCount 返回调用次数
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
