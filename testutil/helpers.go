// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 使用方法:
//
//	ctx := testutil.UserContext(t, userID)
//	testutil.AssertMessagesEqual(t, want, mock.Calls()[0].Messages)
// =============================================================================
package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallen12/Resume-RAG/types"
)

// DefaultTimeout 是 TestContext 的超时时间
const DefaultTimeout = 30 * time.Second

// TestContext 返回随测试结束取消的上下文
func TestContext(t testing.TB) context.Context {
	return TestContextWithTimeout(t, DefaultTimeout)
}

// TestContextWithTimeout 同 TestContext，超时可自定义
func TestContextWithTimeout(t testing.TB, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// UserContext 返回携带用户 ID 的测试上下文，供按用户过滤检索使用
func UserContext(t testing.TB, userID string) context.Context {
	return types.WithUserID(TestContext(t), userID)
}

// CancelledContext 返回已取消的上下文
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// messageView 只保留比较时关心的字段
type messageView struct {
	Role    types.Role
	Content string
	Name    string
}

func views(msgs []types.Message) []messageView {
	out := make([]messageView, len(msgs))
	for i, m := range msgs {
		out[i] = messageView{Role: m.Role, Content: m.Content, Name: m.Name}
	}
	return out
}

// AssertMessagesEqual 比较角色、内容与名称，忽略时间戳
func AssertMessagesEqual(t testing.TB, expected, actual []types.Message) bool {
	t.Helper()
	return assert.Equal(t, views(expected), views(actual))
}

// AssertEventuallyTrue 每 10ms 检查一次条件，直到超时
func AssertEventuallyTrue(t testing.TB, condition func() bool, timeout time.Duration) bool {
	t.Helper()
	return assert.Eventually(t, condition, timeout, 10*time.Millisecond)
}

// MustJSON 将值编码为 JSON 字符串，失败时终止测试
func MustJSON(t testing.TB, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "marshal %T", v)
	return string(data)
}
