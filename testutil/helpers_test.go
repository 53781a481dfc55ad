package testutil

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallen12/Resume-RAG/types"
)

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := TestContextWithTimeout(t, time.Minute)
	_, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.NoError(t, ctx.Err())
	assert.Error(t, CancelledContext().Err())

	id, ok := types.UserID(UserContext(t, "u-1"))
	require.True(t, ok)
	assert.Equal(t, "u-1", id)
}

func TestAssertions(t *testing.T) {
	t.Parallel()

	msgs := []types.Message{types.NewUserMessage("a"), types.NewAssistantMessage("b")}
	AssertMessagesEqual(t, msgs, []types.Message{{Role: types.RoleUser, Content: "a"}, {Role: types.RoleAssistant, Content: "b"}})

	var n atomic.Int32
	go func() {
		time.Sleep(20 * time.Millisecond)
		n.Store(1)
	}()
	AssertEventuallyTrue(t, func() bool { return n.Load() == 1 }, time.Second)

	assert.Equal(t, `{"a":1}`, MustJSON(t, map[string]int{"a": 1}))
}
