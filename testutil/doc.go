// Copyright (c) Resume-RAG Authors.
// Licensed under the MIT License.

/*
Package testutil 提供 Resume-RAG 测试的共享工具和辅助函数。

# 概述

testutil 包为各包的单元测试提供统一的辅助能力，避免各包重复实现
相似的测试基础设施。

# 核心能力

  - 上下文辅助: TestContext / TestContextWithTimeout / CancelledContext，
    自动注册 Cleanup 防止泄漏
  - 断言工具: AssertMessagesEqual / AssertEventuallyTrue
  - 数据工具: MustJSON

# 子包

  - testutil/mocks: 协作方的 Mock 实现，包括 MockChatModel（对话模型）、
    MockEmbeddingModel（嵌入模型）、MockVectorStore（向量存储），
    均支持 Builder 模式、调用记录与错误注入
  - testutil/fixtures: 测试数据工厂，提供样例工作经历与结构化输出

# 使用示例

	ctx := testutil.TestContext(t)
	chat := mocks.NewMockChatModel().WithResponse(fixtures.BulletPointsJSON)
	reply, err := chat.Chat(ctx, messages)
*/
package testutil
