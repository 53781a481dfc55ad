// Copyright (c) Resume-RAG Authors.
// Licensed under the MIT License.

/*
Package types 提供 Resume-RAG 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 workflow、llm、rag 与
pipelines 等上层模块提供统一的类型契约，以避免循环依赖。

# 核心类型

  - Message / Role    — 对话消息（角色 + 内容），供 llm.ChatModel 使用
  - Error / ErrorCode — 结构化错误，含错误码与 Retryable 标记

# 主要能力

  - Context 传播：WithRunID / WithWorkflow / WithNode / WithUserID，
    由 workflow 引擎在每次运行与每个节点执行前写入
  - 错误工具链：NewError / WithCause / IsRetryable / GetErrorCode
*/
package types
