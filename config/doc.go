// Package config 提供 Resume-RAG 的配置管理功能。
//
// 配置按 默认值 → YAML 文件 → 环境变量（前缀 RAGRESUME）的顺序加载，
// 包含工作流引擎、日志、Prometheus 指标和 OpenTelemetry 四个部分。
package config
