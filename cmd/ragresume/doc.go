/*
Package main 提供 ragresume 命令行入口。

# 概述

cmd/ragresume 加载 YAML 配置，按配置初始化日志、Prometheus 指标与
OpenTelemetry，并编译简历生成工作流。

# 子命令

  - graph    — 以 Mermaid 输出 resume_builder 工作流拓扑
  - config   — 输出合并默认值、配置文件与环境变量后的生效配置
  - version  — 输出构建版本
*/
package main
