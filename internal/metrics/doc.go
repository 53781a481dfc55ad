/*
包 metrics 提供基于 Prometheus 的工作流指标采集能力。

# 概述

Collector 通过 promauto 注册到调用方提供的 Registerer（默认为全局注册表），
所有指标按 namespace 隔离。Collector 满足 workflow.Observer 接口，
由引擎在每次运行、每个节点和每个 superstep 结束时回调。

# 指标

  - workflow_runs_total{workflow,status}
  - workflow_run_duration_seconds{workflow}
  - workflow_node_executions_total{workflow,node,status}
  - workflow_node_duration_seconds{workflow,node}
  - workflow_superstep_width{workflow}
*/
package metrics
