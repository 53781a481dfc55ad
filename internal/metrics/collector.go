// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 工作流指标收集器
//
// Collector 的方法集与 workflow.Observer 一致，可直接传给 workflow.WithObserver。
type Collector struct {
	// 运行指标
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec

	// 节点指标
	nodeExecutionsTotal *prometheus.CounterVec
	nodeDuration        *prometheus.HistogramVec

	// superstep 指标
	superstepWidth *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器并注册到 reg；reg 为 nil 时使用默认注册表
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.runsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_runs_total",
			Help:      "Total number of workflow runs",
		},
		[]string{"workflow", "status"},
	)

	c.runDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_run_duration_seconds",
			Help:      "Workflow run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"workflow"},
	)

	c.nodeExecutionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_node_executions_total",
			Help:      "Total number of workflow node executions",
		},
		[]string{"workflow", "node", "status"},
	)

	c.nodeDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_node_duration_seconds",
			Help:      "Workflow node execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"workflow", "node"},
	)

	c.superstepWidth = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_superstep_width",
			Help:      "Number of nodes executed in one superstep",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		},
		[]string{"workflow"},
	)

	c.logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🔁 工作流指标记录
// =============================================================================

// ObserveRun 记录一次工作流运行
func (c *Collector) ObserveRun(workflow, status string, duration time.Duration) {
	c.runsTotal.WithLabelValues(workflow, status).Inc()
	c.runDuration.WithLabelValues(workflow).Observe(duration.Seconds())
}

// ObserveNode 记录一次节点执行
func (c *Collector) ObserveNode(workflow, node, status string, duration time.Duration) {
	c.nodeExecutionsTotal.WithLabelValues(workflow, node, status).Inc()
	c.nodeDuration.WithLabelValues(workflow, node).Observe(duration.Seconds())
}

// ObserveSuperstep 记录 superstep 的并行宽度
func (c *Collector) ObserveSuperstep(workflow string, width int) {
	c.superstepWidth.WithLabelValues(workflow).Observe(float64(width))
}
