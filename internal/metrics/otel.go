package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// =============================================================================
// 📡 OpenTelemetry 指标记录
// =============================================================================

const meterName = "github.com/tallen12/Resume-RAG/internal/metrics"

// OTelRecorder 通过 OpenTelemetry Meter 记录与 Collector 相同的工作流指标，
// 由 telemetry 的 OTLP 导出器推送
type OTelRecorder struct {
	runs           metric.Int64Counter
	runDuration    metric.Float64Histogram
	nodes          metric.Int64Counter
	nodeDuration   metric.Float64Histogram
	superstepWidth metric.Int64Histogram
}

// NewOTelRecorder 在 mp 上创建仪表
func NewOTelRecorder(mp metric.MeterProvider) (*OTelRecorder, error) {
	meter := mp.Meter(meterName)
	r := &OTelRecorder{}
	var err error

	if r.runs, err = meter.Int64Counter("workflow.runs",
		metric.WithDescription("Workflow runs")); err != nil {
		return nil, fmt.Errorf("create workflow.runs: %w", err)
	}
	if r.runDuration, err = meter.Float64Histogram("workflow.run.duration",
		metric.WithDescription("Workflow run duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("create workflow.run.duration: %w", err)
	}
	if r.nodes, err = meter.Int64Counter("workflow.node.executions",
		metric.WithDescription("Workflow node executions")); err != nil {
		return nil, fmt.Errorf("create workflow.node.executions: %w", err)
	}
	if r.nodeDuration, err = meter.Float64Histogram("workflow.node.duration",
		metric.WithDescription("Workflow node duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("create workflow.node.duration: %w", err)
	}
	if r.superstepWidth, err = meter.Int64Histogram("workflow.superstep.width",
		metric.WithDescription("Nodes executed in one superstep")); err != nil {
		return nil, fmt.Errorf("create workflow.superstep.width: %w", err)
	}
	return r, nil
}

// ObserveRun 记录一次工作流运行
func (r *OTelRecorder) ObserveRun(workflow, status string, duration time.Duration) {
	ctx := context.Background()
	r.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workflow", workflow),
		attribute.String("status", status),
	))
	r.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("workflow", workflow)))
}

// ObserveNode 记录一次节点执行
func (r *OTelRecorder) ObserveNode(workflow, node, status string, duration time.Duration) {
	ctx := context.Background()
	r.nodes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workflow", workflow),
		attribute.String("node", node),
		attribute.String("status", status),
	))
	r.nodeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("workflow", workflow),
		attribute.String("node", node),
	))
}

// ObserveSuperstep 记录 superstep 的并行宽度
func (r *OTelRecorder) ObserveSuperstep(workflow string, width int) {
	r.superstepWidth.Record(context.Background(), int64(width), metric.WithAttributes(attribute.String("workflow", workflow)))
}
