// Package telemetry sets up the OpenTelemetry SDK. Traces and metrics are
// exported over OTLP gRPC, and the resulting TracerProvider is handed to
// workflow.WithTracerProvider.
//
// Disabled telemetry creates no exporter and leaves the global providers alone.
package telemetry
