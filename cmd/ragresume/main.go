// =============================================================================
// Resume-RAG 主入口
// =============================================================================
// 使用方法:
//
//	ragresume graph                       # 输出工作流拓扑 (Mermaid)
//	ragresume graph --config config.yaml  # 指定配置文件
//	ragresume config --config config.yaml # 输出生效配置
//	ragresume version                     # 显示版本信息
// =============================================================================
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tallen12/Resume-RAG/config"
	"github.com/tallen12/Resume-RAG/internal/logging"
	"github.com/tallen12/Resume-RAG/internal/metrics"
	"github.com/tallen12/Resume-RAG/internal/telemetry"
	"github.com/tallen12/Resume-RAG/llm"
	"github.com/tallen12/Resume-RAG/llm/embedding"
	"github.com/tallen12/Resume-RAG/pipelines/resumebuilder"
	"github.com/tallen12/Resume-RAG/rag"
	"github.com/tallen12/Resume-RAG/types"
	"github.com/tallen12/Resume-RAG/workflow"
)

// Returned by the placeholder models used when only the topology is needed.
var (
	errNoChatModel      = errors.New("no chat model configured")
	errNoEmbeddingModel = errors.New("no embedding model configured")
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "graph":
		err = runGraph(os.Args[2:], os.Stdout)
	case "config":
		err = runConfig(os.Args[2:], os.Stdout)
	case "version":
		fmt.Printf("ragresume %s\n", telemetry.BuildVersion())
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `ragresume - resume bullet point workflow

Usage:
  ragresume <command> [options]

Commands:
  graph     Print the resume_builder workflow as a Mermaid flowchart
  config    Print the effective configuration as YAML
  version   Show version information
  help      Show this help message

Options for 'graph' and 'config':
  --config <path>   Path to configuration file (YAML)`)
}

// =============================================================================
// 🔧 子命令
// =============================================================================

func loadConfig(name string, args []string) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func runConfig(args []string, out io.Writer) error {
	cfg, err := loadConfig("config", args)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func runGraph(args []string, out io.Writer) error {
	cfg, err := loadConfig("graph", args)
	if err != nil {
		return err
	}

	// stdout carries the diagram
	logCfg := cfg.Log
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	providers, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	engine, err := buildEngine(cfg, logger, providers)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, engine.Mermaid())
	return err
}

// buildEngine compiles the resume_builder workflow with the ambient stack
// described by cfg. The chat and embedding models are placeholders.
func buildEngine(cfg *config.Config, logger *zap.Logger, providers *telemetry.Providers) (*workflow.Engine[resumebuilder.Step, resumebuilder.State, resumebuilder.Update], error) {
	chat := llm.Chain(
		llm.ChatModelFunc(func(context.Context, []types.Message, ...llm.ChatOption) (types.Message, error) {
			return types.Message{}, errNoChatModel
		}),
		llm.LoggingMiddleware(logger),
		llm.ValidationMiddleware(),
	)
	embedder := embedding.ModelFunc(func(context.Context, []string) ([][]float64, error) {
		return nil, errNoEmbeddingModel
	})
	store := rag.NewMemoryStore[resumebuilder.Metadata](embedder, nil, logger)
	pipeline := resumebuilder.New(chat, store, resumebuilder.WithLogger(logger))

	opts := append(workflow.FromConfig(cfg.Engine),
		workflow.WithLogger(logger),
		workflow.WithTracerProvider(providers.TracerProvider()),
	)
	var observers []workflow.Observer
	if cfg.Metrics.Enabled {
		observers = append(observers, metrics.NewCollector(cfg.Metrics.Namespace, nil, logger))
	}
	if cfg.Telemetry.Enabled {
		rec, err := metrics.NewOTelRecorder(providers.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("init otel metrics: %w", err)
		}
		observers = append(observers, rec)
	}
	opts = append(opts, workflow.WithObserver(workflow.MultiObserver(observers...)))

	engine, err := resumebuilder.NewEngine(pipeline, opts...)
	if err != nil {
		return nil, fmt.Errorf("compile workflow: %w", err)
	}
	return engine, nil
}
