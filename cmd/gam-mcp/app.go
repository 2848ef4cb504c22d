package main

import (
	"fmt"

	"github.com/limehawk/gam-multi/pkg/audit"
	"github.com/limehawk/gam-multi/pkg/config"
	"github.com/limehawk/gam-multi/pkg/gam"
	"github.com/limehawk/gam-multi/pkg/logger"
	"github.com/limehawk/gam-multi/pkg/tools"
)

// app holds the long-lived pieces shared by serve and call.
type app struct {
	cfg      *config.Config
	executor *gam.ProcessExecutor
	registry *tools.ToolRegistry
	sink     *audit.JSONLSink
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	execOpts := gam.ExecutorOptions{
		Binary:           cfg.GAM.Binary,
		BinaryCandidates: cfg.GAM.BinaryCandidates,
		DefaultTimeout:   cfg.Exec.Timeout,
		MaxOutputBytes:   cfg.Exec.MaxOutputBytes,
	}
	if cfg.Audit.Enabled {
		sink, err := audit.NewJSONLSink(cfg.Audit.Path)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		a.sink = sink
		execOpts.Recorder = sink
		logger.InfoCF("audit", "Audit log enabled", map[string]interface{}{"path": sink.Path()})
	}

	a.executor = gam.NewProcessExecutor(execOpts)
	a.registry = tools.NewToolRegistry()
	tools.RegisterGAMTools(a.registry, tools.NewEngine(a.executor, nil))
	return a, nil
}

// Close flushes the audit log.
func (a *app) Close() {
	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			logger.WarnCF("audit", "Failed to close audit log", map[string]interface{}{"error": err.Error()})
		}
	}
	logger.Sync()
}
