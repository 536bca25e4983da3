// The run subcommand: wires config, interceptors, framework adapter, seam,
// and runner together for one execution.
//
// FLOW: discovery (register interceptors, seal registry) -> build framework
// adapter -> install seam -> run user code -> write result file.
// Exit codes: 0 normal completion (plugin termination included), 1 failure
// from user code or the real function, 2 resolution/argument/config errors.
package main

import (
	"errors"
	"flag"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/seamlab/scriptseam/internal/config"
	"github.com/seamlab/scriptseam/internal/framework"
	"github.com/seamlab/scriptseam/internal/intercept"
	"github.com/seamlab/scriptseam/internal/interceptors"
	"github.com/seamlab/scriptseam/internal/monitoring"
	"github.com/seamlab/scriptseam/internal/runner"
)

func runCommand(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	entryPoint := fs.String("entry-point", "", "entry point: './code.lua' or './code:main'")
	entryArgs := fs.String("entry-point-args", "", "JSON value mapped onto the callable's arguments")
	interceptorArgsRaw := fs.String("interceptor-args", "", "JSON object passed through to interceptors")
	frameworkName := fs.String("framework", "", "framework adapter to bind")
	plugins := fs.String("plugins", "", "comma-separated interceptor list")
	configPath := fs.String("config", "", "YAML config file")
	resultFile := fs.String("result-file", "", "write a JSON-serializable result here")
	noIntercept := fs.Bool("no-intercept", false, "bind the framework without interception")
	dryRun := fs.Bool("dry-run", false, "terminate every call before the real function runs")
	quiet := fs.Bool("quiet", false, "suppress the runner's own output, keeping user code output")
	monitorAddr := fs.String("monitor-addr", "", "serve a live WebSocket stream of calls")
	telemetryPath := fs.String("telemetry-path", "", "append one JSONL record per call")
	_ = fs.Parse(args)

	// Configuration: defaults, then file, then flags.
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger := monitoring.Global(monitoring.LoggerConfig{Level: "info", Format: "auto", Output: "stderr"})
			logger.Error().Err(err).Msg("failed to load config")
			return 2
		}
		cfg = loaded
	}
	if *frameworkName != "" {
		cfg.Run.Framework = *frameworkName
	}
	if *plugins != "" {
		cfg.Run.Plugins = strings.Split(*plugins, ",")
	}
	if *resultFile != "" {
		cfg.Run.ResultFile = *resultFile
	}
	if *telemetryPath != "" {
		cfg.Monitoring.TelemetryPath = *telemetryPath
	}
	if *monitorAddr != "" {
		cfg.Monitoring.MonitorAddr = *monitorAddr
	}
	if *quiet {
		cfg.Monitoring.LogLevel = "error"
	}

	logger := monitoring.Global(monitoring.LoggerConfig{
		Level:  cfg.Monitoring.LogLevel,
		Format: cfg.Monitoring.LogFormat,
		Output: cfg.Monitoring.LogOutput,
	})

	if *entryPoint == "" {
		logger.Error().Msg("--entry-point is required")
		return 2
	}

	var interceptorArgs map[string]any
	if *interceptorArgsRaw != "" {
		if !gjson.Valid(*interceptorArgsRaw) {
			logger.Error().Msg("--interceptor-args is not valid JSON")
			return 2
		}
		m, ok := gjson.Parse(*interceptorArgsRaw).Value().(map[string]any)
		if !ok {
			logger.Error().Msg("--interceptor-args must be a JSON object")
			return 2
		}
		interceptorArgs = m
	}

	callArgs, err := runner.MarshalArguments(*entryArgs)
	if err != nil {
		logger.Error().Err(err).Msg("invalid entry point arguments")
		return 2
	}
	spec, err := runner.ParseEntryPoint(*entryPoint)
	if err != nil {
		logger.Error().Err(err).Msg("invalid entry point")
		return 2
	}

	runID := uuid.NewString()
	collector := intercept.NewCollector()

	if cfg.Monitoring.TelemetryPath != "" {
		tracker, err := monitoring.NewTracker(cfg.Monitoring.TelemetryPath, runID, logger)
		if err != nil {
			logger.Error().Err(err).Msg("failed to open telemetry file")
			return 2
		}
		collector.Subscribe(tracker.Record)
	}
	if cfg.Monitoring.MonitorAddr != "" {
		monitor, err := monitoring.NewMonitor(cfg.Monitoring.MonitorAddr, logger)
		if err != nil {
			logger.Error().Err(err).Msg("failed to bind monitor stream")
			return 2
		}
		monitor.Start()
		defer monitor.Close()
		collector.Subscribe(monitor.Broadcast)
	}

	// Discovery step: register interceptors, then seal before any call.
	registry := intercept.NewRegistry()
	if !*noIntercept {
		pluginNames := cfg.Run.Plugins
		if *dryRun {
			pluginNames = append([]string{"dry_run"}, pluginNames...)
		}
		if err := interceptors.Setup(registry, pluginNames, logger); err != nil {
			logger.Error().Err(err).Msg("interceptor discovery failed")
			return 2
		}
	}
	registry.Seal()

	adapter, err := framework.NewRegistry().New(cfg.Run.Framework, cfg.Frameworks, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build framework adapter")
		return 2
	}
	defer adapter.Close()

	var seam *intercept.Seam
	if *noIntercept {
		logger.Info().Str("framework", adapter.Name()).Msg("running without interception")
	} else {
		exec := intercept.NewExecutor(registry, collector, adapter.Name(), interceptorArgs, logger)
		seam = intercept.NewSeam(exec, logger)
		logger.Info().Str("framework", adapter.Name()).Int("interceptors", registry.Len()).Msg("interception active")
	}

	value, runErr := runner.New(adapter, seam, logger).Run(spec, callArgs)

	if runErr != nil {
		var resErr *runner.ResolutionError
		if errors.As(runErr, &resErr) {
			logger.Error().Err(resErr).Msg("entry point resolution failed")
			return 2
		}
		logger.Error().Err(runErr).Uint64("calls", uint64(collector.Len())).Msg("run failed")
		return 1
	}

	if cfg.Run.ResultFile != "" {
		written, err := runner.WriteResult(cfg.Run.ResultFile, runID, value, collector.Len())
		if err != nil {
			logger.Error().Err(err).Msg("failed to write result file")
			return 1
		}
		if written {
			logger.Info().Str("path", cfg.Run.ResultFile).Msg("result written")
		}
	}

	logger.Info().Str("run_id", runID).Int("calls", collector.Len()).Msg("run complete")
	return 0
}
