// Command pendulum draws the two-pendulum curve and hot-reloads its shaders from disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/Carmen-Shannon/pendulum/common"
	"github.com/Carmen-Shannon/pendulum/config"
	"github.com/Carmen-Shannon/pendulum/engine"
	"github.com/Carmen-Shannon/pendulum/engine/panel"
	"github.com/Carmen-Shannon/pendulum/engine/parameter"
	"github.com/Carmen-Shannon/pendulum/engine/profiler"
	"github.com/Carmen-Shannon/pendulum/engine/reload"
	"github.com/Carmen-Shannon/pendulum/engine/renderer"
	"github.com/Carmen-Shannon/pendulum/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pendulum/engine/uniform"
	"github.com/Carmen-Shannon/pendulum/engine/window"
	"github.com/Carmen-Shannon/pendulum/shaders"
)

// GLFW and the GL context must stay on the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		slog.Error("pendulum failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML config file")
	backend := flag.String("backend", "", "render backend: wgpu or gl")
	shaderDir := flag.String("shaders", "", "directory to hot-reload shaders from")
	usePanel := flag.Bool("panel", false, "show the terminal control panel")
	profile := flag.Bool("profile", false, "log frame statistics every second")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	logFile := flag.String("log-file", "", "append logs to this file instead of stderr")
	writeConfig := flag.String("write-config", "", "write the merged config to this file and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg.Render.Backend = common.Coalesce(*backend, cfg.Render.Backend)
	cfg.Shaders.Dir = common.Coalesce(*shaderDir, cfg.Shaders.Dir)
	cfg.Log.Level = common.Coalesce(*logLevel, cfg.Log.Level)
	cfg.Log.File = common.Coalesce(*logFile, cfg.Log.File)
	cfg.Panel.Enabled = cfg.Panel.Enabled || *usePanel
	cfg.Profile.Enabled = cfg.Profile.Enabled || *profile
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if *writeConfig != "" {
		return cfg.Save(*writeConfig)
	}

	level, _ := cfg.LogLevel()
	out := os.Stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backendType, err := renderer.ParseBackendType(cfg.Render.Backend)
	if err != nil {
		return err
	}
	clientAPI := window.ClientAPINone
	if backendType == renderer.BackendTypeGL {
		clientAPI = window.ClientAPIOpenGL
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithMinWidth(cfg.Window.MinWidth),
		window.WithMinHeight(cfg.Window.MinHeight),
		window.WithMaxWidth(cfg.Window.MaxWidth),
		window.WithMaxHeight(cfg.Window.MaxHeight),
		window.WithClientAPI(clientAPI),
		window.WithLazy(cfg.Window.Lazy),
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer func() {
		if err := win.Close(); err != nil {
			logger.Warn("window close failed", "err", err)
		}
	}()

	schema := parameter.DefaultSchema()
	presentMode := renderer.PresentModeVSync
	if !cfg.Window.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(backendType, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Render.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Render.ForceSoftware),
		renderer.WithClearColor(cfg.ClearColor()),
		renderer.WithBlending(cfg.Render.Blend),
		renderer.WithWireframe(cfg.Render.Wireframe),
		renderer.WithUniformLayout("Params", schema.Names()),
		renderer.WithShaderValidation(cfg.Shaders.Validate),
		renderer.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Release()

	registry, err := parameter.NewRegistry(schema, parameter.WithAnimated(cfg.Animate...))
	if err != nil {
		return err
	}
	if err := r.InitUniformBuffer(uniform.BufferSize(registry.Len())); err != nil {
		return err
	}

	sources, embedded := shaders.Open(cfg.Shaders.Dir, backendType.Language())
	if embedded {
		logger.Warn("shader directory not usable, reloading embedded sources", "dir", cfg.Shaders.Dir)
	}
	vertexPath, fragmentPath := shaders.Paths(backendType.Language())
	scheduler := reload.NewScheduler[pipeline.Pipeline](r, sources, vertexPath, fragmentPath,
		reload.WithInterval(cfg.Shaders.ReloadInterval),
		reload.WithLogger(logger),
	)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Release()

	options := []engine.EngineBuilderOption{engine.WithLogger(logger)}
	if cfg.Profile.Enabled {
		options = append(options, engine.WithProfiler(profiler.NewProfiler(profiler.WithLogger(logger))))
	}
	if cfg.Panel.Enabled {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		p := panel.NewPanel(screen, panel.WithTitle(cfg.Window.Title), panel.WithWake(win.Wake), panel.WithLogger(logger))
		if err := p.Start(ctx); err != nil {
			return err
		}
		defer p.Close()
		options = append(options, engine.WithPanel(p))
	}

	eng, err := engine.NewEngine(win, r, registry, scheduler, options...)
	if err != nil {
		return err
	}
	return eng.Run(ctx)
}
