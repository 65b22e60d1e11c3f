package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/OWNER/ringboot/internal/boot"
	"github.com/OWNER/ringboot/internal/ctxlog"
	"github.com/OWNER/ringboot/internal/halt"
	"github.com/OWNER/ringboot/internal/hcl"
	"github.com/OWNER/ringboot/internal/interdep"
	"github.com/OWNER/ringboot/internal/profile"
	"github.com/OWNER/ringboot/internal/sector"
	"github.com/OWNER/ringboot/internal/toml"
	"github.com/OWNER/ringboot/internal/topology"
	"github.com/OWNER/ringboot/internal/verdict"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle for one boot attempt.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	halter halt.Halter
	config *Config
}

// New is the constructor for the main application. The halter receives the
// final verdict code; production passes halt.NewOS, tests a halt.Recorder.
func New(outW io.Writer, cfg *Config, halter halt.Halter) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		halter: halter,
		config: cfg,
	}
}

// Run executes one full boot attempt: load profile, build the machine, run
// the four phases, emit the verdict, optionally write the boot image, and
// hand the verdict code to the halt sink.
func (a *App) Run(ctx context.Context) (boot.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, err := a.loadProfile(ctx)
	if err != nil {
		return boot.Result{}, fmt.Errorf("loading profile: %w", err)
	}
	if err := model.Validate(); err != nil {
		return boot.Result{}, err
	}

	fmt.Fprintf(a.outW, "=== RINGBOOT ===\n")
	fmt.Fprintf(a.outW, "profile %s: %d units, %d nodes\n", model.Name, model.Plan.Units, len(model.Nodes))

	machine, err := boot.NewMachine(func(ctx context.Context) (*interdep.Graph, error) {
		return topology.Build(ctx, model.Nodes)
	}, model.Plan, model.Policy)
	if err != nil {
		return boot.Result{}, err
	}
	if err := machine.Initialize(ctx); err != nil {
		return boot.Result{}, err
	}

	res, err := machine.Run(ctx)
	if err != nil {
		// Fatal resolution failure during Remember. The partial resolution
		// order stays in the result as the audit trail.
		fmt.Fprintf(a.outW, "[CRITICAL] boot rejected: %v\n", err)
		a.halter.Halt(res.Verdict.Code())
		return res, err
	}

	a.printSummary(res)

	if a.config.ImagePath != "" {
		if err := sector.WriteFile(a.config.ImagePath, res.Verdict); err != nil {
			return res, err
		}
		a.logger.Info("Boot image written.", "path", a.config.ImagePath)
	}

	a.halter.Halt(res.Verdict.Code())
	return res, nil
}

func (a *App) printSummary(res boot.Result) {
	switch res.Verdict {
	case verdict.Confirmed:
		fmt.Fprintf(a.outW, "=== BOOT SUCCESS ===\n")
	case verdict.Indeterminate:
		fmt.Fprintf(a.outW, "=== BOOT PARTIAL ===\n")
	default:
		fmt.Fprintf(a.outW, "=== BOOT FAILED ===\n")
	}
	fmt.Fprintf(a.outW, "verdict: %s (%d/%d units confirmed, %d nodes resolved)\n",
		res.Verdict, res.ConfirmedUnits, res.Population, res.ResolvedNodes)
}

// loadProfile picks the loader for the configured format, or falls back to
// the built-in reference profile when no path was given.
func (a *App) loadProfile(ctx context.Context) (*profile.Model, error) {
	if a.config.ProfilePath == "" {
		a.logger.Info("No profile given, using built-in reference profile.")
		return profile.Reference(), nil
	}

	var loader profile.Loader
	switch a.config.ProfileFormat {
	case FormatTOML:
		loader = toml.NewLoader()
	default:
		loader = hcl.NewLoader()
	}
	return loader.Load(ctx, a.config.ProfilePath)
}
