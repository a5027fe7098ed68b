package engine

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/madaris/daftar/internal/artifact"
	"github.com/madaris/daftar/internal/clock"
	"github.com/madaris/daftar/internal/config"
	"github.com/madaris/daftar/internal/fonts"
	"github.com/madaris/daftar/internal/format"
	"github.com/madaris/daftar/internal/printer"
	"github.com/madaris/daftar/internal/render/canvas"
	"github.com/madaris/daftar/internal/render/flow"
)

// Module wires the whole print engine: fonts, renderers, artifact registry,
// host hand-off and the dispatcher itself.
var Module = fx.Module("engine",
	fx.Provide(
		provideFonts,
		provideArtifacts,
		provideFlow,
		provideCanvas,
		provideOpener,
		providePrinter,
		provideEngine,
	),
	fx.Invoke(registerPurge),
)

func provideFonts(cfg config.Config, log *zap.Logger) *fonts.Registry {
	return fonts.Load(cfg.Fonts.Dir, log)
}

func provideArtifacts(cfg config.Config, log *zap.Logger) (*artifact.Registry, error) {
	return artifact.NewRegistry(cfg.Artifacts.Dir, log)
}

func provideFlow(log *zap.Logger, c clock.Clock) *flow.Renderer {
	return flow.NewRenderer(log, func() string { return format.Timestamp(c.Now()) })
}

func provideCanvas(log *zap.Logger, reg *fonts.Registry, c clock.Clock) *canvas.Renderer {
	return canvas.NewRenderer(log, reg, c.Now)
}

func provideOpener(cfg config.Config, log *zap.Logger) printer.Opener {
	return printer.ExecOpener{Command: cfg.Preview.OpenerCommand, Log: log.Named("printer.open")}
}

func providePrinter(log *zap.Logger) printer.Printer {
	return printer.LPPrinter{Log: log.Named("printer.lp")}
}

func provideEngine(
	log *zap.Logger,
	fl *flow.Renderer,
	cv *canvas.Renderer,
	art *artifact.Registry,
	op printer.Opener,
	pr printer.Printer,
	rec Recorder,
	c clock.Clock,
	cfg config.Config,
) *Engine {
	return New(Params{
		Log:       log,
		Flow:      fl,
		Canvas:    cv,
		Artifacts: art,
		Opener:    op,
		Printer:   pr,
		Recorder:  rec,
		Clock:     c,
		Config: Config{
			PrinterName: cfg.Print.Printer,
			SilentPrint: cfg.Print.Silent,
		},
	})
}

// registerPurge deletes every still-registered artifact on shutdown.
func registerPurge(lc fx.Lifecycle, art *artifact.Registry) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			art.PurgeAll()
			return nil
		},
	})
}
