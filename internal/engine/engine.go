// Package engine is the public face of the print subsystem: two operations,
// Preview and Print, over the record bundles enumerated in the render
// package. The engine selects a back-end from the catalog, renders, hands the
// artifact to the host, and guarantees the caller never sees a raw panic.
package engine

import (
	"context"
	"errors"
	"os"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/madaris/daftar/internal/artifact"
	"github.com/madaris/daftar/internal/clock"
	"github.com/madaris/daftar/internal/engine/catalog"
	"github.com/madaris/daftar/internal/printer"
	"github.com/madaris/daftar/internal/render"
	"github.com/madaris/daftar/internal/render/canvas"
	"github.com/madaris/daftar/internal/render/flow"
)

// Mode distinguishes the two dispatcher operations in job records.
type Mode string

const (
	ModePreview Mode = "preview"
	ModePrint   Mode = "print"
)

// Recorder persists request outcomes for the audit trail. Recording is
// best-effort; failures are logged and never affect the outcome. The payload
// is handed over for snapshotting; implementations must mask contact fields.
type Recorder interface {
	Record(ctx context.Context, kind catalog.Kind, mode Mode, payload render.Payload, outcome Outcome, took time.Duration)
}

// Config carries the print-path switches.
type Config struct {
	PrinterName string
	SilentPrint bool
}

// Engine coordinates the catalog, renderers, artifact registry and host
// hand-off. Construct once at startup; all fields are read-only afterwards.
type Engine struct {
	log       *zap.Logger
	flow      *flow.Renderer
	canvas    *canvas.Renderer
	artifacts *artifact.Registry
	opener    printer.Opener
	printer   printer.Printer
	recorder  Recorder
	clock     clock.Clock
	cfg       Config
}

// Params collects the engine's collaborators.
type Params struct {
	Log       *zap.Logger
	Flow      *flow.Renderer
	Canvas    *canvas.Renderer
	Artifacts *artifact.Registry
	Opener    printer.Opener
	Printer   printer.Printer
	Recorder  Recorder
	Clock     clock.Clock
	Config    Config
}

func New(p Params) *Engine {
	return &Engine{
		log:       p.Log.Named("engine.dispatch"),
		flow:      p.Flow,
		canvas:    p.Canvas,
		artifacts: p.Artifacts,
		opener:    p.Opener,
		printer:   p.Printer,
		recorder:  p.Recorder,
		clock:     p.Clock,
		cfg:       p.Config,
	}
}

// Preview renders the kind and opens the artifact in a viewer.
func (e *Engine) Preview(ctx context.Context, kind catalog.Kind, payload render.Payload) Outcome {
	return e.dispatch(ctx, kind, payload, ModePreview)
}

// Print renders the kind and hands the artifact to the print path. Flow
// documents open in the viewer for its print dialog; canvas PDFs go to the
// silent spooler when configured, falling back to the viewer.
func (e *Engine) Print(ctx context.Context, kind catalog.Kind, payload render.Payload) Outcome {
	return e.dispatch(ctx, kind, payload, ModePrint)
}

func (e *Engine) dispatch(ctx context.Context, kind catalog.Kind, payload render.Payload, mode Mode) (out Outcome) {
	started := e.clock.Now()
	log := e.log.With(zap.String("kind", string(kind)), zap.String("mode", string(mode)))
	state := stateInitial
	advance := func(next requestState) {
		state = next
		log.Debug("state transition", zap.String("state", string(next)))
	}

	// Safety firewall: a panic anywhere below becomes a failed outcome.
	defer func() {
		if r := recover(); r != nil {
			log.Error("renderer panic recovered",
				zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			out = failed(&Error{Kind: KindInternal, Detail: "panic"})
		}
		log.Info("request done",
			zap.String("state", string(state)),
			zap.String("status", string(out.Status)),
			zap.Duration("took", e.clock.Now().Sub(started)))
		if e.recorder != nil {
			e.recorder.Record(ctx, kind, mode, payload, out, e.clock.Now().Sub(started))
		}
	}()

	entry, err := catalog.Lookup(kind)
	if err != nil {
		log.Warn("unknown template kind requested")
		return failed(classify(err))
	}
	advance(stateResolved)

	payload = normalize(entry, payload)

	var path string
	switch entry.Backend {
	case catalog.BackendCanvas:
		path = e.artifacts.NewPath("pdf")
		if err := e.canvas.RenderReceipt(entry.RendererID, payload, path); err != nil {
			e.artifacts.Release(path)
			log.Warn("canvas render failed", zap.Error(err))
			return failed(classify(err))
		}
	case catalog.BackendFlow:
		html, err := e.flow.Render(kind, entry.RendererID, payload)
		if err != nil {
			log.Warn("flow render failed", zap.Error(err))
			return failed(classify(err))
		}
		path = e.artifacts.NewPath("html")
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			e.artifacts.Release(path)
			return failed(&Error{Kind: KindRenderIO, Detail: err.Error()})
		}
	}
	advance(stateRendered)

	advance(stateDispatched)
	var release bool
	out, release = e.deliver(ctx, entry, path, mode, log)
	advance(stateDone)

	// Cleanup runs regardless of outcome. Spooled or failed artifacts go
	// now; anything handed to an async viewer waits for the exit purge.
	if release || out.Status == StatusFailed {
		e.artifacts.Release(path)
		if out.Status == StatusFailed {
			out.ArtifactPath = ""
		}
	}
	advance(stateCleaned)
	return out
}

// deliver hands a rendered artifact to the viewer or printer. The second
// return value reports whether the artifact can be deleted immediately.
func (e *Engine) deliver(ctx context.Context, entry catalog.Entry, path string, mode Mode, log *zap.Logger) (Outcome, bool) {
	if mode == ModePreview {
		if err := e.opener.Open(ctx, path); err != nil {
			log.Warn("viewer open failed", zap.Error(err))
			return failed(&Error{Kind: KindPrintFailed, Detail: err.Error()}), false
		}
		return success(path), false
	}

	if entry.Backend == catalog.BackendCanvas && e.cfg.SilentPrint {
		err := e.printer.Print(ctx, path, e.cfg.PrinterName)
		switch {
		case err == nil:
			return success(path), true
		case errors.Is(err, printer.ErrCancelled):
			return cancelled(path), true
		case errors.Is(err, printer.ErrUnavailable):
			log.Warn("silent print unavailable, opening viewer instead")
		default:
			log.Warn("silent print failed, opening viewer instead", zap.Error(err))
		}
	}

	// Visible path: the viewer hosts the print dialog.
	if err := e.opener.Open(ctx, path); err != nil {
		log.Warn("viewer open failed", zap.Error(err))
		return failed(&Error{Kind: KindPrintFailed, Detail: err.Error()}), false
	}
	return success(path), false
}

// normalize wraps raw receipt payloads under the "receipt" key renderers
// expect. Idempotent: an existing wrapper is left alone.
func normalize(entry catalog.Entry, payload render.Payload) render.Payload {
	if entry.Backend != catalog.BackendCanvas {
		return payload
	}
	if _, ok := payload["receipt"]; ok {
		return payload
	}
	return render.Payload{"receipt": map[string]any(payload)}
}
