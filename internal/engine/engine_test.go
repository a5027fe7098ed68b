package engine

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/madaris/daftar/internal/artifact"
	"github.com/madaris/daftar/internal/clock"
	"github.com/madaris/daftar/internal/engine/catalog"
	"github.com/madaris/daftar/internal/fonts"
	"github.com/madaris/daftar/internal/printer"
	"github.com/madaris/daftar/internal/render"
	"github.com/madaris/daftar/internal/render/canvas"
	"github.com/madaris/daftar/internal/render/flow"
)

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(_ context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, path)
	return nil
}

type fakePrinter struct {
	printed []string
	err     error
}

func (f *fakePrinter) Print(_ context.Context, path, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.printed = append(f.printed, path)
	return nil
}

type recorded struct {
	kind    catalog.Kind
	mode    Mode
	outcome Outcome
}

type fakeRecorder struct {
	entries []recorded
}

func (f *fakeRecorder) Record(_ context.Context, kind catalog.Kind, mode Mode, _ render.Payload, o Outcome, _ time.Duration) {
	f.entries = append(f.entries, recorded{kind, mode, o})
}

type testRig struct {
	engine    *Engine
	opener    *fakeOpener
	printer   *fakePrinter
	recorder  *fakeRecorder
	artifacts *artifact.Registry
}

func newRig(t *testing.T, cfg Config) *testRig {
	t.Helper()
	log := zap.NewNop()
	art, err := artifact.NewRegistry(t.TempDir(), log)
	if err != nil {
		t.Fatal(err)
	}
	fixed := clock.Fixed{T: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)}
	reg := fonts.Load(t.TempDir(), log)
	rig := &testRig{
		opener:    &fakeOpener{},
		printer:   &fakePrinter{},
		recorder:  &fakeRecorder{},
		artifacts: art,
	}
	rig.engine = New(Params{
		Log:       log,
		Flow:      flow.NewRenderer(log, func() string { return "2025-01-15 10:30" }),
		Canvas:    canvas.NewRenderer(log, reg, fixed.Now),
		Artifacts: art,
		Opener:    rig.opener,
		Printer:   rig.printer,
		Recorder:  rig.recorder,
		Clock:     fixed,
		Config:    cfg,
	})
	return rig
}

func receiptPayload() render.Payload {
	return render.Payload{
		"student_name":       "أحمد محمد علي",
		"school_name":        "مدرسة النور",
		"amount":             250000,
		"payment_date":       "2025-01-15",
		"installment_number": 3,
		"receipt_number":     "R20250115001",
	}
}

func TestPreviewUnknownKind(t *testing.T) {
	rig := newRig(t, Config{})
	out := rig.engine.Preview(context.Background(), "weekly_digest", render.Payload{})
	if out.Status != StatusFailed {
		t.Fatalf("expected failed outcome, got %s", out.Status)
	}
	if out.Err == nil || out.Err.Kind != KindUnknownTemplate {
		t.Fatalf("expected KindUnknownTemplate, got %+v", out.Err)
	}
	if out.Message() == "" {
		t.Fatal("failed outcomes must carry a user message")
	}
	if len(rig.opener.opened) != 0 {
		t.Fatal("nothing may be opened for an unknown kind")
	}
}

func TestPreviewReceiptWrapsPayloadAndOpensViewer(t *testing.T) {
	rig := newRig(t, Config{})
	out := rig.engine.Preview(context.Background(), catalog.InstallmentReceipt, receiptPayload())
	if out.Status != StatusSuccess {
		t.Fatalf("preview failed: %+v", out.Err)
	}
	if len(rig.opener.opened) != 1 || rig.opener.opened[0] != out.ArtifactPath {
		t.Fatal("viewer must receive the rendered artifact")
	}
	if data, err := os.ReadFile(out.ArtifactPath); err != nil || len(data) == 0 {
		t.Fatal("expected a non-empty PDF artifact")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rig := newRig(t, Config{})
	wrapped := render.Payload{"receipt": map[string]any(receiptPayload())}
	out := rig.engine.Preview(context.Background(), catalog.InstallmentReceipt, wrapped)
	if out.Status != StatusSuccess {
		t.Fatalf("pre-wrapped payload must render: %+v", out.Err)
	}
}

func TestPreviewFlowWritesHTMLArtifact(t *testing.T) {
	rig := newRig(t, Config{})
	out := rig.engine.Preview(context.Background(), catalog.StudentsList, render.Payload{
		"students":         []any{},
		"selected_columns": []any{"id", "name"},
	})
	if out.Status != StatusSuccess {
		t.Fatalf("preview failed: %+v", out.Err)
	}
	data, err := os.ReadFile(out.ArtifactPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected html artifact content")
	}
}

func TestMalformedPayloadNamesKeyAndLeavesNoArtifact(t *testing.T) {
	rig := newRig(t, Config{})
	out := rig.engine.Preview(context.Background(), catalog.StudentsList, render.Payload{
		"selected_columns": []any{"name"},
	})
	if out.Status != StatusFailed || out.Err.Kind != KindMalformedPayload {
		t.Fatalf("expected malformed payload failure, got %+v", out)
	}
	if out.Err.Key != "students" {
		t.Fatalf("expected offending key students, got %q", out.Err.Key)
	}
	if out.ArtifactPath != "" {
		t.Fatal("failed outcomes must not expose an artifact")
	}
	if rig.artifacts.Live() != 0 {
		t.Fatal("no artifact may remain registered after a failure")
	}
}

func TestSilentPrintReleasesArtifact(t *testing.T) {
	rig := newRig(t, Config{SilentPrint: true, PrinterName: "office"})
	out := rig.engine.Print(context.Background(), catalog.InstallmentReceipt, receiptPayload())
	if out.Status != StatusSuccess {
		t.Fatalf("print failed: %+v", out.Err)
	}
	if len(rig.printer.printed) != 1 {
		t.Fatal("expected the PDF to reach the spooler")
	}
	if rig.artifacts.Live() != 0 {
		t.Fatal("spooled artifact must be released immediately")
	}
	if _, err := os.Stat(out.ArtifactPath); !os.IsNotExist(err) {
		t.Fatal("spooled artifact file must be deleted")
	}
}

func TestPrintCancelledOutcome(t *testing.T) {
	rig := newRig(t, Config{SilentPrint: true})
	rig.printer.err = printer.ErrCancelled
	out := rig.engine.Print(context.Background(), catalog.InstallmentReceipt, receiptPayload())
	if out.Status != StatusCancelled {
		t.Fatalf("expected cancelled outcome, got %s", out.Status)
	}
	if rig.artifacts.Live() != 0 {
		t.Fatal("cancelled print must still clean its artifact")
	}
}

func TestPrintFallsBackToViewerWhenSpoolerMissing(t *testing.T) {
	rig := newRig(t, Config{SilentPrint: true})
	rig.printer.err = printer.ErrUnavailable
	out := rig.engine.Print(context.Background(), catalog.InstallmentReceipt, receiptPayload())
	if out.Status != StatusSuccess {
		t.Fatalf("expected viewer fallback success, got %+v", out)
	}
	if len(rig.opener.opened) != 1 {
		t.Fatal("viewer fallback must open the artifact")
	}
}

func TestFlowPrintUsesViewer(t *testing.T) {
	rig := newRig(t, Config{SilentPrint: true})
	out := rig.engine.Print(context.Background(), catalog.TeachersList, render.Payload{
		"staff": []any{map[string]any{"name": "ست منى"}},
	})
	if out.Status != StatusSuccess {
		t.Fatalf("flow print failed: %+v", out.Err)
	}
	if len(rig.printer.printed) != 0 {
		t.Fatal("flow documents never reach the PDF spooler")
	}
	if len(rig.opener.opened) != 1 {
		t.Fatal("flow print must open the viewer for its print dialog")
	}
}

func TestDispatchRecordsOutcome(t *testing.T) {
	rig := newRig(t, Config{})
	rig.engine.Preview(context.Background(), catalog.InstallmentReceipt, receiptPayload())
	rig.engine.Preview(context.Background(), "nope", render.Payload{})
	if len(rig.recorder.entries) != 2 {
		t.Fatalf("expected 2 recorded jobs, got %d", len(rig.recorder.entries))
	}
	if rig.recorder.entries[0].outcome.Status != StatusSuccess ||
		rig.recorder.entries[1].outcome.Status != StatusFailed {
		t.Fatalf("recorded outcomes wrong: %+v", rig.recorder.entries)
	}
}

func TestViewerFailureNeverPanics(t *testing.T) {
	rig := newRig(t, Config{})
	rig.opener.err = os.ErrPermission
	out := rig.engine.Preview(context.Background(), catalog.InstallmentReceipt, receiptPayload())
	if out.Status != StatusFailed || out.Err.Kind != KindPrintFailed {
		t.Fatalf("expected print failure outcome, got %+v", out)
	}
}

func TestRendererPanicBecomesFailedOutcome(t *testing.T) {
	rig := newRig(t, Config{})
	rig.engine.canvas = nil // nil renderer panics inside dispatch
	out := rig.engine.Preview(context.Background(), catalog.InstallmentReceipt, receiptPayload())
	if out.Status != StatusFailed || out.Err == nil || out.Err.Kind != KindInternal {
		t.Fatalf("panic must surface as an internal failure, got %+v", out)
	}
}

func TestTempDirDoesNotGrowAcrossPrintCycles(t *testing.T) {
	rig := newRig(t, Config{SilentPrint: true})
	for i := 0; i < 10; i++ {
		out := rig.engine.Print(context.Background(), catalog.InstallmentReceipt, receiptPayload())
		if out.Status != StatusSuccess {
			t.Fatalf("cycle %d failed: %+v", i, out.Err)
		}
	}
	entries, err := os.ReadDir(rig.artifacts.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp dir grew to %d entries after print cycles", len(entries))
	}
}

func TestDispatchLogsStateTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	art, err := artifact.NewRegistry(t.TempDir(), log)
	if err != nil {
		t.Fatal(err)
	}
	fixed := clock.Fixed{T: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)}
	eng := New(Params{
		Log:       log,
		Flow:      flow.NewRenderer(log, func() string { return "2025-01-15 10:30" }),
		Canvas:    canvas.NewRenderer(log, fonts.Load(t.TempDir(), log), fixed.Now),
		Artifacts: art,
		Opener:    &fakeOpener{},
		Printer:   &fakePrinter{},
		Clock:     fixed,
	})

	out := eng.Preview(context.Background(), catalog.InstallmentReceipt, receiptPayload())
	if out.Status != StatusSuccess {
		t.Fatalf("preview failed: %+v", out.Err)
	}

	var got []string
	for _, entry := range logs.FilterMessage("state transition").All() {
		got = append(got, entry.ContextMap()["state"].(string))
	}
	want := []string{"resolved", "rendered", "dispatched", "done", "cleaned"}
	if len(got) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transition %d = %s, want %s", i, got[i], want[i])
		}
	}
}
