// Package printer hands artifacts to the host platform: opening a viewer for
// previews and spooling PDFs for printing. The engine treats both as opaque
// operations that may be cancelled but must never panic.
package printer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// ErrCancelled marks a user-cancelled print (dialog rejected, job aborted).
var ErrCancelled = errors.New("print cancelled")

// ErrUnavailable marks a missing print subsystem; callers fall back to the
// visible viewer path.
var ErrUnavailable = errors.New("print subsystem unavailable")

// Opener shows an artifact to the user.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// Printer spools an artifact to a printer, silently when possible.
type Printer interface {
	Print(ctx context.Context, path, printerName string) error
}

// ExecOpener launches the platform's default viewer, or a configured command.
type ExecOpener struct {
	Command string
	Log     *zap.Logger
}

func (o ExecOpener) Open(ctx context.Context, path string) error {
	name, args := o.launcher(path)
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open viewer: %w", err)
	}
	// The viewer owns the window from here; we never wait on it.
	go func() {
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			o.Log.Debug("viewer exited with error", zap.Error(err))
		}
	}()
	return nil
}

func (o ExecOpener) launcher(path string) (string, []string) {
	if o.Command != "" {
		return o.Command, []string{path}
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

// LPPrinter spools PDFs through the CUPS lp command, the silent-print path on
// Linux and macOS hosts.
type LPPrinter struct {
	Log *zap.Logger
}

func (p LPPrinter) Print(ctx context.Context, path, printerName string) error {
	if _, err := exec.LookPath("lp"); err != nil {
		return ErrUnavailable
	}
	args := []string{"-o", "media=A4", "-o", "orientation-requested=3"}
	if printerName != "" {
		args = append(args, "-d", printerName)
	}
	args = append(args, path)
	cmd := exec.CommandContext(ctx, "lp", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ErrCancelled
		}
		p.Log.Warn("lp failed", zap.ByteString("output", out), zap.Error(err))
		return fmt.Errorf("lp: %w", err)
	}
	return nil
}
