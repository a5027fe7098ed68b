package canvas

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/madaris/daftar/internal/arabic"
	"github.com/madaris/daftar/internal/fonts"
	"github.com/madaris/daftar/internal/render"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	reg := fonts.Load(t.TempDir(), zap.NewNop())
	now := func() time.Time { return time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC) }
	return NewRenderer(zap.NewNop(), reg, now)
}

func installmentPayload() render.Payload {
	return render.Payload{"receipt": map[string]any{
		"student_name":       "أحمد محمد علي",
		"school_name":        "مدرسة النور",
		"amount":             250000,
		"payment_date":       "2025-01-15",
		"installment_number": 3,
		"receipt_number":     "R20250115001",
	}}
}

func TestRenderInstallmentReceiptProducesPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "receipt.pdf")
	if err := newTestRenderer(t).RenderReceipt("installment_receipt", installmentPayload(), out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("expected a PDF artifact, got %d bytes", len(data))
	}
}

func TestRenderReceiptDeterministicLayout(t *testing.T) {
	r := newTestRenderer(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	if err := r.RenderReceipt("installment_receipt", installmentPayload(), a); err != nil {
		t.Fatal(err)
	}
	if err := r.RenderReceipt("installment_receipt", installmentPayload(), b); err != nil {
		t.Fatal(err)
	}
	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	// gofpdf stamps the creation date; everything else must be identical.
	if len(da) != len(db) {
		t.Fatalf("two renders of the same receipt differ in size: %d vs %d", len(da), len(db))
	}
}

func TestRenderReceiptMalformedPayload(t *testing.T) {
	r := newTestRenderer(t)
	out := filepath.Join(t.TempDir(), "x.pdf")

	err := r.RenderReceipt("installment_receipt", render.Payload{"receipt": map[string]any{"amount": 1}}, out)
	var mp *render.MalformedPayloadError
	if !errors.As(err, &mp) || mp.Key != "student_name" {
		t.Fatalf("expected malformed payload naming student_name, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatal("no artifact may be produced on malformed payload")
	}
}

func TestRenderReceiptUnknownRenderer(t *testing.T) {
	err := newTestRenderer(t).RenderReceipt("quarterly", installmentPayload(), filepath.Join(t.TempDir(), "x.pdf"))
	if err == nil {
		t.Fatal("expected error for unknown renderer id")
	}
}

func TestRenderReceiptClampsNegativeAmount(t *testing.T) {
	p := render.Payload{"receipt": map[string]any{
		"student_name": "سارة علي",
		"amount":       -50000,
	}}
	out := filepath.Join(t.TempDir(), "neg.pdf")
	if err := newTestRenderer(t).RenderReceipt("payment_receipt", p, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal("negative amounts clamp, they do not abort rendering")
	}
}

func TestRenderAdditionalFeesReceipt(t *testing.T) {
	p := render.Payload{"receipt": map[string]any{
		"student_name": "سارة علي",
		"grade":        "الرابع",
		"section":      "ب",
		"amount":       125000,
		"fees_list": []any{
			map[string]any{"fee_type": "رسوم النشاطات", "due_date": "2025-08-15", "amount": 50000, "is_paid": true},
			map[string]any{"fee_type": "رسوم الكتب", "due_date": "2025-08-20", "amount": 75000, "is_paid": false},
		},
	}}
	out := filepath.Join(t.TempDir(), "fees.pdf")
	if err := newTestRenderer(t).RenderReceipt("additional_fees_receipt", p, out); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		t.Fatal("expected non-empty additional-fees PDF")
	}
}

func TestRenderIOFailure(t *testing.T) {
	err := newTestRenderer(t).RenderReceipt("installment_receipt", installmentPayload(),
		filepath.Join(t.TempDir(), "missing", "nested", "out.pdf"))
	if !errors.Is(err, render.ErrRenderIO) {
		t.Fatalf("expected ErrRenderIO, got %v", err)
	}
}

func TestFeeColumnHeadersAreShapedText(t *testing.T) {
	if len(feeColumnHeaders) != 4 {
		t.Fatalf("expected 4 fee table columns, got %d", len(feeColumnHeaders))
	}
	for _, label := range feeColumnHeaders {
		if !arabic.HasArabic(label) {
			t.Errorf("header %q carries no Arabic text", label)
		}
		if arabic.Shape(label) == label {
			t.Errorf("header %q must change under shaping", label)
		}
	}
}
