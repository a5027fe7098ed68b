// Package canvas writes receipts as single-page A4 PDFs by placing shaped
// Arabic text at explicit millimetre coordinates. Layout must be bit-stable
// across runs, so everything is driven by the constants in layout.go.
package canvas

import (
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"

	"github.com/madaris/daftar/internal/arabic"
	"github.com/madaris/daftar/internal/engine/catalog"
	"github.com/madaris/daftar/internal/fonts"
	"github.com/madaris/daftar/internal/format"
	"github.com/madaris/daftar/internal/render"
)

// Renderer renders the canvas-backed receipt kinds.
type Renderer struct {
	log   *zap.Logger
	fonts *fonts.Registry
	now   func() time.Time
}

func NewRenderer(log *zap.Logger, reg *fonts.Registry, now func() time.Time) *Renderer {
	return &Renderer{log: log.Named("render.canvas"), fonts: reg, now: now}
}

// RenderReceipt renders one receipt to outPath. The payload must already
// carry the dispatcher-normalized "receipt" wrapper.
func (r *Renderer) RenderReceipt(rendererID string, p render.Payload, outPath string) error {
	rec, err := render.DecodeReceipt(p)
	if err != nil {
		return err
	}
	rec = r.clampAmounts(rec)

	d := r.newDoc()
	d.frame()

	switch rendererID {
	case "installment_receipt":
		r.drawInstallment(d, rec)
	case "payment_receipt":
		r.drawPayment(d, rec)
	case "additional_fees_receipt":
		r.drawAdditionalFees(d, rec)
	default:
		return catalog.ErrUnknownTemplate
	}

	r.drawFooter(d)

	if err := d.pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("%w: %v", render.ErrRenderIO, err)
	}
	return nil
}

// clampAmounts forces every displayed amount non-negative, logging once per
// offending field.
func (r *Renderer) clampAmounts(rec render.Receipt) render.Receipt {
	clamp := func(name string, v int64) int64 {
		if v < 0 {
			r.log.Warn("negative amount clamped to zero", zap.String("field", name), zap.Int64("value", v))
			return 0
		}
		return v
	}
	rec.Amount = clamp("amount", rec.Amount)
	rec.TotalFee = clamp("total_fee", rec.TotalFee)
	rec.TotalPaid = clamp("total_paid", rec.TotalPaid)
	rec.Remaining = clamp("remaining", rec.Remaining)
	for i := range rec.Fees {
		rec.Fees[i].Amount = clamp("fees_list.amount", rec.Fees[i].Amount)
	}
	return rec
}

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// doc wraps one in-progress page with the resolved font family.
type doc struct {
	pdf    *gofpdf.Fpdf
	family string
	log    *zap.Logger
}

func (r *Renderer) newDoc() *doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	family := fonts.FallbackFamily
	if body, ok := r.fonts.Path(fonts.Body); ok {
		pdf.AddUTF8Font("arabic", "", body)
		if bold, ok := r.fonts.Path(fonts.BodyBold); ok {
			pdf.AddUTF8Font("arabic", "B", bold)
		} else {
			pdf.AddUTF8Font("arabic", "B", body)
		}
		family = "arabic"
	} else {
		r.log.Warn("arabic font unavailable, using fallback", zap.String("fallback", family))
	}

	pdf.AddPage()
	return &doc{pdf: pdf, family: family, log: r.log}
}

// frame draws the 2pt rectangle around the content area.
func (d *doc) frame() {
	d.pdf.SetLineWidth(FrameStroke)
	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.Rect(Margin, Margin, ContentW, PageHeight-2*Margin, "D")
	d.pdf.SetLineWidth(0.2)
}

// text draws raw (already display-ready) text with the given anchor. The
// anchor controls placement only, never text direction.
func (d *doc) text(x, y float64, s string, size float64, bold bool, a align) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont(d.family, style, size)
	w := d.pdf.GetStringWidth(s)
	switch a {
	case alignCenter:
		x -= w / 2
	case alignRight:
		x -= w
	}
	d.pdf.Text(x, y, s)
}

// arText shapes Arabic-bearing text exactly once, then draws it. Numeric
// strings must go through text instead so digits keep their order.
func (d *doc) arText(x, y float64, s string, size float64, bold bool, a align) {
	d.text(x, y, arabic.Shape(s), size, bold, a)
}

func (d *doc) line(x1, y1, x2, y2 float64) {
	d.pdf.Line(x1, y1, x2, y2)
}

// header draws the shared header block: centered title, centered school name
// in bold, right-aligned receipt number, rule underneath.
func (d *doc) header(title string, rec render.Receipt) {
	d.arText(PageWidth/2, TitleY, title, TitleSize, true, alignCenter)
	d.arText(PageWidth/2, SchoolY, rec.SchoolName, BodySize+2, true, alignCenter)
	if rec.ReceiptNumber != "" {
		// Label and number are separate draw calls: the label is shaped,
		// the number is not.
		d.arText(LabelX, ReceiptNoY, receiptNoLabel, BodySize, false, alignRight)
		lw := d.pdf.GetStringWidth(arabic.Shape(receiptNoLabel))
		d.text(LabelX-lw-3, ReceiptNoY, rec.ReceiptNumber, BodySize, false, alignRight)
	}
	d.line(Margin, HeaderRule, PageWidth-Margin, HeaderRule)
}

// bodyRow draws one label/value pair. Numeric values pass numeric=true so
// they are drawn unshaped.
func (d *doc) bodyRow(y float64, label, value string, numeric bool) {
	d.arText(LabelX, y, label, BodySize, true, alignRight)
	if numeric {
		d.text(ValueX, y, value, BodySize, false, alignRight)
	} else {
		d.arText(ValueX, y, value, BodySize, false, alignRight)
	}
}

// amountBox draws the bordered amount-in-words block: numeric amount bold,
// the spelled amount, then the fixed closing line.
func (d *doc) amountBox(amount int64) {
	x := Margin + AmountBoxInset
	w := ContentW - 2*AmountBoxInset
	d.pdf.Rect(x, AmountBoxTop, w, AmountBoxHeight, "D")

	cx := PageWidth / 2
	d.text(cx, AmountBoxTop+14, format.Amount(amount), BodySize+2, true, alignCenter)
	d.arText(cx, AmountBoxTop+27, arabic.InWords(amount), BodySize, false, alignCenter)
	d.arText(cx, AmountBoxTop+38, currencyOnly, BodySize, false, alignCenter)
}

func (r *Renderer) drawInstallment(d *doc, rec render.Receipt) {
	d.header(installmentWord, rec)
	y := BodyTop
	d.bodyRow(y, "اسم الطالب:", rec.StudentName, false)
	y += LineHeight
	if rec.InstallmentNumber > 0 {
		d.bodyRow(y, "رقم القسط:", format.Group(int64(rec.InstallmentNumber)), true)
	}
	y += LineHeight
	d.bodyRow(y, "المبلغ المدفوع:", format.Group(rec.Amount)+" دينار", true)
	y += LineHeight
	d.bodyRow(y, "تاريخ الدفع:", rec.PaymentDate, true)

	d.amountBox(rec.Amount)
}

func (r *Renderer) drawPayment(d *doc, rec render.Receipt) {
	d.header(paymentWord, rec)
	y := BodyTop
	d.bodyRow(y, "اسم الطالب:", rec.StudentName, false)
	y += LineHeight
	d.bodyRow(y, "المبلغ المدفوع:", format.Group(rec.Amount)+" دينار", true)
	y += LineHeight
	d.bodyRow(y, "تاريخ الدفع:", rec.PaymentDate, true)

	d.amountBox(rec.Amount)

	// Running balance line under the amount box.
	y = AmountBoxTop + AmountBoxHeight + 12
	d.bodyRow(y, "القسط الكلي:", format.Amount(rec.TotalFee), true)
	y += LineHeight
	d.bodyRow(y, "المدفوع:", format.Amount(rec.TotalPaid), true)
	y += LineHeight
	d.bodyRow(y, "المتبقي:", format.Amount(rec.Remaining), true)
}

func (r *Renderer) drawAdditionalFees(d *doc, rec render.Receipt) {
	d.header(additionalWord, rec)
	y := BodyTop
	d.bodyRow(y, "اسم الطالب:", rec.StudentName, false)
	y += LineHeight
	if rec.Grade != "" || rec.Section != "" {
		d.bodyRow(y, "الصف والشعبة:", rec.Grade+" "+rec.Section, false)
	}

	fees := rec.Fees
	if len(fees) > FeeTableMaxRows {
		r.log.Warn("fee rows truncated to keep receipt single-page",
			zap.Int("rows", len(fees)), zap.Int("max", FeeTableMaxRows))
		fees = fees[:FeeTableMaxRows]
	}

	// Bordered fee table: type, due date, amount, paid status.
	x := Margin + AmountBoxInset
	w := ContentW - 2*AmountBoxInset
	tableH := FeeTableRowHeight * float64(len(fees)+1)
	d.pdf.Rect(x, FeeTableTop, w, tableH, "D")

	headY := FeeTableTop + FeeTableRowHeight - 2.5
	headX := []float64{w - 4, w * 0.55, w * 0.32, w * 0.14}
	for i, label := range feeColumnHeaders {
		d.arText(x+headX[i], headY, label, SmallSize+1, true, alignRight)
	}
	d.line(x, FeeTableTop+FeeTableRowHeight, x+w, FeeTableTop+FeeTableRowHeight)

	rowY := FeeTableTop + FeeTableRowHeight
	var total int64
	for _, fee := range fees {
		rowY += FeeTableRowHeight
		textY := rowY - 2.5
		d.arText(x+w-4, textY, fee.FeeType, SmallSize, false, alignRight)
		d.text(x+w*0.55, textY, fee.DueDate, SmallSize, false, alignRight)
		d.text(x+w*0.32, textY, format.Group(fee.Amount), SmallSize, false, alignRight)
		if fee.IsPaid {
			d.pdf.SetTextColor(0, 128, 0)
			d.arText(x+w*0.14, textY, "مدفوع", SmallSize, false, alignRight)
		} else {
			d.pdf.SetTextColor(200, 0, 0)
			d.arText(x+w*0.14, textY, "غير مدفوع", SmallSize, false, alignRight)
		}
		d.pdf.SetTextColor(0, 0, 0)
		total += fee.Amount
	}

	if rec.Amount > 0 {
		total = rec.Amount
	}
	y = FeeTableTop + tableH + 12
	d.bodyRow(y, "المجموع:", format.Amount(total), true)
}

// drawFooter writes the signature rule, generation timestamp and the fixed
// accounting notice at the page bottom.
func (r *Renderer) drawFooter(d *doc) {
	d.arText(LabelX, SignatureY, signatureLabel, BodySize, false, alignRight)
	lw := d.pdf.GetStringWidth(arabic.Shape(signatureLabel))
	lineEnd := LabelX - lw - 4
	d.line(lineEnd-SignRuleLen, SignatureY+1, lineEnd, SignatureY+1)

	d.text(LabelX, TimestampY, format.Timestamp(r.now()), SmallSize, false, alignRight)
	d.arText(PageWidth/2, NoticeY, noticeLine, SmallSize, false, alignCenter)
}
