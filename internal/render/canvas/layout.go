package canvas

import "github.com/madaris/daftar/internal/format"

// All coordinates are millimetres from the page's top-left corner on portrait
// A4. Receipts are single-page by contract; nothing below may push content
// past the frame.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 10.0
	ContentW   = PageWidth - 2*Margin

	// FrameStroke is the 2pt rectangle around the whole content area.
	FrameStroke = 0.7

	// Header block.
	TitleY     = 25.0
	SchoolY    = 35.0
	ReceiptNoY = 45.0
	HeaderRule = 52.0

	// Body rows: label/value pairs at a fixed pitch.
	BodyTop    = 70.0
	LineHeight = 14.0
	LabelX     = PageWidth - Margin - 5 // labels hug the right edge (RTL)
	ValueX     = 115.0                  // values right-aligned at mid-page

	// Amount-in-words box.
	AmountBoxTop    = 150.0
	AmountBoxHeight = 45.0
	AmountBoxInset  = 10.0

	// Additional-fees table replaces the amount box.
	FeeTableTop       = 120.0
	FeeTableRowHeight = 9.0
	FeeTableMaxRows   = 10

	// Footer block.
	SignatureY  = 250.0
	SignRuleLen = 50.0
	TimestampY  = 260.0
	NoticeY     = 280.0

	TitleSize = 18.0
	BodySize  = 12.0
	SmallSize = 9.0
)

// feeColumnHeaders are the fee-table header labels, right to left. Every
// label is Arabic and is drawn through the shaper.
var feeColumnHeaders = []string{"نوع الرسم", "تاريخ الاستحقاق", format.CurrencySuffix, "الحالة"}

// Fixed strings on receipts.
const (
	noticeLine      = "هذا الإيصال محاسبي معتمد ولا يقبل التراجع عنه"
	currencyOnly    = "دينار عراقي لا غير"
	signatureLabel  = "توقيع المحاسب:"
	receiptNoLabel  = "رقم الإيصال:"
	installmentWord = "إيصال دفع قسط"
	paymentWord     = "إيصال دفع"
	additionalWord  = "إيصال رسوم إضافية"
)
