// Package catalog enumerates the printable template kinds and the static
// policy that maps each kind to a render back-end. The dispatcher never
// chooses a back-end by itself; it always consults Lookup. New kinds are
// added by inserting a table row, not by writing code.
package catalog

import "errors"

// Kind identifies a printable document template.
type Kind string

const (
	StudentReport         Kind = "student_report"
	StudentsList          Kind = "students_list"
	TeachersList          Kind = "teachers_list"
	EmployeesList         Kind = "employees_list"
	FinancialReport       Kind = "financial_report"
	PaymentReceipt        Kind = "payment_receipt"
	InstallmentReceipt    Kind = "installment_receipt"
	AdditionalFeesReceipt Kind = "additional_fees_receipt"
)

// Backend selects the rendering strategy for a kind.
type Backend string

const (
	// BackendFlow produces CSS-flowed HTML; pagination, column sizing and
	// wrapping are the viewer's job. Used for lists and multi-page reports.
	BackendFlow Backend = "flow"
	// BackendCanvas places text at explicit page coordinates and emits a
	// PDF. Used for receipts whose layout must be bit-stable across runs.
	BackendCanvas Backend = "canvas"
)

// Entry is one row of the policy table.
type Entry struct {
	Kind       Kind
	Backend    Backend
	RendererID string
}

// ErrUnknownTemplate is returned when a kind has no catalog row.
var ErrUnknownTemplate = errors.New("unknown template kind")

var table = []Entry{
	{StudentReport, BackendFlow, "student_report"},
	{StudentsList, BackendFlow, "students_list"},
	{TeachersList, BackendFlow, "staff_list"},
	{EmployeesList, BackendFlow, "staff_list"},
	{FinancialReport, BackendFlow, "financial_report"},
	{PaymentReceipt, BackendCanvas, "payment_receipt"},
	{InstallmentReceipt, BackendCanvas, "installment_receipt"},
	{AdditionalFeesReceipt, BackendCanvas, "additional_fees_receipt"},
}

var index = func() map[Kind]Entry {
	m := make(map[Kind]Entry, len(table))
	for _, e := range table {
		m[e.Kind] = e
	}
	return m
}()

// Lookup resolves the back-end and renderer id for a kind.
func Lookup(kind Kind) (Entry, error) {
	e, ok := index[kind]
	if !ok {
		return Entry{}, ErrUnknownTemplate
	}
	return e, nil
}

// Kinds returns every enumerated kind in table order.
func Kinds() []Kind {
	out := make([]Kind, len(table))
	for i, e := range table {
		out[i] = e.Kind
	}
	return out
}

// IsReceipt reports whether the kind renders on the canvas back-end.
func IsReceipt(kind Kind) bool {
	e, ok := index[kind]
	return ok && e.Backend == BackendCanvas
}
