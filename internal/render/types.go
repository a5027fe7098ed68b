// Package render defines the deterministic inputs both back-ends consume:
// typed views decoded from the opaque payload maps callers hand the engine.
// Renderers never see the database; they see only these records.
package render

import (
	"errors"
	"fmt"
)

// Payload is the opaque record bundle accepted at the engine boundary.
type Payload map[string]any

// MalformedPayloadError names the payload key that was missing or unusable.
type MalformedPayloadError struct {
	Key string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload: missing or invalid key %q", e.Key)
}

// ErrMalformedPayload lets callers test for the class without the key.
var ErrMalformedPayload = errors.New("malformed payload")

// ErrRenderIO marks temp-file writes or PDF finalization failures.
var ErrRenderIO = errors.New("render io failure")

func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }

// StudentRow is one student record in a list or report.
type StudentRow struct {
	ID        string
	Name      string
	School    string
	Grade     string
	Section   string
	Gender    string
	Phone     string
	Status    string
	TotalFee  int64
	TotalPaid int64
	Remaining int64
}

// StudentsList is the students_list payload.
type StudentsList struct {
	Students        []StudentRow
	SelectedColumns []string
	FilterInfo      string
	AcademicYear    string
}

// StaffRow is one teacher or employee record.
type StaffRow struct {
	Name          string
	School        string
	Role          string
	MonthlySalary int64
	Phone         string
	Notes         string
}

// StaffList is the teachers_list / employees_list payload.
type StaffList struct {
	Staff      []StaffRow
	FilterInfo string
}

// FinancialLine is one category row of the financial report.
type FinancialLine struct {
	Category string
	Amount   int64
}

// FinancialReport is the financial_report payload.
type FinancialReport struct {
	DateRange string
	Income    int64
	Expenses  int64
	Net       int64
	LineItems []FinancialLine
}

// GradeRow is one subject grade on a student report.
type GradeRow struct {
	Subject string
	Grade   string
}

// StudentReport is the student_report payload.
type StudentReport struct {
	Student      StudentRow
	SchoolName   string
	AcademicYear string
	Grades       []GradeRow
}

// FeeLine is one row of an additional-fees receipt table.
type FeeLine struct {
	FeeType string
	DueDate string
	Amount  int64
	IsPaid  bool
}

// Receipt is the shared record for the three receipt kinds. Fields that a
// kind does not use stay at their zero value.
type Receipt struct {
	StudentName       string
	SchoolName        string
	SchoolAddress     string
	SchoolPhone       string
	Grade             string
	Section           string
	Amount            int64
	PaymentDate       string
	InstallmentNumber int
	ReceiptNumber     string
	TotalFee          int64
	TotalPaid         int64
	Remaining         int64
	Fees              []FeeLine
}
