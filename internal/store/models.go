// Package store persists the school records the print engine reads: schools,
// students, staff, installments, fees and the cash ledger. The repository
// assembles the payload maps the renderers decode, so nothing outside this
// package touches gorm.
package store

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// StaffMember.Kind values. Teachers and employees share one table; the kind
// column keeps the two lists separable.
const (
	StaffTeacher  = "teacher"
	StaffEmployee = "employee"
)

// Student.Status values as they appear on printed lists.
const (
	StatusActive    = "نشط"
	StatusWithdrawn = "منسحب"
)

type School struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	Address      string       `gorm:"type:text" json:"address"`
	Phone        string       `gorm:"type:text" json:"phone"`
	AcademicYear string       `gorm:"type:text" json:"academic_year"`
	CreatedAt    time.Time    `gorm:"not null" json:"-"`
	UpdatedAt    time.Time    `gorm:"not null" json:"-"`
}

func (School) TableName() string { return "schools" }

type Student struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID `gorm:"not null;index" json:"school_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Grade     string       `gorm:"type:text" json:"grade"`
	Section   string       `gorm:"type:text" json:"section"`
	Gender    string       `gorm:"type:text" json:"gender"`
	Phone     string       `gorm:"type:text" json:"phone"`
	Status    string       `gorm:"type:text;not null" json:"status"`
	TotalFee  int64        `gorm:"not null;default:0" json:"total_fee"`
	CreatedAt time.Time    `gorm:"not null" json:"-"`
	UpdatedAt time.Time    `gorm:"not null" json:"-"`
}

func (Student) TableName() string { return "students" }

// Installment is one tuition payment. The row id doubles as the printed
// receipt number.
type Installment struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	StudentID   snowflake.ID `gorm:"not null;index" json:"student_id"`
	Amount      int64        `gorm:"not null" json:"amount"`
	PaymentDate time.Time    `gorm:"not null" json:"payment_date"`
	Notes       string       `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time    `gorm:"not null" json:"-"`
}

func (Installment) TableName() string { return "installments" }

type AdditionalFee struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	StudentID snowflake.ID `gorm:"not null;index" json:"student_id"`
	FeeType   string       `gorm:"type:text;not null" json:"fee_type"`
	Amount    int64        `gorm:"not null" json:"amount"`
	DueDate   *time.Time   `json:"due_date"`
	Paid      bool         `gorm:"not null;default:false" json:"paid"`
	PaidAt    *time.Time   `json:"paid_at"`
	CreatedAt time.Time    `gorm:"not null" json:"-"`
}

func (AdditionalFee) TableName() string { return "additional_fees" }

type StaffMember struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID snowflake.ID `gorm:"not null;index" json:"school_id"`
	Kind     string       `gorm:"type:text;not null;index" json:"kind"`
	Name     string       `gorm:"type:text;not null" json:"name"`
	// Role holds the subject for teachers and the job title for employees.
	Role          string    `gorm:"type:text" json:"role"`
	WeeklyHours   int       `gorm:"not null;default:0" json:"weekly_hours"`
	MonthlySalary int64     `gorm:"not null;default:0" json:"monthly_salary"`
	Phone         string    `gorm:"type:text" json:"phone"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"not null" json:"-"`
	UpdatedAt     time.Time `gorm:"not null" json:"-"`
}

func (StaffMember) TableName() string { return "staff_members" }

// ExternalIncome is cash received outside tuition: donations, hall rental.
type ExternalIncome struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Category   string       `gorm:"type:text;not null" json:"category"`
	Amount     int64        `gorm:"not null" json:"amount"`
	Notes      string       `gorm:"type:text" json:"notes"`
	RecordedAt time.Time    `gorm:"not null;index" json:"recorded_at"`
}

func (ExternalIncome) TableName() string { return "external_incomes" }

type Expense struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Category   string       `gorm:"type:text;not null" json:"category"`
	Amount     int64        `gorm:"not null" json:"amount"`
	Notes      string       `gorm:"type:text" json:"notes"`
	RecordedAt time.Time    `gorm:"not null;index" json:"recorded_at"`
}

func (Expense) TableName() string { return "expenses" }

// SubjectGrade is one subject mark on a student report. The grade is stored
// as entered and printed verbatim.
type SubjectGrade struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	StudentID snowflake.ID `gorm:"not null;index" json:"student_id"`
	Subject   string       `gorm:"type:text;not null" json:"subject"`
	Grade     string       `gorm:"type:text;not null" json:"grade"`
	CreatedAt time.Time    `gorm:"not null" json:"-"`
}

func (SubjectGrade) TableName() string { return "subject_grades" }
