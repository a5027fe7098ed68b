package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/madaris/daftar/internal/format"
	"github.com/madaris/daftar/internal/render"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository assembles print payloads from the persisted records. Every
// builder returns the exact map shape the render decoders expect.
type Repository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRepository(db *gorm.DB, log *zap.Logger) *Repository {
	return &Repository{db: db, log: log.Named("store.repository")}
}

// DefaultStudentColumns is the column set printed when the caller selects
// nothing.
var DefaultStudentColumns = []string{
	"name", "grade", "section", "gender", "total_fee", "total_paid", "remaining",
}

// StudentsQuery filters the students list.
type StudentsQuery struct {
	Grade   string
	Section string
	Columns []string
}

// BuildStudentsList assembles the students_list payload.
func (r *Repository) BuildStudentsList(ctx context.Context, q StudentsQuery) (render.Payload, error) {
	school, err := r.school(ctx)
	if err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).Order("grade, section, name")
	if q.Grade != "" {
		tx = tx.Where("grade = ?", q.Grade)
	}
	if q.Section != "" {
		tx = tx.Where("section = ?", q.Section)
	}
	var students []Student
	if err := tx.Find(&students).Error; err != nil {
		return nil, err
	}

	paid, err := r.paidByStudent(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(students))
	for _, s := range students {
		p := paid[s.ID]
		rows = append(rows, map[string]any{
			"id":          s.ID.String(),
			"name":        s.Name,
			"school_name": school.Name,
			"grade":       s.Grade,
			"section":     s.Section,
			"gender":      s.Gender,
			"phone":       s.Phone,
			"status":      s.Status,
			"total_fee":   s.TotalFee,
			"total_paid":  p,
			"remaining":   s.TotalFee - p,
		})
	}

	cols := q.Columns
	if len(cols) == 0 {
		cols = DefaultStudentColumns
	}
	return render.Payload{
		"students":         rows,
		"selected_columns": cols,
		"filter_info":      studentsFilterInfo(q),
		"academic_year":    school.AcademicYear,
	}, nil
}

func studentsFilterInfo(q StudentsQuery) string {
	var parts []string
	if q.Grade != "" {
		parts = append(parts, "الصف: "+q.Grade)
	}
	if q.Section != "" {
		parts = append(parts, "الشعبة: "+q.Section)
	}
	if len(parts) == 0 {
		return "جميع الطلاب"
	}
	return strings.Join(parts, " - ")
}

// BuildStaffList assembles the teachers_list / employees_list payload for the
// given staff kind.
func (r *Repository) BuildStaffList(ctx context.Context, kind string) (render.Payload, error) {
	school, err := r.school(ctx)
	if err != nil {
		return nil, err
	}
	var staff []StaffMember
	if err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("name").
		Find(&staff).Error; err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(staff))
	for _, m := range staff {
		rows = append(rows, map[string]any{
			"name":           m.Name,
			"school_name":    school.Name,
			"role":           m.Role,
			"hours":          m.WeeklyHours,
			"monthly_salary": m.MonthlySalary,
			"phone":          m.Phone,
			"notes":          m.Notes,
		})
	}
	return render.Payload{
		"staff":       rows,
		"filter_info": school.AcademicYear,
	}, nil
}

// BuildFinancialReport assembles the financial_report payload for the
// inclusive date range.
func (r *Repository) BuildFinancialReport(ctx context.Context, from, to time.Time) (render.Payload, error) {
	tuition, err := r.sumInRange(ctx, "installments", "payment_date", from, to)
	if err != nil {
		return nil, err
	}
	var fees int64
	if err := r.db.WithContext(ctx).Model(&AdditionalFee{}).
		Where("paid = ? AND paid_at >= ? AND paid_at < ?", true, from, to.AddDate(0, 0, 1)).
		Select("COALESCE(SUM(amount), 0)").Scan(&fees).Error; err != nil {
		return nil, err
	}

	lines := []map[string]any{
		{"category": "الأقساط المقبوضة", "amount": tuition},
		{"category": "الرسوم الإضافية المقبوضة", "amount": fees},
	}
	income := tuition + fees

	extra, err := r.categoryTotals(ctx, "external_incomes", from, to)
	if err != nil {
		return nil, err
	}
	for _, line := range extra {
		income += line.amount
		lines = append(lines, map[string]any{"category": line.category, "amount": line.amount})
	}

	var expenses int64
	spent, err := r.categoryTotals(ctx, "expenses", from, to)
	if err != nil {
		return nil, err
	}
	for _, line := range spent {
		expenses += line.amount
		lines = append(lines, map[string]any{"category": line.category, "amount": line.amount})
	}

	return render.Payload{
		"date_range": fmt.Sprintf("من %s إلى %s", format.Date(from), format.Date(to)),
		"totals": map[string]any{
			"income":   income,
			"expenses": expenses,
			"net":      income - expenses,
		},
		"line_items": lines,
	}, nil
}

// BuildStudentReport assembles the student_report payload.
func (r *Repository) BuildStudentReport(ctx context.Context, studentID snowflake.ID) (render.Payload, error) {
	student, school, paid, err := r.studentWithTotals(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var grades []SubjectGrade
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("subject").
		Find(&grades).Error; err != nil {
		return nil, err
	}
	gradeRows := make([]map[string]any, 0, len(grades))
	for _, g := range grades {
		gradeRows = append(gradeRows, map[string]any{"subject": g.Subject, "grade": g.Grade})
	}
	return render.Payload{
		"student": map[string]any{
			"id":          student.ID.String(),
			"name":        student.Name,
			"school_name": school.Name,
			"grade":       student.Grade,
			"section":     student.Section,
			"gender":      student.Gender,
			"phone":       student.Phone,
			"status":      student.Status,
			"total_fee":   student.TotalFee,
			"total_paid":  paid,
			"remaining":   student.TotalFee - paid,
		},
		"school": map[string]any{
			"name":          school.Name,
			"academic_year": school.AcademicYear,
		},
		"grades": gradeRows,
	}, nil
}

// BuildInstallmentReceipt assembles the installment_receipt payload. The
// installment's row id is the printed receipt number.
func (r *Repository) BuildInstallmentReceipt(ctx context.Context, installmentID snowflake.ID) (render.Payload, error) {
	var inst Installment
	if err := r.db.WithContext(ctx).First(&inst, "id = ?", installmentID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	student, school, paid, err := r.studentWithTotals(ctx, inst.StudentID)
	if err != nil {
		return nil, err
	}

	// Snowflake ids are time ordered, so the ordinal is a plain count.
	var ordinal int64
	if err := r.db.WithContext(ctx).Model(&Installment{}).
		Where("student_id = ? AND id <= ?", inst.StudentID, inst.ID).
		Count(&ordinal).Error; err != nil {
		return nil, err
	}

	p := r.receiptBase(student, school)
	p["amount"] = inst.Amount
	p["payment_date"] = format.Date(inst.PaymentDate)
	p["installment_number"] = int(ordinal)
	p["receipt_number"] = inst.ID.String()
	p["total_paid"] = paid
	p["remaining"] = student.TotalFee - paid
	return p, nil
}

// BuildPaymentReceipt assembles the payment_receipt payload: the student's
// payment position to date, stamped with the latest payment date.
func (r *Repository) BuildPaymentReceipt(ctx context.Context, studentID snowflake.ID) (render.Payload, error) {
	student, school, paid, err := r.studentWithTotals(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var latest Installment
	when := ""
	err = r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("payment_date DESC, id DESC").
		First(&latest).Error
	switch {
	case err == nil:
		when = format.Date(latest.PaymentDate)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no payments yet; the date line stays empty
	default:
		return nil, err
	}

	p := r.receiptBase(student, school)
	p["amount"] = paid
	p["payment_date"] = when
	p["receipt_number"] = student.ID.String()
	p["total_paid"] = paid
	p["remaining"] = student.TotalFee - paid
	return p, nil
}

// BuildAdditionalFeesReceipt assembles the additional_fees_receipt payload
// with the student's full fee table.
func (r *Repository) BuildAdditionalFeesReceipt(ctx context.Context, studentID snowflake.ID) (render.Payload, error) {
	student, school, _, err := r.studentWithTotals(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var fees []AdditionalFee
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("id").
		Find(&fees).Error; err != nil {
		return nil, err
	}

	var total, settled int64
	list := make([]map[string]any, 0, len(fees))
	for _, f := range fees {
		total += f.Amount
		if f.Paid {
			settled += f.Amount
		}
		due := ""
		if f.DueDate != nil {
			due = format.Date(*f.DueDate)
		}
		list = append(list, map[string]any{
			"fee_type": f.FeeType,
			"due_date": due,
			"amount":   f.Amount,
			"is_paid":  f.Paid,
		})
	}

	p := r.receiptBase(student, school)
	p["amount"] = total
	p["receipt_number"] = student.ID.String()
	p["total_fee"] = total
	p["total_paid"] = settled
	p["remaining"] = total - settled
	p["fees_list"] = list
	return p, nil
}

func (r *Repository) receiptBase(student Student, school School) render.Payload {
	return render.Payload{
		"student_name":   student.Name,
		"school_name":    school.Name,
		"school_address": school.Address,
		"school_phone":   school.Phone,
		"grade":          student.Grade,
		"section":        student.Section,
		"total_fee":      student.TotalFee,
	}
}

func (r *Repository) school(ctx context.Context) (School, error) {
	var school School
	err := r.db.WithContext(ctx).Order("id").First(&school).Error
	if err != nil {
		return School{}, wrapNotFound(err)
	}
	return school, nil
}

func (r *Repository) studentWithTotals(ctx context.Context, id snowflake.ID) (Student, School, int64, error) {
	var student Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return Student{}, School{}, 0, wrapNotFound(err)
	}
	var school School
	if err := r.db.WithContext(ctx).First(&school, "id = ?", student.SchoolID).Error; err != nil {
		return Student{}, School{}, 0, wrapNotFound(err)
	}
	var paid int64
	if err := r.db.WithContext(ctx).Model(&Installment{}).
		Where("student_id = ?", id).
		Select("COALESCE(SUM(amount), 0)").Scan(&paid).Error; err != nil {
		return Student{}, School{}, 0, err
	}
	return student, school, paid, nil
}

func (r *Repository) paidByStudent(ctx context.Context) (map[snowflake.ID]int64, error) {
	var sums []struct {
		StudentID snowflake.ID
		Total     int64
	}
	if err := r.db.WithContext(ctx).Model(&Installment{}).
		Select("student_id, SUM(amount) AS total").
		Group("student_id").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	out := make(map[snowflake.ID]int64, len(sums))
	for _, s := range sums {
		out[s.StudentID] = s.Total
	}
	return out, nil
}

func (r *Repository) sumInRange(ctx context.Context, table, column string, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Table(table).
		Where(column+" >= ? AND "+column+" < ?", from, to.AddDate(0, 0, 1)).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

type categoryLine struct {
	category string
	amount   int64
}

func (r *Repository) categoryTotals(ctx context.Context, table string, from, to time.Time) ([]categoryLine, error) {
	var rows []struct {
		Category string
		Total    int64
	}
	if err := r.db.WithContext(ctx).Table(table).
		Select("category, SUM(amount) AS total").
		Where("recorded_at >= ? AND recorded_at < ?", from, to.AddDate(0, 0, 1)).
		Group("category").
		Order("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]categoryLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryLine{category: row.Category, amount: row.Total})
	}
	return out, nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
