package render

import (
	"strconv"

	"github.com/madaris/daftar/internal/format"
)

// Decoding is tolerant by contract: unknown keys are ignored and missing
// optional fields render empty, never fail. Only the keys a template cannot
// exist without are required.

// DecodeStudentsList decodes the students_list payload. Required keys:
// students, selected_columns.
func DecodeStudentsList(p Payload) (StudentsList, error) {
	var out StudentsList
	rows, ok := anySlice(p, "students")
	if !ok {
		return out, &MalformedPayloadError{Key: "students"}
	}
	cols, ok := stringSlice(p, "selected_columns")
	if !ok {
		return out, &MalformedPayloadError{Key: "selected_columns"}
	}
	out.SelectedColumns = cols
	out.FilterInfo = str(p, "filter_info")
	out.AcademicYear = str(p, "academic_year")
	for _, raw := range rows {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		out.Students = append(out.Students, StudentRow{
			ID:        text(m, "id"),
			Name:      str(m, "name"),
			School:    str(m, "school_name"),
			Grade:     str(m, "grade"),
			Section:   str(m, "section"),
			Gender:    str(m, "gender"),
			Phone:     str(m, "phone"),
			Status:    str(m, "status"),
			TotalFee:  num(m, "total_fee"),
			TotalPaid: num(m, "total_paid"),
			Remaining: num(m, "remaining"),
		})
	}
	return out, nil
}

// DecodeStaffList decodes teachers_list / employees_list. Required: staff.
func DecodeStaffList(p Payload) (StaffList, error) {
	var out StaffList
	rows, ok := anySlice(p, "staff")
	if !ok {
		return out, &MalformedPayloadError{Key: "staff"}
	}
	out.FilterInfo = str(p, "filter_info")
	for _, raw := range rows {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		role := str(m, "role")
		if role == "" {
			role = str(m, "job_type")
		}
		if role == "" {
			role = text(m, "hours")
		}
		out.Staff = append(out.Staff, StaffRow{
			Name:          str(m, "name"),
			School:        str(m, "school_name"),
			Role:          role,
			MonthlySalary: num(m, "monthly_salary"),
			Phone:         str(m, "phone"),
			Notes:         str(m, "notes"),
		})
	}
	return out, nil
}

// DecodeFinancialReport decodes financial_report. Required: totals.
func DecodeFinancialReport(p Payload) (FinancialReport, error) {
	var out FinancialReport
	totals, ok := p["totals"].(map[string]any)
	if !ok {
		return out, &MalformedPayloadError{Key: "totals"}
	}
	out.DateRange = str(p, "date_range")
	out.Income = num(totals, "income")
	out.Expenses = num(totals, "expenses")
	out.Net = num(totals, "net")
	if items, ok := anySlice(p, "line_items"); ok {
		for _, raw := range items {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			out.LineItems = append(out.LineItems, FinancialLine{
				Category: str(m, "category"),
				Amount:   num(m, "amount"),
			})
		}
	}
	return out, nil
}

// DecodeStudentReport decodes student_report. Required: student.
func DecodeStudentReport(p Payload) (StudentReport, error) {
	var out StudentReport
	m, ok := p["student"].(map[string]any)
	if !ok {
		return out, &MalformedPayloadError{Key: "student"}
	}
	out.Student = StudentRow{
		ID:        text(m, "id"),
		Name:      str(m, "name"),
		School:    str(m, "school_name"),
		Grade:     str(m, "grade"),
		Section:   str(m, "section"),
		Gender:    str(m, "gender"),
		Phone:     str(m, "phone"),
		Status:    str(m, "status"),
		TotalFee:  num(m, "total_fee"),
		TotalPaid: num(m, "total_paid"),
		Remaining: num(m, "remaining"),
	}
	if school, ok := p["school"].(map[string]any); ok {
		out.SchoolName = str(school, "name")
		out.AcademicYear = str(school, "academic_year")
	}
	if grades, ok := anySlice(p, "grades"); ok {
		for _, raw := range grades {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			out.Grades = append(out.Grades, GradeRow{
				Subject: str(m, "subject"),
				Grade:   text(m, "grade"),
			})
		}
	}
	return out, nil
}

// DecodeReceipt decodes the record under the dispatcher-normalized "receipt"
// wrapper. Required keys: student_name, amount.
func DecodeReceipt(p Payload) (Receipt, error) {
	var out Receipt
	m, ok := p["receipt"].(map[string]any)
	if !ok {
		return out, &MalformedPayloadError{Key: "receipt"}
	}
	if _, ok := m["student_name"]; !ok {
		return out, &MalformedPayloadError{Key: "student_name"}
	}
	if _, ok := m["amount"]; !ok {
		return out, &MalformedPayloadError{Key: "amount"}
	}
	out = Receipt{
		StudentName:       str(m, "student_name"),
		SchoolName:        str(m, "school_name"),
		SchoolAddress:     str(m, "school_address"),
		SchoolPhone:       str(m, "school_phone"),
		Grade:             str(m, "grade"),
		Section:           str(m, "section"),
		Amount:            num(m, "amount"),
		PaymentDate:       text(m, "payment_date"),
		InstallmentNumber: int(num(m, "installment_number")),
		ReceiptNumber:     text(m, "receipt_number"),
		TotalFee:          num(m, "total_fee"),
		TotalPaid:         num(m, "total_paid"),
		Remaining:         num(m, "remaining"),
	}
	if fees, ok := anySliceIn(m, "fees_list"); ok {
		for _, raw := range fees {
			fm, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			typ := str(fm, "fee_type")
			if typ == "" {
				typ = str(fm, "type")
			}
			out.Fees = append(out.Fees, FeeLine{
				FeeType: typ,
				DueDate: text(fm, "due_date"),
				Amount:  num(fm, "amount"),
				IsPaid:  boolean(fm, "is_paid"),
			})
		}
	}
	return out, nil
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// text stringifies any scalar value through the canonical formatters.
func text(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return format.Coerce(v)
}

func num(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func boolean(m map[string]any, key string) bool {
	v, ok := m[key].(bool)
	return ok && v
}

func anySlice(p Payload, key string) ([]any, bool) {
	return anySliceIn(map[string]any(p), key)
}

func anySliceIn(m map[string]any, key string) ([]any, bool) {
	switch v := m[key].(type) {
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func stringSlice(p Payload, key string) ([]string, bool) {
	switch v := p[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
