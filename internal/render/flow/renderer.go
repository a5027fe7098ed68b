// Package flow turns record bundles into self-contained A4 print HTML. The
// viewer's CSS engine owns pagination, column sizing and bidi layout; this
// package only substitutes escaped values into fixed skeletons.
package flow

import (
	"bytes"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/madaris/daftar/internal/engine/catalog"
	"github.com/madaris/daftar/internal/format"
	"github.com/madaris/daftar/internal/render"
)

// column describes one selectable students_list column.
type column struct {
	label   string
	numeric bool
	value   func(render.StudentRow) string
}

// studentColumns is the column catalog for students_list; callers address
// columns by id and receive them in the order they asked for.
var studentColumns = map[string]column{
	"id":         {"الرقم", true, func(s render.StudentRow) string { return s.ID }},
	"name":       {"اسم الطالب", false, func(s render.StudentRow) string { return s.Name }},
	"school":     {"المدرسة", false, func(s render.StudentRow) string { return s.School }},
	"grade":      {"الصف", false, func(s render.StudentRow) string { return s.Grade }},
	"section":    {"الشعبة", false, func(s render.StudentRow) string { return s.Section }},
	"gender":     {"الجنس", false, func(s render.StudentRow) string { return s.Gender }},
	"phone":      {"الهاتف", true, func(s render.StudentRow) string { return s.Phone }},
	"status":     {"الحالة", false, func(s render.StudentRow) string { return s.Status }},
	"total_fee":  {"القسط الكلي", true, func(s render.StudentRow) string { return format.Amount(s.TotalFee) }},
	"total_paid": {"المدفوع", true, func(s render.StudentRow) string { return format.Amount(s.TotalPaid) }},
	"remaining":  {"المتبقي", true, func(s render.StudentRow) string { return format.Amount(s.Remaining) }},
}

type cell struct {
	Text    string
	Numeric bool
}

type listDoc struct {
	Title      string
	Subtitle   string
	FilterInfo string
	Headers    []string
	Rows       [][]cell
	Empty      bool
	ColSpan    int
	Generated  string
}

// Renderer renders the flow-backed template kinds.
type Renderer struct {
	log      *zap.Logger
	list     *template.Template
	fin      *template.Template
	student  *template.Template
	nowStamp func() string
}

// NewRenderer parses the embedded skeletons once.
func NewRenderer(log *zap.Logger, nowStamp func() string) *Renderer {
	funcs := template.FuncMap{
		"amount": format.Amount,
		"seq":    func(i int) int { return i + 1 },
	}
	return &Renderer{
		log:      log.Named("render.flow"),
		list:     template.Must(template.New("list").Funcs(funcs).Parse(listHTMLTemplate)),
		fin:      template.Must(template.New("financial").Funcs(funcs).Parse(financialHTMLTemplate)),
		student:  template.Must(template.New("student").Funcs(funcs).Parse(studentReportHTMLTemplate)),
		nowStamp: nowStamp,
	}
}

// Render produces the full HTML document for a flow kind. It never returns a
// partial document: any error yields empty output.
func (r *Renderer) Render(kind catalog.Kind, rendererID string, p render.Payload) (string, error) {
	switch rendererID {
	case "students_list":
		list, err := render.DecodeStudentsList(p)
		if err != nil {
			return "", err
		}
		return r.renderStudentsList(list)
	case "staff_list":
		list, err := render.DecodeStaffList(p)
		if err != nil {
			return "", err
		}
		return r.renderStaffList(kind, list)
	case "financial_report":
		rep, err := render.DecodeFinancialReport(p)
		if err != nil {
			return "", err
		}
		return r.exec(r.fin, struct {
			render.FinancialReport
			Generated string
		}{rep, r.nowStamp()})
	case "student_report":
		rep, err := render.DecodeStudentReport(p)
		if err != nil {
			return "", err
		}
		return r.exec(r.student, struct {
			render.StudentReport
			Generated string
		}{rep, r.nowStamp()})
	default:
		return "", catalog.ErrUnknownTemplate
	}
}

func (r *Renderer) renderStudentsList(list render.StudentsList) (string, error) {
	cols := make([]column, 0, len(list.SelectedColumns))
	for _, id := range list.SelectedColumns {
		c, ok := studentColumns[id]
		if !ok {
			r.log.Warn("unknown students_list column skipped", zap.String("column", id))
			continue
		}
		cols = append(cols, c)
	}

	doc := listDoc{
		Title:      "قائمة الطلاب",
		Subtitle:   list.AcademicYear,
		FilterInfo: list.FilterInfo,
		ColSpan:    len(cols) + 1,
		Generated:  r.nowStamp(),
	}
	for _, c := range cols {
		doc.Headers = append(doc.Headers, c.label)
	}
	for _, s := range list.Students {
		row := make([]cell, 0, len(cols))
		for _, c := range cols {
			row = append(row, cell{Text: c.value(s), Numeric: c.numeric})
		}
		doc.Rows = append(doc.Rows, row)
	}
	doc.Empty = len(doc.Rows) == 0
	return r.exec(r.list, doc)
}

func (r *Renderer) renderStaffList(kind catalog.Kind, list render.StaffList) (string, error) {
	doc := listDoc{
		Title:      "قائمة الموظفين",
		FilterInfo: list.FilterInfo,
		Headers:    []string{"الاسم", "المدرسة", "الوظيفة", "الراتب الشهري", "الهاتف", "الملاحظات"},
		ColSpan:    7,
		Generated:  r.nowStamp(),
	}
	if kind == catalog.TeachersList {
		doc.Title = "قائمة المعلمين"
	}
	for _, s := range list.Staff {
		doc.Rows = append(doc.Rows, []cell{
			{Text: s.Name},
			{Text: s.School},
			{Text: s.Role},
			{Text: format.Amount(s.MonthlySalary), Numeric: true},
			{Text: s.Phone, Numeric: true},
			{Text: s.Notes},
		})
	}
	doc.Empty = len(doc.Rows) == 0
	return r.exec(r.list, doc)
}

func (r *Renderer) exec(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
