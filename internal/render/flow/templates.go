package flow

// The flow back-end emits a single self-contained document per request: no
// external URLs, no scripts, one style block. Pages are declared RTL and the
// print rules pin A4 portrait with 10mm margins, repeat table headers across
// page breaks and keep backgrounds exact.

const baseCSS = `
    * { box-sizing: border-box; }
    @page { size: A4 portrait; margin: 10mm; }
    html { direction: rtl; }
    body {
      margin: 0;
      font-family: "Amiri", "Noto Naskh Arabic", "Arial", sans-serif;
      color: #111827;
      background: #ffffff;
      font-size: 13px;
    }
    .report { width: 100%; }
    .header {
      text-align: center;
      border-bottom: 2px solid #1f2937;
      padding-bottom: 8px;
      margin-bottom: 12px;
    }
    .header h1 { margin: 0 0 4px 0; font-size: 20px; }
    .header .meta { color: #6b7280; font-size: 12px; }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 12px;
    }
    thead { display: table-header-group; }
    tr { page-break-inside: avoid; }
    th, td {
      border: 1px solid #9ca3af;
      padding: 5px 7px;
      text-align: right;
    }
    th { background: #e5e7eb; font-weight: bold; }
    td.num { direction: ltr; text-align: left; font-variant-numeric: tabular-nums; }
    td.seq { text-align: center; width: 28px; }
    td.empty { text-align: center; color: #6b7280; padding: 18px; }
    tbody tr:nth-child(even) { background: #f9fafb; }
    .totals {
      margin-top: 12px;
      display: flex;
      justify-content: flex-start;
      gap: 24px;
      font-size: 14px;
    }
    .totals div { border: 1px solid #9ca3af; padding: 8px 16px; }
    .footer {
      margin-top: 16px;
      font-size: 11px;
      color: #6b7280;
      text-align: left;
    }
    @media print {
      body { -webkit-print-color-adjust: exact; print-color-adjust: exact; }
      tbody tr:nth-child(even) { background: #ffffff; }
    }
`

// listHTMLTemplate renders the students/teachers/employees lists: one table,
// caller-ordered columns behind a leading sequence column. Cells are written
// in logical order; the viewer's bidi layout puts the sequence column on the
// visual right.
const listHTMLTemplate = `<!doctype html>
<html lang="ar" dir="rtl">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>` + baseCSS + `</style>
</head>
<body>
  <div class="report">
    <div class="header">
      <h1>{{.Title}}</h1>
      {{if .Subtitle}}<div class="meta">{{.Subtitle}}</div>{{end}}
      {{if .FilterInfo}}<div class="meta">{{.FilterInfo}}</div>{{end}}
    </div>
    <table>
      <thead>
        <tr>
          <th>ت</th>
          {{range .Headers}}<th>{{.}}</th>{{end}}
        </tr>
      </thead>
      <tbody>
        {{if .Empty}}
        <tr><td class="empty" colspan="{{.ColSpan}}">لا توجد بيانات للعرض</td></tr>
        {{else}}
        {{range $i, $row := .Rows}}
        <tr>
          <td class="seq">{{seq $i}}</td>
          {{range $row}}{{if .Numeric}}<td class="num">{{.Text}}</td>{{else}}<td>{{.Text}}</td>{{end}}{{end}}
        </tr>
        {{end}}
        {{end}}
      </tbody>
    </table>
    <div class="footer">{{.Generated}}</div>
  </div>
</body>
</html>
`

const financialHTMLTemplate = `<!doctype html>
<html lang="ar" dir="rtl">
<head>
  <meta charset="utf-8" />
  <title>التقرير المالي</title>
  <style>` + baseCSS + `</style>
</head>
<body>
  <div class="report">
    <div class="header">
      <h1>التقرير المالي</h1>
      {{if .DateRange}}<div class="meta">{{.DateRange}}</div>{{end}}
    </div>
    <div class="totals">
      <div>الإيرادات: <span dir="ltr">{{amount .Income}}</span></div>
      <div>المصروفات: <span dir="ltr">{{amount .Expenses}}</span></div>
      <div>الصافي: <span dir="ltr">{{amount .Net}}</span></div>
    </div>
    <table style="margin-top:12px">
      <thead>
        <tr><th>البند</th><th>المبلغ</th></tr>
      </thead>
      <tbody>
        {{if .LineItems}}
        {{range .LineItems}}
        <tr><td>{{.Category}}</td><td class="num">{{amount .Amount}}</td></tr>
        {{end}}
        {{else}}
        <tr><td class="empty" colspan="2">لا توجد بيانات للعرض</td></tr>
        {{end}}
      </tbody>
    </table>
    <div class="footer">{{.Generated}}</div>
  </div>
</body>
</html>
`

const studentReportHTMLTemplate = `<!doctype html>
<html lang="ar" dir="rtl">
<head>
  <meta charset="utf-8" />
  <title>تقرير الطالب</title>
  <style>` + baseCSS + `</style>
</head>
<body>
  <div class="report">
    <div class="header">
      <h1>تقرير الطالب</h1>
      {{if .SchoolName}}<div class="meta">{{.SchoolName}}{{if .AcademicYear}} - {{.AcademicYear}}{{end}}</div>{{end}}
    </div>
    <table>
      <tbody>
        <tr><th>اسم الطالب</th><td>{{.Student.Name}}</td></tr>
        <tr><th>الصف</th><td>{{.Student.Grade}}</td></tr>
        <tr><th>الشعبة</th><td>{{.Student.Section}}</td></tr>
        <tr><th>الحالة</th><td>{{.Student.Status}}</td></tr>
        <tr><th>القسط الكلي</th><td class="num">{{amount .Student.TotalFee}}</td></tr>
        <tr><th>المدفوع</th><td class="num">{{amount .Student.TotalPaid}}</td></tr>
        <tr><th>المتبقي</th><td class="num">{{amount .Student.Remaining}}</td></tr>
      </tbody>
    </table>
    {{if .Grades}}
    <table style="margin-top:12px">
      <thead><tr><th>المادة</th><th>الدرجة</th></tr></thead>
      <tbody>
        {{range .Grades}}<tr><td>{{.Subject}}</td><td class="num">{{.Grade}}</td></tr>{{end}}
      </tbody>
    </table>
    {{end}}
    <div class="footer">{{.Generated}}</div>
  </div>
</body>
</html>
`
