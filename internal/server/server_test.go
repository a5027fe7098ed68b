package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/madaris/daftar/internal/artifact"
	"github.com/madaris/daftar/internal/clock"
	"github.com/madaris/daftar/internal/config"
	"github.com/madaris/daftar/internal/engine"
	"github.com/madaris/daftar/internal/fonts"
	"github.com/madaris/daftar/internal/joblog"
	"github.com/madaris/daftar/internal/render/canvas"
	"github.com/madaris/daftar/internal/render/flow"
	"github.com/madaris/daftar/internal/store"
)

type fakeOpener struct {
	opened []string
}

func (f *fakeOpener) Open(_ context.Context, path string) error {
	f.opened = append(f.opened, path)
	return nil
}

type fakePrinter struct{}

func (fakePrinter) Print(context.Context, string, string) error { return nil }

type testHost struct {
	server *Server
	router *gin.Engine
	db     *gorm.DB
	node   *snowflake.Node
	opener *fakeOpener
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&store.School{}, &store.Student{}, &store.Installment{}, &store.AdditionalFee{},
		&store.StaffMember{}, &store.ExternalIncome{}, &store.Expense{}, &store.SubjectGrade{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	jobs, err := joblog.NewRecorder(db, node, log)
	if err != nil {
		t.Fatalf("joblog: %v", err)
	}

	art, err := artifact.NewRegistry(t.TempDir(), log)
	if err != nil {
		t.Fatalf("artifacts: %v", err)
	}
	opener := &fakeOpener{}
	fixed := clock.Fixed{T: time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)}
	eng := engine.New(engine.Params{
		Log:       log,
		Flow:      flow.NewRenderer(log, func() string { return "2025-10-15 09:00" }),
		Canvas:    canvas.NewRenderer(log, fonts.Load(t.TempDir(), log), fixed.Now),
		Artifacts: art,
		Opener:    opener,
		Printer:   fakePrinter{},
		Recorder:  jobs,
		Clock:     fixed,
	})

	router := NewEngine(log)
	srv := NewServer(config.Config{}, log, eng, store.NewRepository(db, log), jobs, router)
	srv.RegisterAPIRoutes()
	return &testHost{server: srv, router: router, db: db, node: node, opener: opener}
}

func (h *testHost) seedStudent(t *testing.T) store.Student {
	t.Helper()
	school := store.School{ID: h.node.Generate(), Name: "مدرسة النور", AcademicYear: "2025-2026"}
	if err := h.db.Create(&school).Error; err != nil {
		t.Fatalf("seed school: %v", err)
	}
	student := store.Student{
		ID: h.node.Generate(), SchoolID: school.ID, Name: "أحمد محمد",
		Grade: "الرابع الابتدائي", Section: "أ", Status: store.StatusActive, TotalFee: 1_000_000,
	}
	if err := h.db.Create(&student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return student
}

func (h *testHost) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestHost(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestStudentsListPreview(t *testing.T) {
	h := newTestHost(t)
	h.seedStudent(t)

	w := h.post(t, "/api/reports/students_list", map[string]any{"mode": "preview"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Status   string `json:"status"`
			Artifact string `json:"artifact"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Status != "success" || resp.Data.Artifact == "" {
		t.Fatalf("unexpected outcome %+v", resp.Data)
	}
	if len(h.opener.opened) != 1 {
		t.Fatalf("expected viewer open, got %d", len(h.opener.opened))
	}
}

func TestInstallmentReceiptPrint(t *testing.T) {
	h := newTestHost(t)
	student := h.seedStudent(t)
	inst := store.Installment{
		ID: h.node.Generate(), StudentID: student.ID, Amount: 250_000,
		PaymentDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := h.db.Create(&inst).Error; err != nil {
		t.Fatalf("seed installment: %v", err)
	}

	w := h.post(t, "/api/receipts/installment/"+inst.ID.String(), map[string]any{"mode": "print"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	// Silent print is off, so the viewer hosts the print dialog.
	if len(h.opener.opened) != 1 {
		t.Fatalf("expected viewer open, got %d", len(h.opener.opened))
	}
}

func TestStudentReportUnknownStudent(t *testing.T) {
	h := newTestHost(t)
	h.seedStudent(t)
	w := h.post(t, "/api/reports/student_report", map[string]any{
		"mode":       "preview",
		"student_id": h.node.Generate().String(),
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRawUnknownKind(t *testing.T) {
	h := newTestHost(t)
	w := h.post(t, "/api/print/bogus/preview", map[string]any{"x": 1})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRawMalformedPayload(t *testing.T) {
	h := newTestHost(t)
	w := h.post(t, "/api/print/students_list/preview", map[string]any{})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJobsEndpointListsAuditTrail(t *testing.T) {
	h := newTestHost(t)
	h.seedStudent(t)
	h.post(t, "/api/reports/students_list", map[string]any{"mode": "preview"})

	req := httptest.NewRequest(http.MethodGet, "/api/print/jobs?kind=students_list", nil)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data []joblog.PrintJob `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Kind != "students_list" {
		t.Fatalf("unexpected jobs %+v", resp.Data)
	}
}

func TestListTemplates(t *testing.T) {
	h := newTestHost(t)
	req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data []struct {
			Kind    string `json:"kind"`
			Backend string `json:"backend"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 8 {
		t.Fatalf("expected 8 kinds, got %d", len(resp.Data))
	}
}
