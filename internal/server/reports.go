package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madaris/daftar/internal/engine"
	"github.com/madaris/daftar/internal/engine/catalog"
	"github.com/madaris/daftar/internal/render"
	"github.com/madaris/daftar/internal/store"
)

// modeRequest is the body shared by the assembly endpoints. Mode defaults to
// preview.
type modeRequest struct {
	Mode string `json:"mode"`
}

func (r modeRequest) mode() engine.Mode {
	if r.Mode == string(engine.ModePrint) {
		return engine.ModePrint
	}
	return engine.ModePreview
}

type studentsListRequest struct {
	modeRequest
	Grade   string   `json:"grade"`
	Section string   `json:"section"`
	Columns []string `json:"columns"`
}

// StudentsList assembles the students list from the store and dispatches it.
func (s *Server) StudentsList(c *gin.Context) {
	var req studentsListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	key := "students|" + req.Grade + "|" + req.Section + "|" + strings.Join(req.Columns, ",")
	payload, err := s.lists.GetOrBuild(key, listTTL, func() (render.Payload, error) {
		return s.repo.BuildStudentsList(c.Request.Context(), store.StudentsQuery{
			Grade:   req.Grade,
			Section: req.Section,
			Columns: req.Columns,
		})
	})
	if err != nil {
		s.storeError(c, err)
		return
	}
	s.dispatch(c, catalog.StudentsList, req.mode(), payload)
}

func (s *Server) TeachersList(c *gin.Context) {
	s.staffList(c, catalog.TeachersList, store.StaffTeacher)
}

func (s *Server) EmployeesList(c *gin.Context) {
	s.staffList(c, catalog.EmployeesList, store.StaffEmployee)
}

func (s *Server) staffList(c *gin.Context, kind catalog.Kind, staffKind string) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	payload, err := s.lists.GetOrBuild("staff|"+staffKind, listTTL, func() (render.Payload, error) {
		return s.repo.BuildStaffList(c.Request.Context(), staffKind)
	})
	if err != nil {
		s.storeError(c, err)
		return
	}
	s.dispatch(c, kind, req.mode(), payload)
}

type financialReportRequest struct {
	modeRequest
	From string `json:"from"`
	To   string `json:"to"`
}

// FinancialReport assembles the income and expense summary for a date range.
func (s *Server) FinancialReport(c *gin.Context) {
	var req financialReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	payload, err := s.repo.BuildFinancialReport(c.Request.Context(), from, to)
	if err != nil {
		s.storeError(c, err)
		return
	}
	s.dispatch(c, catalog.FinancialReport, req.mode(), payload)
}

type studentReportRequest struct {
	modeRequest
	StudentID string `json:"student_id"`
}

func (s *Server) StudentReport(c *gin.Context) {
	var req studentReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	id, ok := parseID(c, req.StudentID)
	if !ok {
		return
	}
	payload, err := s.repo.BuildStudentReport(c.Request.Context(), id)
	if err != nil {
		s.storeError(c, err)
		return
	}
	s.dispatch(c, catalog.StudentReport, req.mode(), payload)
}

func (s *Server) InstallmentReceipt(c *gin.Context) {
	s.receipt(c, c.Param("id"), catalog.InstallmentReceipt, s.repo.BuildInstallmentReceipt)
}

func (s *Server) PaymentReceipt(c *gin.Context) {
	s.receipt(c, c.Param("student_id"), catalog.PaymentReceipt, s.repo.BuildPaymentReceipt)
}

func (s *Server) AdditionalFeesReceipt(c *gin.Context) {
	s.receipt(c, c.Param("student_id"), catalog.AdditionalFeesReceipt, s.repo.BuildAdditionalFeesReceipt)
}

type receiptBuilder func(ctx context.Context, id snowflake.ID) (render.Payload, error)

func (s *Server) receipt(c *gin.Context, rawID string, kind catalog.Kind, build receiptBuilder) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	id, ok := parseID(c, rawID)
	if !ok {
		return
	}
	payload, err := build(c.Request.Context(), id)
	if err != nil {
		s.storeError(c, err)
		return
	}
	s.dispatch(c, kind, req.mode(), payload)
}

func parseID(c *gin.Context, raw string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	s.log.Error("payload assembly failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "payload assembly failed"})
}
