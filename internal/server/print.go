package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madaris/daftar/internal/engine"
	"github.com/madaris/daftar/internal/engine/catalog"
	"github.com/madaris/daftar/internal/joblog"
	"github.com/madaris/daftar/internal/render"
)

// ListTemplates returns the printable kinds and their back-ends.
func (s *Server) ListTemplates(c *gin.Context) {
	type row struct {
		Kind    string `json:"kind"`
		Backend string `json:"backend"`
	}
	rows := make([]row, 0, len(catalog.Kinds()))
	for _, kind := range catalog.Kinds() {
		entry, _ := catalog.Lookup(kind)
		rows = append(rows, row{Kind: string(kind), Backend: string(entry.Backend)})
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// PreviewRaw renders a caller-supplied payload and opens the viewer. The
// kind comes from the path; the body is the payload itself.
func (s *Server) PreviewRaw(c *gin.Context) {
	s.dispatchRaw(c, engine.ModePreview)
}

// PrintRaw renders a caller-supplied payload and hands it to the print path.
func (s *Server) PrintRaw(c *gin.Context) {
	s.dispatchRaw(c, engine.ModePrint)
}

func (s *Server) dispatchRaw(c *gin.Context, mode engine.Mode) {
	var payload render.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	s.dispatch(c, catalog.Kind(c.Param("kind")), mode, payload)
}

// ListJobs pages the print audit trail, newest first.
func (s *Server) ListJobs(c *gin.Context) {
	var query struct {
		Kind  string `form:"kind"`
		Limit int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}
	jobs, err := s.jobs.List(c.Request.Context(), joblog.ListQuery{Kind: query.Kind, Limit: query.Limit})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

// dispatch runs the engine and translates the outcome to HTTP.
func (s *Server) dispatch(c *gin.Context, kind catalog.Kind, mode engine.Mode, payload render.Payload) {
	var out engine.Outcome
	if mode == engine.ModePrint {
		out = s.engine.Print(c.Request.Context(), kind, payload)
	} else {
		out = s.engine.Preview(c.Request.Context(), kind, payload)
	}

	body := gin.H{"status": string(out.Status)}
	if out.ArtifactPath != "" {
		body["artifact"] = out.ArtifactPath
	}
	if msg := out.Message(); msg != "" {
		body["message"] = msg
	}
	c.JSON(outcomeStatus(out), gin.H{"data": body})
}

func outcomeStatus(out engine.Outcome) int {
	if out.Status != engine.StatusFailed {
		return http.StatusOK
	}
	if out.Err == nil {
		return http.StatusInternalServerError
	}
	switch out.Err.Kind {
	case engine.KindUnknownTemplate:
		return http.StatusNotFound
	case engine.KindMalformedPayload:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
