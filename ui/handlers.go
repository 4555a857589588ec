package ui

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"edadash/domain/core"
	"edadash/domain/report"
	apperrors "edadash/internal/errors"

	"github.com/gin-gonic/gin"
)

// noTarget is the picker entry meaning "no target column"
const noTarget = "None"

// ArtifactResponse is returned after a successful generation
type ArtifactResponse struct {
	ID          core.ID             `json:"id"`
	Backend     report.Backend      `json:"backend"`
	Kind        report.ArtifactKind `json:"kind"`
	Analysis    report.Analysis     `json:"analysis"`
	Title       string              `json:"title"`
	FileName    string              `json:"file_name,omitempty"`
	SizeBytes   int64               `json:"size_bytes,omitempty"`
	ViewURL     string              `json:"view_url,omitempty"`
	DownloadURL string              `json:"download_url,omitempty"`
	URL         string              `json:"url,omitempty"`
	CreatedAt   core.Timestamp      `json:"created_at"`
}

func newArtifactResponse(a *report.Artifact) ArtifactResponse {
	resp := ArtifactResponse{
		ID:        a.ID,
		Backend:   a.Backend,
		Kind:      a.Kind,
		Analysis:  a.Analysis,
		Title:     a.Title,
		FileName:  a.FileName,
		SizeBytes: a.SizeBytes,
		URL:       a.URL,
		CreatedAt: a.CreatedAt,
	}
	if a.IsHTML() {
		resp.ViewURL = "/reports/" + a.ID.String()
		resp.DownloadURL = resp.ViewURL + "/download"
	}
	return resp
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, "index.html", gin.H{
		"Backends":    s.reports.Backends(),
		"MaxUploadMB": s.limitMB,
		"NoTarget":    noTarget,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backends": s.reports.Backends()})
}

// handlePreview returns the dataset overview and sample rows, plus a shorter
// sample of the comparison file when one is attached
func (s *Server) handlePreview(c *gin.Context) {
	primary, name, err := s.readUpload(c, "dataset", true)
	if err != nil {
		s.respondError(c, err)
		return
	}
	resp := gin.H{"dataset": newPreview(primary, name, previewRows)}

	compare, compareName, err := s.readUpload(c, "compare", false)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if compare != nil {
		resp["compare"] = newPreview(compare, compareName, comparePreviewRows)
	}
	c.JSON(http.StatusOK, resp)
}

// handleGenerate runs the selected backend against the uploaded file
func (s *Server) handleGenerate(c *gin.Context) {
	primary, name, err := s.readUpload(c, "dataset", true)
	if err != nil {
		s.respondError(c, err)
		return
	}
	backend, err := report.ParseBackend(c.PostForm("backend"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	req := &report.Request{
		Backend: backend,
		Primary: primary,
		Target:  parseTarget(c.PostForm("target")),
	}
	if isChecked(c.PostForm("minimal")) {
		req.Mode = report.ModeMinimal
	}
	if backend == report.BackendComparative {
		compare, _, err := s.readUpload(c, "compare", false)
		if err != nil {
			s.respondError(c, err)
			return
		}
		req.Compare = compare
	}

	s.logger.Info("generating %s for %s", backend, name)
	art, err := s.reports.Generate(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newArtifactResponse(art))
}

func (s *Server) handleListArtifacts(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(c, apperrors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = n
	}

	artifacts, err := s.reports.Recent(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, newArtifactResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"artifacts": out})
}

// handleViewReport streams the report inline for the result iframe
func (s *Server) handleViewReport(c *gin.Context) {
	s.serveReport(c, "inline")
}

// handleDownloadReport streams the report as an attachment under its fixed name
func (s *Server) handleDownloadReport(c *gin.Context) {
	s.serveReport(c, "attachment")
}

func (s *Server) serveReport(c *gin.Context, disposition string) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	art, rc, err := s.reports.OpenReport(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, art.FileName))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		s.logger.Warn("streaming report %s failed: %v", id.Short(), err)
	}
}

// respondError maps an error to a status code and kind-specific guidance
func (s *Server) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":    err.Error(),
		"code":     apperrors.GetCode(err),
		"guidance": apperrors.UserGuidance(err),
	})
}

// parseTarget treats the "None" picker entry and blanks as no target
func parseTarget(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == noTarget {
		return ""
	}
	return v
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
