package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"edadash/app"
	"edadash/domain/report"
	"edadash/internal"
	"edadash/ports"
	"edadash/ui/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// Options holds the shell settings taken from configuration
type Options struct {
	MaxUploadMB int
	GinMode     string
}

// Server is the dashboard web shell: upload, preview, backend selection and
// report display
type Server struct {
	router    *gin.Engine
	reports   *app.ReportService
	reader    ports.TableReaderPort
	templates *template.Template
	maxUpload int64
	limitMB   int
	logger    *internal.Logger
}

// NewServer creates the web shell
func NewServer(reports *app.ReportService, reader ports.TableReaderPort, logger *internal.Logger, opts Options) (*Server, error) {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = 50
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"label": func(b report.Backend) string { return b.Label() },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		reports:   reports,
		reader:    reader,
		templates: templates,
		maxUpload: int64(opts.MaxUploadMB) << 20,
		limitMB:   opts.MaxUploadMB,
		logger:    logger.Named("UI"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api", middleware.LimitUploads(s.maxUpload))
	{
		api.POST("/preview", s.handlePreview)
		api.POST("/reports", s.handleGenerate)
		api.GET("/artifacts", s.handleListArtifacts)
	}

	s.router.GET("/reports/:id", s.handleViewReport)
	s.router.GET("/reports/:id/download", s.handleDownloadReport)
}

// Handler exposes the router for an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, templateName, data); err != nil {
		s.logger.Error("template %s failed: %v", templateName, err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
