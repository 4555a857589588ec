package liveviewer

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"edadash/domain/core"
	"edadash/domain/table"
	"edadash/internal/analysis"
	apperrors "edadash/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

var gridTemplate = template.Must(template.ParseFS(embeddedFiles, "templates/grid.html"))

// ColumnInfo is one entry of /api/columns
type ColumnInfo struct {
	Name     string           `json:"name"`
	Type     table.ColumnType `json:"type"`
	Missing  int              `json:"missing"`
	Distinct int              `json:"distinct"`
}

type handler struct {
	viewer *Viewer
}

// newRouter builds the chi router serving one viewer
func newRouter(v *Viewer) http.Handler {
	h := &handler{viewer: v}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", h.handleGrid)
	r.Get("/health", h.handleHealth)
	r.Get("/api/rows", h.handleRows)
	r.Get("/api/columns", h.handleColumns)
	r.Get("/api/describe/{column}", h.handleDescribe)
	r.Get("/export.csv", h.handleExportCSV)
	r.Get("/export.xlsx", h.handleExportXLSX)
	return r
}

func (h *handler) handleGrid(w http.ResponseWriter, r *http.Request) {
	t := h.viewer.Table()
	data := map[string]interface{}{
		"Name":     t.Name,
		"Rows":     t.RowCount(),
		"Columns":  t.Columns,
		"PageSize": defaultPageSize,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := gridTemplate.Execute(w, data); err != nil {
		log.Printf("[LiveViewer] template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"id":     h.viewer.ID,
		"rows":   h.viewer.Table().RowCount(),
	})
}

func (h *handler) handleRows(w http.ResponseWriter, r *http.Request) {
	q, err := parseRowQuery(r.URL.Query().Get)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := Rows(h.viewer.Table(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handler) handleColumns(w http.ResponseWriter, r *http.Request) {
	t := h.viewer.Table()
	cols := make([]ColumnInfo, 0, t.ColumnCount())
	for _, col := range t.Columns {
		cols = append(cols, ColumnInfo{
			Name:     col.Name,
			Type:     col.Type,
			Missing:  col.MissingCount(),
			Distinct: col.DistinctCount(),
		})
	}
	writeJSON(w, http.StatusOK, cols)
}

func (h *handler) handleDescribe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "column")
	col, ok := h.viewer.Table().Column(name)
	if !ok {
		writeError(w, core.NewNotFoundError("column", name))
		return
	}
	writeJSON(w, http.StatusOK, analysis.Summarize(col, analysis.DefaultBins))
}

func (h *handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	t := h.viewer.Table()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(t.Name, "csv"))
	if err := WriteCSV(w, t); err != nil {
		log.Printf("[LiveViewer] csv export failed: %v", err)
	}
}

func (h *handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	t := h.viewer.Table()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(t.Name, "xlsx"))
	if err := WriteXLSX(w, t); err != nil {
		log.Printf("[LiveViewer] xlsx export failed: %v", err)
	}
}

func attachment(name, ext string) string {
	name = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "data"
	}
	return fmt.Sprintf(`attachment; filename="%s.%s"`, name, ext)
}

// writeJSON marshals v before writing the header; encode failures answer 500
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("[LiveViewer] encode failed: %v", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]interface{}{"error": "failed to encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.HTTPStatus(err), map[string]interface{}{"error": err.Error()})
}
