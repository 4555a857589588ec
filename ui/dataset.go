package ui

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"edadash/adapters/excel"
	"edadash/domain/table"
	apperrors "edadash/internal/errors"

	"github.com/gin-gonic/gin"
)

const (
	previewRows        = 10
	comparePreviewRows = 5
)

// ColumnPreview is one column of the dataset overview
type ColumnPreview struct {
	Name    string           `json:"name"`
	Type    table.ColumnType `json:"type"`
	Missing int              `json:"missing"`
}

// DatasetPreview is the overview shown after upload
type DatasetPreview struct {
	Name     string          `json:"name"`
	FileName string          `json:"file_name"`
	Rows     int             `json:"rows"`
	Columns  int             `json:"columns"`
	MemoryMB float64         `json:"memory_mb"`
	Fields   []ColumnPreview `json:"fields"`
	Header   []string        `json:"header"`
	Sample   [][]string      `json:"sample"`
}

func newPreview(t *table.Table, fileName string, rows int) *DatasetPreview {
	p := &DatasetPreview{
		Name:     t.Name,
		FileName: fileName,
		Rows:     t.RowCount(),
		Columns:  t.ColumnCount(),
		MemoryMB: float64(t.MemoryBytes()) / (1024 * 1024),
		Header:   t.ColumnNames(),
		Sample:   t.Head(rows),
	}
	for _, col := range t.Columns {
		p.Fields = append(p.Fields, ColumnPreview{Name: col.Name, Type: col.Type, Missing: col.MissingCount()})
	}
	return p
}

// readUpload parses the multipart file in field into a table. A missing
// optional field returns nil without error.
func (s *Server) readUpload(c *gin.Context, field string, required bool) (*table.Table, string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, "", apperrors.UploadTooLarge(s.limitMB)
		}
		if !required && errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", apperrors.InvalidInput(fmt.Sprintf("no file uploaded in %q", field))
	}
	defer file.Close()

	if err := s.validateUpload(header); err != nil {
		return nil, "", err
	}

	t, err := s.reader.ReadTable(header.Filename, file)
	if err != nil {
		return nil, "", err
	}
	return t, header.Filename, nil
}

func (s *Server) validateUpload(header *multipart.FileHeader) error {
	if header.Size > s.maxUpload {
		return apperrors.UploadTooLarge(s.limitMB)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, valid := range excel.SupportedExtensions {
		if ext == valid {
			return nil
		}
	}
	return apperrors.InvalidInput("Only Excel (.xlsx, .xls) and CSV (.csv) files are allowed")
}
