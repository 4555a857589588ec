package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"edadash/domain/core"
)

// Format is an uploaded file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// SupportedExtensions lists the extensions the upload form accepts
var SupportedExtensions = []string{".csv", ".xlsx", ".xls"}

// DetectFormat picks the format from a file name's extension
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".tsv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	return "", core.NewInvalidInputError(fmt.Sprintf("unsupported file type %q (expected CSV or Excel)", filepath.Ext(name)), nil)
}
