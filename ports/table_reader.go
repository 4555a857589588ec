package ports

import (
	"io"

	"edadash/domain/table"
)

// TableReaderPort parses an uploaded file into a table. The file name is used
// only to pick the format.
type TableReaderPort interface {
	ReadTable(name string, r io.Reader) (*table.Table, error)
}
