package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/resolutions/internal/core"
)

// Format identifies a tabular file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from a file name's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, filepath.Ext(path))
	}
}
