package sheet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/resolutions/internal/core"
)

// Encode writes t to w in the given format.
func Encode(w io.Writer, format Format, t *core.Table) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, t)
	case FormatXLSX:
		return writeXLSX(w, t)
	default:
		return fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
	}
}

// Write saves t at path, choosing the format from the extension. output
// names the table in errors ("final", "unmatched", "duplicates"). The file
// is replaced atomically; failures are returned as *core.WriteError.
func Write(path, output string, t *core.Table) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return &core.WriteError{Output: output, Path: path, Err: err}
	}

	if err := writeAtomic(path, func(w io.Writer) error {
		return Encode(w, format, t)
	}); err != nil {
		return &core.WriteError{Output: output, Path: path, Err: err}
	}
	return nil
}

// writeAtomic writes to a temp file in the destination directory and
// renames it over dest once fully flushed and synced.
func writeAtomic(dest string, encode func(io.Writer) error) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err := encode(bw); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	_ = os.Chmod(tmpPath, 0o644)

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
