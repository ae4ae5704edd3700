package quickstatements

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/errors"
)

// Sink accepts rows one at a time.
type Sink interface {
	WriteRow(row Row) error
}

// CSVWriter writes rows comma-joined with a trailing newline. It does no
// escaping; Template.Row has already wrapped text fields.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter creates a CSVWriter on w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// WriteRow implements Sink.
func (c *CSVWriter) WriteRow(row Row) error {
	if _, err := io.WriteString(c.w, strings.Join(row, ",")+"\n"); err != nil {
		return errors.WrapIO("write", "row", err)
	}
	return nil
}

// WriteAll writes every row to the sink, stopping at the first error.
func WriteAll(s Sink, rows []Row) error {
	for _, r := range rows {
		if err := s.WriteRow(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes rows to path, creating parent directories as needed.
func WriteFile(path string, rows []Row) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()
	return WriteAll(NewCSVWriter(f), rows)
}

// Filename builds an output file name such as "add_Dfr_Q1390_genus.csv".
func Filename(operation, subject, suffix string) string {
	parts := []string{operation, subject}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, "_") + ".csv"
}
