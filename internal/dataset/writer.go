package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Writer appends decision records to an output CSV. Every Append flushes to
// the underlying file so prior progress survives a crash mid-run.
type Writer struct {
	path string
	file *os.File
	csv  *csv.Writer
}

// NewWriter opens the output table for writing. In append mode an existing
// file keeps its contents and no header is written; otherwise the file is
// truncated and the header row written immediately.
func NewWriter(path string, columns []string, appendMode bool) (*Writer, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}

	w := &Writer{path: path, file: file, csv: csv.NewWriter(file)}

	writeHeader := !appendMode
	if appendMode {
		info, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("stat output %s: %w", path, err)
		}
		writeHeader = info.Size() == 0
	}
	if writeHeader {
		if err := w.Append(columns); err != nil {
			file.Close()
			return nil, err
		}
	}
	return w, nil
}

// Path returns the output file location.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one record and flushes it to disk.
func (w *Writer) Append(record []string) error {
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("write output %s: %w", w.path, err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush output %s: %w", w.path, err)
	}
	return nil
}

// Close syncs and closes the output file.
func (w *Writer) Close() error {
	w.csv.Flush()
	flushErr := w.csv.Error()
	if err := w.file.Sync(); err != nil && flushErr == nil {
		flushErr = err
	}
	if err := w.file.Close(); err != nil && flushErr == nil {
		flushErr = err
	}
	return flushErr
}
