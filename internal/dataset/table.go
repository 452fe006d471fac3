package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

var headerFolder = cases.Fold()

// canonicalKey normalizes a column name for lookup: Unicode case folding plus
// removal of spaces, underscores, and dashes, so "App Name", "app_name", and
// "APP-NAME" all address the same column.
func canonicalKey(name string) string {
	folded := headerFolder.String(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch r {
		case ' ', '\t', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Row is one catalog entry with named fields. Field access is
// case-insensitive and tolerant of spacing/underscore differences.
type Row struct {
	columns []string
	values  []string
	index   map[string]int
}

// Get returns the value for the named column, or "" when absent.
func (r Row) Get(name string) string {
	if idx, ok := r.index[canonicalKey(name)]; ok && idx < len(r.values) {
		return r.values[idx]
	}
	return ""
}

// First returns the value of the first present column among names.
func (r Row) First(names ...string) string {
	for _, name := range names {
		if idx, ok := r.index[canonicalKey(name)]; ok && idx < len(r.values) {
			if value := r.values[idx]; value != "" {
				return value
			}
		}
	}
	return ""
}

// Values returns the row's fields in column order.
func (r Row) Values() []string {
	cp := make([]string, len(r.values))
	copy(cp, r.values)
	return cp
}

// Table is an ordered, immutable CSV table.
type Table struct {
	Path    string
	Columns []string

	rows    [][]string
	colIdx  map[string]int
}

// Len reports the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th data row (0-based).
func (t *Table) Row(i int) Row {
	return Row{columns: t.Columns, values: t.rows[i], index: t.colIdx}
}

// ReadTable loads a CSV file into memory. Short records are padded so every
// row has one value per header column.
func ReadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read table %s: missing header row", path)
	}

	columns := records[0]
	colIdx := make(map[string]int, len(columns))
	for i, name := range columns {
		key := canonicalKey(name)
		if _, exists := colIdx[key]; !exists {
			colIdx[key] = i
		}
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, record)
			record = padded
		}
		rows = append(rows, record[:len(columns)])
	}

	return &Table{Path: path, Columns: columns, rows: rows, colIdx: colIdx}, nil
}

// DiscoverCSV lists the CSV files directly inside dir, sorted by name.
// Files that look like review outputs of a previous run are skipped so
// directory mode never re-reviews its own output.
func DiscoverCSV(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		if strings.HasSuffix(strings.TrimSuffix(name, filepath.Ext(name)), ReviewSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// ReviewSuffix is appended to an input's base name to derive its default
// review output path.
const ReviewSuffix = "_review"

// ReviewPath derives the default output path for an input table.
func ReviewPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ReviewSuffix + ".csv"
}
