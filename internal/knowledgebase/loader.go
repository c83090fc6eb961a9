// internal/knowledgebase/loader.go
package knowledgebase

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"career-workers/internal/models"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported knowledge base format")
	ErrNoSource          = errors.New("no knowledge base file found")
)

// LoadFile reads a knowledge base file, picking the parser from the extension.
// Fully blank rows are skipped.
func LoadFile(path string) ([]models.KnowledgeBaseRow, error) {
	var (
		records []map[string]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	case ".csv":
		records, err = readCSV(path)
	case ".yaml", ".yml":
		records, err = readYAML(path)
	case ".json":
		records, err = readJSON(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rows := make([]models.KnowledgeBaseRow, 0, len(records))
	for _, rec := range records {
		row := RowFromRecord(rec)
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadFirst tries each path in order and returns the rows of the first readable one
// together with that path.
func LoadFirst(paths []string) ([]models.KnowledgeBaseRow, string, error) {
	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			errs = append(errs, err)
			continue
		}
		rows, err := LoadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return rows, p, nil
	}
	if len(errs) == 0 {
		return nil, "", ErrNoSource
	}
	return nil, "", fmt.Errorf("%w: %v", ErrNoSource, errors.Join(errs...))
}

func readXLSX(path string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []map[string]string{}, nil
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return gridToRecords(grid), nil
}

func readCSV(path string) ([]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var grid [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		grid = append(grid, rec)
	}
	return gridToRecords(grid), nil
}

// gridToRecords treats the first row as the header. Short rows are padded with
// empty strings; cells under a blank header are dropped.
func gridToRecords(grid [][]string) []map[string]string {
	if len(grid) == 0 {
		return []map[string]string{}
	}
	header := grid[0]
	out := make([]map[string]string, 0, len(grid)-1)
	for _, line := range grid[1:] {
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if strings.TrimSpace(h) == "" {
				continue
			}
			if i < len(line) {
				rec[h] = line[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

func readYAML(path string) ([]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return stringifyRecords(raw), nil
}

func readJSON(path string) ([]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return stringifyRecords(raw), nil
}

func stringifyRecords(raw []map[string]interface{}) []map[string]string {
	out := make([]map[string]string, 0, len(raw))
	for _, m := range raw {
		rec := make(map[string]string, len(m))
		for k, v := range m {
			// rows written by SaveFile nest unknown columns under "extra"
			if nested, ok := v.(map[string]interface{}); ok && k == "extra" {
				for nk, nv := range nested {
					rec[nk] = stringify(nv)
				}
				continue
			}
			rec[k] = stringify(v)
		}
		out = append(out, rec)
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if s := stringify(p); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

// SaveFile writes rows in the format named by the path extension.
func SaveFile(path string, rows []models.KnowledgeBaseRow) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeXLSX(path, rows)
	case ".csv":
		return writeCSV(path, rows)
	case ".yaml", ".yml":
		data, err := yaml.Marshal(rows)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	case ".json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func writeXLSX(path string, rows []models.KnowledgeBaseRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers, keys := exportHeaders(rows)

	if err := setSheetRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setSheetRow(f, sheet, i+2, recordValues(row, keys)); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func setSheetRow(f *excelize.File, sheet string, line int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func writeCSV(path string, rows []models.KnowledgeBaseRow) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	headers, keys := exportHeaders(rows)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(recordValues(row, keys)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
