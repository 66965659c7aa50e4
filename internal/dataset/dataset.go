// Package dataset loads labelled classifier outputs from CSV files.
//
// A file may start with "# Key: value" comment lines, followed by a CSV
// header whose first column is "label":
//
//	# Name: iris virginica vs versicolor
//	# Source: logistic regression, seed 42
//	# Positive: virginica
//	label,score
//	1,0.93
//	0,0.12
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoRows is returned for a file with a header row but no data.
var ErrNoRows = errors.New("dataset: no data rows")

// Header contains metadata parsed from the comment lines at the top of a file.
type Header struct {
	Name     string
	Source   string
	Positive string // name of the positive class
}

// ParseHeader extracts metadata from leading comment lines and returns the
// remaining text. Unknown keys are ignored.
func ParseHeader(text string) (Header, string) {
	var h Header
	rest := text

	for rest != "" {
		line, after, _ := strings.Cut(rest, "\n")
		trimmed := strings.TrimSpace(line)

		if !strings.HasPrefix(trimmed, "#") {
			if trimmed == "" {
				rest = after
				continue
			}
			break
		}

		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
		if value, ok := strings.CutPrefix(trimmed, "Name:"); ok {
			h.Name = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(trimmed, "Source:"); ok {
			h.Source = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(trimmed, "Positive:"); ok {
			h.Positive = strings.TrimSpace(value)
		}
		rest = after
	}

	return h, rest
}

// Dataset is one file of labelled rows.
type Dataset struct {
	ID      string // filename without extension
	Header  Header
	Columns []string // value columns, label excluded
	Truth   []int
	Rows    [][]float64
}

// Parse reads a dataset from text. id names it in errors and reports.
func Parse(id, text string) (*Dataset, error) {
	header, body := ParseHeader(text)

	r := csv.NewReader(strings.NewReader(body))
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("missing header row")
	}

	cols := records[0]
	if len(cols) < 2 {
		return nil, fmt.Errorf("header has %d columns, want label plus at least one value", len(cols))
	}
	if !strings.EqualFold(strings.TrimSpace(cols[0]), "label") {
		return nil, fmt.Errorf("first column is %q, want \"label\"", cols[0])
	}
	if len(records) == 1 {
		return nil, ErrNoRows
	}

	ds := &Dataset{
		ID:      id,
		Header:  header,
		Columns: trimAll(cols[1:]),
		Truth:   make([]int, 0, len(records)-1),
		Rows:    make([][]float64, 0, len(records)-1),
	}
	if ds.Header.Name == "" {
		ds.Header.Name = id
	}

	for i, rec := range records[1:] {
		line := i + 2 // 1-based, after the header row
		label, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse label: %w", line, err)
		}
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("row %d: label %d is not 0 or 1", line, label)
		}

		values := make([]float64, len(rec)-1)
		for j, field := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse %s: %w", line, ds.Columns[j], err)
			}
			if math.IsNaN(v) {
				return nil, fmt.Errorf("row %d: %s is NaN", line, ds.Columns[j])
			}
			values[j] = v
		}

		ds.Truth = append(ds.Truth, label)
		ds.Rows = append(ds.Rows, values)
	}

	return ds, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Truth)
}

// Column returns the named value column.
func (d *Dataset) Column(name string) ([]float64, error) {
	for j, c := range d.Columns {
		if strings.EqualFold(c, name) {
			out := make([]float64, len(d.Rows))
			for i, row := range d.Rows {
				out[i] = row[j]
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%s: no column %q", d.ID, name)
}

// Scores returns the positive-class probabilities: the only value column,
// or the one named "score".
func (d *Dataset) Scores() ([]float64, error) {
	return d.single("score")
}

// Predictions returns hard labels: the only value column, or the one named
// "prediction". Every value must be exactly 0 or 1.
func (d *Dataset) Predictions() ([]int, error) {
	values, err := d.single("prediction")
	if err != nil {
		return nil, err
	}

	pred := make([]int, len(values))
	for i, v := range values {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("%s: row %d: prediction %v is not 0 or 1", d.ID, i+2, v)
		}
		pred[i] = int(v)
	}
	return pred, nil
}

// Features returns every value column as float32 model input.
func (d *Dataset) Features() [][]float32 {
	out := make([][]float32, len(d.Rows))
	for i, row := range d.Rows {
		f := make([]float32, len(row))
		for j, v := range row {
			f[j] = float32(v)
		}
		out[i] = f
	}
	return out
}

func (d *Dataset) single(preferred string) ([]float64, error) {
	if len(d.Columns) == 1 {
		return d.Column(d.Columns[0])
	}
	if values, err := d.Column(preferred); err == nil {
		return values, nil
	}
	return nil, fmt.Errorf("%s: %d value columns and none named %q", d.ID, len(d.Columns), preferred)
}

// Load reads and parses a dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	ds, err := Parse(id, string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", base, err)
	}
	return ds, nil
}

// LoadDir loads all .csv files from a directory, in name order.
func LoadDir(dir string) ([]*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var sets []*Dataset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".csv" {
			continue
		}

		ds, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		sets = append(sets, ds)
	}

	return sets, nil
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
