package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"genml/domain/genml"

	"github.com/xuri/excelize/v2"
)

// ReaderConfig maps spreadsheet columns onto the estimation dataset. Every
// column not named as outcome, treatment or propensity becomes a feature
// unless FeatureColumns restricts the set explicitly.
type ReaderConfig struct {
	FilePath         string
	Sheet            string   // defaults to "Sheet1" for xlsx inputs
	OutcomeColumn    string   // defaults to "y"
	TreatmentColumn  string   // defaults to "d"
	PropensityColumn string   // defaults to "p"
	FeatureColumns   []string // optional explicit feature selection
}

// DatasetReader loads an estimation dataset from an .xlsx or .csv file.
type DatasetReader struct {
	config ReaderConfig
}

// NewDatasetReader creates a reader for the configured file.
func NewDatasetReader(config ReaderConfig) *DatasetReader {
	if config.Sheet == "" {
		config.Sheet = "Sheet1"
	}
	if config.OutcomeColumn == "" {
		config.OutcomeColumn = "y"
	}
	if config.TreatmentColumn == "" {
		config.TreatmentColumn = "d"
	}
	if config.PropensityColumn == "" {
		config.PropensityColumn = "p"
	}
	return &DatasetReader{config: config}
}

// ReadDataset parses the file into a validated dataset.
func (r *DatasetReader) ReadDataset() (genml.Dataset, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(r.config.FilePath)) {
	case ".xlsx":
		rows, err = r.readExcelRows()
	case ".csv":
		rows, err = r.readCSVRows()
	default:
		return genml.Dataset{}, fmt.Errorf("unsupported file type: %s", r.config.FilePath)
	}
	if err != nil {
		return genml.Dataset{}, err
	}
	if len(rows) < 2 {
		return genml.Dataset{}, fmt.Errorf("file must have a header row and at least one data row")
	}

	return r.buildDataset(rows)
}

func (r *DatasetReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.config.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.config.Sheet, err)
	}
	return rows, nil
}

func (r *DatasetReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *DatasetReader) buildDataset(rows [][]string) (genml.Dataset, error) {
	header := rows[0]
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	yCol, ok := colIndex[r.config.OutcomeColumn]
	if !ok {
		return genml.Dataset{}, fmt.Errorf("outcome column %q not found", r.config.OutcomeColumn)
	}
	dCol, ok := colIndex[r.config.TreatmentColumn]
	if !ok {
		return genml.Dataset{}, fmt.Errorf("treatment column %q not found", r.config.TreatmentColumn)
	}
	pCol, ok := colIndex[r.config.PropensityColumn]
	if !ok {
		return genml.Dataset{}, fmt.Errorf("propensity column %q not found", r.config.PropensityColumn)
	}

	featureCols, err := r.resolveFeatureColumns(header, colIndex, yCol, dCol, pCol)
	if err != nil {
		return genml.Dataset{}, err
	}

	n := len(rows) - 1
	ds := genml.Dataset{
		X: make([][]float64, 0, n),
		Y: make([]float64, 0, n),
		D: make([]float64, 0, n),
		P: make([]float64, 0, n),
	}

	for rowNum, row := range rows[1:] {
		y, err := parseCell(row, yCol, r.config.OutcomeColumn, rowNum)
		if err != nil {
			return genml.Dataset{}, err
		}
		d, err := parseCell(row, dCol, r.config.TreatmentColumn, rowNum)
		if err != nil {
			return genml.Dataset{}, err
		}
		p, err := parseCell(row, pCol, r.config.PropensityColumn, rowNum)
		if err != nil {
			return genml.Dataset{}, err
		}

		features := make([]float64, len(featureCols))
		for j, col := range featureCols {
			v, err := parseCell(row, col, header[col], rowNum)
			if err != nil {
				return genml.Dataset{}, err
			}
			features[j] = v
		}

		ds.X = append(ds.X, features)
		ds.Y = append(ds.Y, y)
		ds.D = append(ds.D, d)
		ds.P = append(ds.P, p)
	}

	if err := ds.Validate(); err != nil {
		return genml.Dataset{}, err
	}
	return ds, nil
}

func (r *DatasetReader) resolveFeatureColumns(header []string, colIndex map[string]int, yCol, dCol, pCol int) ([]int, error) {
	if len(r.config.FeatureColumns) > 0 {
		cols := make([]int, len(r.config.FeatureColumns))
		for i, name := range r.config.FeatureColumns {
			idx, ok := colIndex[name]
			if !ok {
				return nil, fmt.Errorf("feature column %q not found", name)
			}
			cols[i] = idx
		}
		return cols, nil
	}

	var cols []int
	for i := range header {
		if i != yCol && i != dCol && i != pCol {
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no feature columns left after reserving outcome, treatment and propensity")
	}
	return cols, nil
}

func parseCell(row []string, col int, name string, rowNum int) (float64, error) {
	if col >= len(row) {
		return 0, fmt.Errorf("row %d is missing column %q", rowNum+2, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d column %q: %w", rowNum+2, name, err)
	}
	return v, nil
}
