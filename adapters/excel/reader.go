package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DataReader decodes Excel and CSV exports into column-addressable rows.
// The pipeline consumes the rows fully materialized; no streaming.
//
// Two keying modes exist because the two sheet families differ: machine
// exports (route planner, fleet management) have no usable header row and
// are read by column letter; status exports are read by header name from
// their first row, the way a human-readable sheet is meant to be read.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given file, picking the decoder
// from the file extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadRows decodes the first sheet with every cell keyed by its column
// letter ("A", "B", ..., "AA"). Used for the import path.
func (r *DataReader) ReadRows() ([]Row, error) {
	raw, err := r.read()
	if err != nil {
		return nil, err
	}
	rows := buildLetterRows(raw)
	log.Printf("[DataReader] Decoded %d letter-keyed rows from %s", len(rows), filepath.Base(r.filePath))
	return rows, nil
}

// ReadNamedRows decodes the first sheet treating its first row as headers;
// data rows are keyed by trimmed header name. Used for the status path.
func (r *DataReader) ReadNamedRows() ([]Row, error) {
	raw, err := r.read()
	if err != nil {
		return nil, err
	}
	rows := buildNamedRows(raw)
	log.Printf("[DataReader] Decoded %d header-keyed rows from %s", len(rows), filepath.Base(r.filePath))
	return rows, nil
}

// ReadRowsFrom decodes spreadsheet bytes from a reader into letter-keyed
// rows; used by the upload handlers which never touch disk.
func ReadRowsFrom(src io.Reader, name string) ([]Row, error) {
	raw, err := readStream(src, name)
	if err != nil {
		return nil, err
	}
	return buildLetterRows(raw), nil
}

// ReadNamedRowsFrom decodes spreadsheet bytes from a reader into
// header-keyed rows.
func ReadNamedRowsFrom(src io.Reader, name string) ([]Row, error) {
	raw, err := readStream(src, name)
	if err != nil {
		return nil, err
	}
	return buildNamedRows(raw), nil
}

func (r *DataReader) read() ([][]string, error) {
	log.Printf("[DataReader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	default:
		return r.readExcel()
	}
}

func readStream(src io.Reader, name string) ([][]string, error) {
	if strings.ToLower(filepath.Ext(name)) == ".csv" {
		reader := csv.NewReader(src)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV stream: %w", err)
		}
		return records, nil
	}

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel stream: %w", err)
	}
	defer f.Close()

	return readFirstSheet(f)
}

func (r *DataReader) readExcel() ([][]string, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	raw, err := readFirstSheet(f)
	if err != nil {
		return nil, err
	}
	log.Printf("[DataReader] Excel sheet read in %.2fms (%d rows)",
		float64(time.Since(start).Nanoseconds())/1e6, len(raw))
	return raw, nil
}

func (r *DataReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return records, nil
}

func readFirstSheet(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func buildLetterRows(raw [][]string) []Row {
	rows := make([]Row, 0, len(raw))
	for _, cells := range raw {
		row := make(Row, len(cells))
		for col, cell := range cells {
			if cell == "" {
				continue
			}
			row[ColumnLetter(col)] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

func buildNamedRows(raw [][]string) []Row {
	if len(raw) < 2 {
		return []Row{}
	}

	headers := make([]string, len(raw[0]))
	for i, cell := range raw[0] {
		headers[i] = strings.TrimSpace(cell)
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(Row, len(cells))
		for col, cell := range cells {
			if cell == "" || col >= len(headers) || headers[col] == "" {
				continue
			}
			row[headers[col]] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

// ColumnLetter converts a 0-based column index to its Excel letter code
// (A, B, ..., Z, AA, AB, ...).
func ColumnLetter(colIdx int) string {
	result := ""
	colIdx++
	for colIdx > 0 {
		colIdx--
		result = string(rune('A'+(colIdx%26))) + result
		colIdx /= 26
	}
	return result
}
