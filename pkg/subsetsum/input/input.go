// Package input loads number lists from files, checks them against
// data limits and exports solve results.
package input

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Numbers is a list of values together with the text each was parsed
// from.
type Numbers struct {
	Values []float64
	Text   []string
}

func (n *Numbers) Len() int {
	return len(n.Values)
}

// Decimals returns the number of fractional digits written for value i.
func (n *Numbers) Decimals(i int) int {
	return decimals(n.Text[i])
}

func (n *Numbers) add(text string) bool {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return false
	}
	n.Values = append(n.Values, v)
	n.Text = append(n.Text, text)
	return true
}

// FromValues builds Numbers from already parsed values.
func FromValues(values []float64) *Numbers {
	n := &Numbers{Values: values, Text: make([]string, len(values))}
	for i, v := range values {
		n.Text[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return n
}

var (
	commentLine = regexp.MustCompile(`^#.*`)
	numberLine  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// Parse reads one value per line. Comments start with '#'; blank and
// unparsable lines are skipped.
func Parse(r io.Reader) (*Numbers, error) {
	reader := bufio.NewReader(r)
	numbers := &Numbers{}
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error reading numbers: %w", err)
		}
		line = strings.TrimSpace(line)

		if line != "" && !commentLine.MatchString(line) && numberLine.MatchString(line) {
			numbers.add(line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return numbers, nil
}

// ParseCSV reads the first column of every record, or every field when
// there is a single record. Fields that are not numbers are skipped.
func ParseCSV(r io.Reader) (*Numbers, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading csv: %w", err)
	}
	return fromRecords(records), nil
}

// ParseXLSX reads the first worksheet of a workbook the way ParseCSV
// reads records.
func ParseXLSX(r io.Reader) (*Numbers, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Numbers{}, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheets[0], err)
	}
	return fromRecords(rows), nil
}

func fromRecords(records [][]string) *Numbers {
	numbers := &Numbers{}
	var fields []string
	if len(records) == 1 {
		fields = records[0]
	} else {
		for _, record := range records {
			if len(record) > 0 {
				fields = append(fields, record[0])
			}
		}
	}
	for _, field := range fields {
		numbers.add(strings.TrimSpace(field))
	}
	return numbers
}

// Load reads numbers from a .txt, .csv or .xlsx file.
func Load(path string) (*Numbers, error) {
	var parse func(io.Reader) (*Numbers, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", "":
		parse = Parse
	case ".csv":
		parse = ParseCSV
	case ".xlsx":
		parse = ParseXLSX
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening numbers file (%s): %w", path, err)
	}
	defer f.Close()

	numbers, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing numbers file (%s): %w", path, err)
	}
	return numbers, nil
}

func decimals(text string) int {
	text = strings.ToLower(text)
	if i := strings.IndexByte(text, 'e'); i >= 0 {
		// normalise exponent notation
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0
		}
		text = strconv.FormatFloat(v, 'f', -1, 64)
	}
	i := strings.IndexByte(text, '.')
	if i < 0 {
		return 0
	}
	return len(strings.TrimRight(text[i+1:], "0"))
}
