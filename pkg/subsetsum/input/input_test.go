package input_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
	"github.com/operator-framework/subsetsum/pkg/subsetsum/input"
)

var _ = Describe("Parse", func() {
	It("reads one value per line and skips the rest", func() {
		numbers, err := input.Parse(strings.NewReader("# prices\n1\n  2.5 \nabc\n\n-3.25\n4e1\n1,5\n.5"))
		Expect(err).ToNot(HaveOccurred())
		Expect(numbers.Values).To(Equal([]float64{1, 2.5, -3.25, 40, 0.5}))
		Expect(numbers.Text).To(Equal([]string{"1", "2.5", "-3.25", "4e1", ".5"}))
	})

	It("returns nothing for an empty stream", func() {
		numbers, err := input.Parse(strings.NewReader(""))
		Expect(err).ToNot(HaveOccurred())
		Expect(numbers.Len()).To(BeZero())
	})
})

var _ = Describe("ParseCSV", func() {
	It("reads the first column", func() {
		numbers, err := input.ParseCSV(strings.NewReader("value,label\n1.5,a\n2,b\nx,c\n3,d\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(numbers.Values).To(Equal([]float64{1.5, 2, 3}))
	})

	It("reads a single row", func() {
		numbers, err := input.ParseCSV(strings.NewReader("1, 2, 3.75, , 4\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(numbers.Values).To(Equal([]float64{1, 2, 3.75, 4}))
	})
})

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	It("picks the parser by extension", func() {
		numbers, err := input.Load(write("numbers.txt", "1\n2\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(numbers.Values).To(Equal([]float64{1, 2}))

		numbers, err = input.Load(write("numbers.csv", "4,5,6\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(numbers.Values).To(Equal([]float64{4, 5, 6}))
	})

	It("reads the first column of a workbook", func() {
		f := excelize.NewFile()
		defer f.Close()
		for i, v := range []any{1.23, 4.56, "note", 7.89, 10} {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			Expect(err).ToNot(HaveOccurred())
			Expect(f.SetCellValue("Sheet1", cell, v)).To(Succeed())
		}
		Expect(f.SetCellValue("Sheet1", "B1", 99)).To(Succeed())
		path := filepath.Join(dir, "numbers.xlsx")
		Expect(f.SaveAs(path)).To(Succeed())

		numbers, err := input.Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(numbers.Values).To(Equal([]float64{1.23, 4.56, 7.89, 10}))
		Expect(numbers.Decimals(1)).To(Equal(2))
	})

	It("reads a single workbook row", func() {
		f := excelize.NewFile()
		defer f.Close()
		Expect(f.SetSheetRow("Sheet1", "A1", &[]any{3, 2.5, 7})).To(Succeed())
		path := filepath.Join(dir, "row.xlsx")
		Expect(f.SaveAs(path)).To(Succeed())

		numbers, err := input.Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(numbers.Values).To(Equal([]float64{3, 2.5, 7}))
	})

	It("fails on a file that is not a workbook", func() {
		_, err := input.Load(write("broken.xlsx", "1\n2\n"))
		Expect(err).To(HaveOccurred())
		Expect(err).ToNot(MatchError(input.ErrUnsupportedFormat))
	})

	It("rejects unknown formats", func() {
		_, err := input.Load(write("numbers.ods", ""))
		Expect(err).To(MatchError(input.ErrUnsupportedFormat))
	})

	It("fails on missing files", func() {
		_, err := input.Load(filepath.Join(dir, "missing.txt"))
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})
})

var _ = Describe("Validate", func() {
	values := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(i) + 0.25
		}
		return out
	}

	It("accepts data within the default limits", func() {
		Expect(input.Validate(input.FromValues(values(10)), input.DefaultLimits())).To(Succeed())
		Expect(input.Validate(input.FromValues(values(200)), input.DefaultLimits())).To(Succeed())
	})

	DescribeTable("rejects data outside the limits",
		func(numbers *input.Numbers, field string) {
			err := input.Validate(numbers, input.DefaultLimits())
			var verr input.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Field).To(Equal(field))
		},
		Entry("empty", input.FromValues(nil), "count"),
		Entry("too few", input.FromValues(values(9)), "count"),
		Entry("too many", input.FromValues(values(201)), "count"),
		Entry("too precise", input.FromValues(append(values(10), 1.125)), "value 10"),
	)

	It("counts decimals as written", func() {
		numbers, err := input.Parse(strings.NewReader("1.50\n2.125\n3e-2\n7"))
		Expect(err).ToNot(HaveOccurred())
		Expect(numbers.Decimals(0)).To(Equal(1))
		Expect(numbers.Decimals(1)).To(Equal(3))
		Expect(numbers.Decimals(2)).To(Equal(2))
		Expect(numbers.Decimals(3)).To(Equal(0))
	})

	It("honours custom limits", func() {
		limits := input.Limits{MinCount: 1, MaxCount: 3, MaxDecimals: 3}
		Expect(input.Validate(input.FromValues([]float64{1.125}), limits)).To(Succeed())
	})
})

var _ = Describe("WriteCSV", func() {
	It("marks the values selected by each solution", func() {
		var buf bytes.Buffer
		target := 5.5
		err := input.WriteCSV(&buf, []float64{1.5, 4, 2, 3.5}, subsetsum.ResultSet{{0, 1}, {2, 3}}, &target)
		Expect(err).ToNot(HaveOccurred())
		Expect(buf.String()).To(Equal(strings.Join([]string{
			"value,solution 1,solution 2,selected",
			"1.5,1,0,1",
			"4,1,0,1",
			"2,0,1,1",
			"3.5,0,1,1",
			"sum,5.5,5.5,",
			"difference,0,0,",
			"",
		}, "\n")))
	})

	It("writes only the values without solutions", func() {
		var buf bytes.Buffer
		Expect(input.WriteCSV(&buf, []float64{1, 2}, nil, nil)).To(Succeed())
		Expect(buf.String()).To(Equal("value,selected\n1,0\n2,0\n"))
	})
})

var _ = Describe("WriteXLSX", func() {
	It("writes the report layout and highlights selected rows", func() {
		var buf bytes.Buffer
		target := 5.5
		err := input.WriteXLSX(&buf, []float64{1.5, 4, 2, 3.5, 9}, subsetsum.ResultSet{{0, 1}, {2, 3}}, &target)
		Expect(err).ToNot(HaveOccurred())

		f, err := excelize.OpenReader(&buf)
		Expect(err).ToNot(HaveOccurred())
		defer f.Close()
		Expect(f.GetSheetList()).To(Equal([]string{input.ResultSheet}))

		rows, err := f.GetRows(input.ResultSheet, excelize.Options{RawCellValue: true})
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(Equal([][]string{
			{"value", "solution 1", "solution 2", "selected"},
			{"1.5", "1", "0", "1"},
			{"4", "1", "0", "1"},
			{"2", "0", "1", "1"},
			{"3.5", "0", "1", "1"},
			{"9", "0", "0", "0"},
			{"sum", "5.5", "5.5"},
			{"difference", "0", "0"},
		}))

		selected, err := f.GetCellStyle(input.ResultSheet, "A2")
		Expect(err).ToNot(HaveOccurred())
		Expect(selected).ToNot(BeZero())
		for _, cell := range []string{"B2", "A5", "B5"} {
			Expect(f.GetCellStyle(input.ResultSheet, cell)).To(Equal(selected), cell)
		}
		for _, cell := range []string{"C2", "A6", "B6", "A1"} {
			Expect(f.GetCellStyle(input.ResultSheet, cell)).To(BeZero(), cell)
		}
	})
})
