package adapter_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
	"github.com/operator-framework/subsetsum/pkg/subsetsum/adapter"
)

var _ = Describe("ToFixed", func() {
	DescribeTable("scales decimal values",
		func(v float64, scale int64, expected int64) {
			got, err := adapter.ToFixed(v, scale)
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(expected))
		},
		Entry("whole", 15.0, int64(100), int64(1500)),
		Entry("two decimals", 1.23, int64(100), int64(123)),
		Entry("binary fraction rounding", 0.29, int64(100), int64(29)),
		Entry("negative", -4.05, int64(100), int64(-405)),
		Entry("coarse scale", 8.5, int64(1), int64(9)),
	)

	It("rejects values that are not finite", func() {
		_, err := adapter.ToFixed(math.NaN(), 100)
		Expect(err).To(HaveOccurred())
		_, err = adapter.ToFixed(math.Inf(1), 100)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a non positive scale", func() {
		_, err := adapter.ToFixed(1, 0)
		Expect(err).To(MatchError(adapter.ErrInvalidScale))
	})

	It("round trips through FromFixed", func() {
		Expect(adapter.FromFixed(1234, 100)).To(BeNumerically("~", 12.34, 1e-9))
	})
})

var _ = Describe("Flatten", func() {
	It("encodes solutions as rows, lengths and data", func() {
		flat := adapter.Flatten(subsetsum.ResultSet{{0, 4}, {}, {1, 2, 3}})
		Expect(flat.Rows).To(Equal(3))
		Expect(flat.Cols).To(Equal([]uint32{2, 0, 3}))
		Expect(flat.Data).To(Equal([]uint32{0, 4, 1, 2, 3}))

		back, err := adapter.Unflatten(flat)
		Expect(err).ToNot(HaveOccurred())
		Expect(back).To(Equal(subsetsum.ResultSet{{0, 4}, {}, {1, 2, 3}}))
	})

	It("encodes an empty result", func() {
		flat := adapter.Flatten(nil)
		Expect(flat.Rows).To(BeZero())
		Expect(flat.Cols).To(BeEmpty())
		Expect(flat.Data).To(BeEmpty())
	})

	It("rejects inconsistent buffers", func() {
		_, err := adapter.Unflatten(adapter.Flat{Rows: 2, Cols: []uint32{1}})
		Expect(err).To(HaveOccurred())
		_, err = adapter.Unflatten(adapter.Flat{Rows: 1, Cols: []uint32{3}, Data: []uint32{1}})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Pool", func() {
	It("defaults to the CPU count", func() {
		Expect(adapter.NumCPU()).To(BeNumerically(">", 0))
		pool := &adapter.Pool{}
		Expect(pool.Size()).To(Equal(adapter.NumCPU()))
	})

	It("accepts the size only once", func() {
		pool := &adapter.Pool{}
		Expect(pool.SetSize(3)).To(Succeed())
		Expect(pool.Size()).To(Equal(3))
		Expect(pool.SetSize(5)).To(MatchError(adapter.ErrPoolInitialized))
		Expect(pool.Size()).To(Equal(3))
	})

	It("is fixed after the first solve", func() {
		pool := &adapter.Pool{}
		s, err := pool.Solver()
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Workers()).To(Equal(adapter.NumCPU()))
		Expect(pool.SetSize(2)).To(MatchError(adapter.ErrPoolInitialized))
	})

	It("rejects an invalid size without initializing", func() {
		pool := &adapter.Pool{}
		Expect(pool.SetSize(0)).ToNot(Succeed())
		Expect(pool.SetSize(2)).To(Succeed())
	})
})

var _ = Describe("Solve", func() {
	var pool *adapter.Pool

	BeforeEach(func() {
		pool = &adapter.Pool{}
	})

	It("solves decimal inputs", func() {
		flat, err := adapter.Solve(context.Background(), pool, adapter.Request{
			Numbers:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			Target:    15,
			FindAll:   true,
			Algorithm: "auto",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(flat.Rows).To(Equal(20))
		Expect(flat.Cols).To(HaveLen(20))
	})

	It("misses a fractional target without tolerance", func() {
		flat, err := adapter.Solve(context.Background(), pool, adapter.Request{
			Numbers: []float64{1, 2, 3, 4, 5},
			Target:  8.5,
			FindAll: true,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(flat.Rows).To(BeZero())
	})

	It("reports invalid input with a status code", func() {
		_, err := adapter.Solve(context.Background(), pool, adapter.Request{
			Numbers:   []float64{1},
			Target:    1,
			Tolerance: -0.5,
		})
		var status *adapter.StatusError
		Expect(errors.As(err, &status)).To(BeTrue())
		Expect(status.Code).To(Equal(adapter.StatusInvalidInput))
		Expect(err).To(MatchError(subsetsum.ErrNegativeTolerance))
	})

	It("reports an unreadable algorithm name", func() {
		_, err := adapter.Solve(context.Background(), pool, adapter.Request{
			Numbers:   []float64{1},
			Algorithm: "\xff\xfe",
		})
		var status *adapter.StatusError
		Expect(errors.As(err, &status)).To(BeTrue())
		Expect(status.Code).To(Equal(adapter.StatusInvalidAlgorithm))
	})

	It("falls back to auto for unknown names", func() {
		flat, err := adapter.Solve(context.Background(), pool, adapter.Request{
			Numbers:   []float64{0.5, 0.25, 0.75},
			Target:    1,
			FindAll:   true,
			Algorithm: "fastest",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(flat.Rows).To(Equal(1))
		Expect(flat.Data).To(ConsistOf(uint32(1), uint32(2)))
	})
})
