package solver_test

import (
	"bytes"
	"context"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
	"github.com/operator-framework/subsetsum/pkg/subsetsum/solver"
)

func TestSolver(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Solver Suite")
}

var explicit = []subsetsum.Algorithm{
	subsetsum.BitEnum,
	subsetsum.MeetMiddle,
	subsetsum.DP,
	subsetsum.BranchBound,
	subsetsum.SAT,
}

func sums(p subsetsum.Problem, r subsetsum.ResultSet) []int64 {
	out := r.Sums(p.Numbers)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func newSolver(options ...solver.Option) *solver.Solver {
	s, err := solver.New(options...)
	Expect(err).ToNot(HaveOccurred())
	return s
}

var _ = Describe("Solver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("finds every subset of one to ten summing to fifteen with each strategy", func() {
		p := subsetsum.Problem{Numbers: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Target: 15, FindAll: true}
		s := newSolver()
		for _, alg := range explicit {
			result, err := s.Solve(ctx, p, alg)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(20), "algorithm %s", alg)
			for _, sol := range result {
				Expect(sol.Sum(p.Numbers)).To(Equal(int64(15)))
			}
		}
	})

	It("returns nothing for an unreachable fractional target", func() {
		p := subsetsum.Problem{Numbers: []int64{100, 200, 300, 400, 500}, Target: 850, FindAll: true}
		for _, alg := range explicit {
			result, err := newSolver().Solve(ctx, p, alg)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty(), "algorithm %s", alg)
		}
	})

	It("returns nothing for an empty input", func() {
		for _, alg := range append(explicit, subsetsum.Auto) {
			result, err := newSolver().Solve(ctx, subsetsum.Problem{Target: 0, FindAll: true}, alg)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())
		}
	})

	It("returns at most one solution when find all is off", func() {
		p := subsetsum.Problem{Numbers: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Target: 15}
		for _, alg := range append(explicit, subsetsum.Auto) {
			result, err := newSolver(solver.WithWorkers(4)).Solve(ctx, p, alg)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(1), "algorithm %s", alg)
			Expect(result[0].Sum(p.Numbers)).To(Equal(int64(15)))
		}
	})

	It("accepts sums inside the tolerance window", func() {
		p := subsetsum.Problem{Numbers: []int64{100, 200, 300, 400, 500}, Target: 850, Tolerance: 50, FindAll: true}
		result, err := newSolver().Solve(ctx, p, subsetsum.Auto)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).ToNot(BeEmpty())
		for _, sol := range result {
			Expect(sol.Sum(p.Numbers)).To(BeElementOf(int64(800), int64(900)))
		}
	})

	It("rejects a negative tolerance", func() {
		_, err := newSolver().Solve(ctx, subsetsum.Problem{Numbers: []int64{1}, Tolerance: -3}, subsetsum.Auto)
		Expect(err).To(MatchError(subsetsum.ErrNegativeTolerance))
	})

	It("rejects an invalid worker count", func() {
		_, err := solver.New(solver.WithWorkers(-2))
		Expect(err).To(HaveOccurred())
	})

	It("agrees on the subset sums across strategies", func() {
		r := rand.New(rand.NewSource(42)) //nolint:gosec
		for round := 0; round < 5; round++ {
			numbers := make([]int64, 12+r.Intn(7))
			for i := range numbers {
				numbers[i] = r.Int63n(201) - 60
			}
			p := subsetsum.Problem{Numbers: numbers, Target: r.Int63n(200) - 20, Tolerance: r.Int63n(3), FindAll: true}

			s := newSolver(solver.WithWorkers(3))
			reference, err := s.Solve(ctx, p, subsetsum.BitEnum)
			Expect(err).ToNot(HaveOccurred())
			for _, alg := range explicit[1:] {
				result, err := s.Solve(ctx, p, alg)
				Expect(err).ToNot(HaveOccurred())
				Expect(sums(p, result)).To(Equal(sums(p, reference)), "algorithm %s round %d", alg, round)
			}
			memo, err := newSolver(solver.WithDPMode(subsetsum.DPMemo)).Solve(ctx, p, subsetsum.DP)
			Expect(err).ToNot(HaveOccurred())
			Expect(sums(p, memo)).To(Equal(sums(p, reference)))
		}
	})

	It("reports solutions with ascending unique indices", func() {
		p := subsetsum.Problem{Numbers: []int64{9, -4, 3, 3, 12, -1, 6, 8, 2, 5}, Target: 11, FindAll: true}
		for _, alg := range explicit {
			result, err := newSolver(solver.WithWorkers(5)).Solve(ctx, p, alg)
			Expect(err).ToNot(HaveOccurred())
			for _, sol := range result {
				Expect(sort.IntsAreSorted(sol)).To(BeTrue())
				for i := 1; i < len(sol); i++ {
					Expect(sol[i]).ToNot(Equal(sol[i-1]))
				}
			}
		}
	})

	It("runs independent solvers concurrently", func() {
		p := subsetsum.Problem{Numbers: []int64{3, 34, 4, 12, 5, 2}, Target: 9, FindAll: true}
		var wg sync.WaitGroup
		results := make([]int, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				result, err := newSolver(solver.WithWorkers(i+1)).Solve(ctx, p, subsetsum.Auto)
				Expect(err).ToNot(HaveOccurred())
				results[i] = len(result)
			}()
		}
		wg.Wait()
		for _, n := range results {
			Expect(n).To(Equal(2))
		}
	})

	It("logs through the context logger and traces every solve", func() {
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
		var reports []subsetsum.Report
		s := newSolver(solver.WithTracer(tracer(func(r subsetsum.Report) {
			reports = append(reports, r)
		})))

		_, err := s.Solve(log.WithContext(ctx, logger), subsetsum.Problem{Numbers: []int64{1, 2}, Target: 3}, "unknown")
		Expect(err).ToNot(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("solving"))
		Expect(reports).To(HaveLen(1))
		Expect(reports[0].Requested).To(Equal(subsetsum.Algorithm("unknown")))
		Expect(reports[0].Selected).To(Equal(subsetsum.BitEnum))
		Expect(reports[0].Solutions).To(Equal(1))
	})

	It("reports the strategy that ran for inputs too wide for the requested one", func() {
		numbers := make([]int64, 70)
		for i := range numbers {
			numbers[i] = int64(i + 1)
		}
		result, report, err := newSolver().Run(ctx, subsetsum.Problem{Numbers: numbers, Target: 3}, subsetsum.BitEnum)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(1))
		Expect(report.Requested).To(Equal(subsetsum.BitEnum))
		Expect(report.Selected).To(Equal(subsetsum.BranchBound))
		Expect(solver.Select(len(numbers), subsetsum.BitEnum)).To(Equal(subsetsum.BitEnum))
	})

	It("selects by size", func() {
		Expect(solver.Select(10, subsetsum.Auto)).To(Equal(subsetsum.BitEnum))
		Expect(solver.Select(30, subsetsum.Auto)).To(Equal(subsetsum.MeetMiddle))
		Expect(solver.Select(50, subsetsum.Auto)).To(Equal(subsetsum.BranchBound))
	})
})

type tracer func(subsetsum.Report)

func (t tracer) Trace(r subsetsum.Report) {
	t(r)
}
