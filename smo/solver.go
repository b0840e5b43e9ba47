package smo

import "math"

const (
	// minAlphaStep is the smallest move of the second multiplier that counts as progress.
	minAlphaStep = 1e-5
	// svEpsilon separates support vectors from multipliers that are zero up to round-off.
	svEpsilon = 1e-8
)

// SkipReasons counts the pairwise updates that were abandoned, by cause.
type SkipReasons struct {
	Eta    int // eta <= 0, the pair spans no positive-definite direction
	Bounds int // L == H, the equality constraint leaves no room to move
	Step   int // the clipped step of the second multiplier is negligible
}

// Total returns the number of abandoned updates
func (s SkipReasons) Total() int {
	return s.Eta + s.Bounds + s.Step
}

// solver holds the state of one training run. It is not safe for concurrent use.
type solver struct {
	prob    *Problem
	y       []float64 // labels encoded to {-1, +1}
	kernel  Kernel
	c       float64
	tol     float64
	maxIter int

	alpha    []float64
	b        float64
	errCache []float64
	// exact is false until the first full refresh of errCache; before it,
	// entries of indices that were never selected are still zero.
	exact bool

	iter    int
	updates int
	skipped SkipReasons
}

func newSolver(prob *Problem, y []float64, param *Parameter) *solver {
	return &solver{
		prob:     prob,
		y:        y,
		kernel:   param.KernelType.Kernel(),
		c:        param.C,
		tol:      param.Tol,
		maxIter:  param.MaxIter,
		alpha:    make([]float64, prob.L),
		errCache: make([]float64, prob.L),
	}
}

// gx is the decision value of x under the current multipliers and bias.
func (s *solver) gx(x []float64) float64 {
	sum := s.b
	for i, a := range s.alpha {
		if a == 0 {
			continue
		}
		sum += a * s.y[i] * s.kernel(s.prob.row(i), x)
	}
	return sum
}

func (s *solver) errorAt(i int) float64 {
	return s.gx(s.prob.row(i)) - s.y[i]
}

// kktSatisfied reports whether sample i meets its KKT condition within tol,
// judged from the cached error: y_i*E_i is the margin minus one.
func (s *solver) kktSatisfied(i int) bool {
	r := s.y[i] * s.errCache[i]

	switch {
	case s.alpha[i] <= 0:
		return r >= -s.tol
	case s.alpha[i] >= s.c:
		return r <= s.tol
	default:
		return math.Abs(r) <= s.tol
	}
}

// satisfiesKKT is the global stopping predicate. errCache must be exact.
func (s *solver) satisfiesKKT() bool {
	var sum float64
	for i, a := range s.alpha {
		sum += a * s.y[i]
	}
	if math.Abs(sum) > s.tol {
		return false
	}

	for _, a := range s.alpha {
		if a < 0 || a > s.c {
			return false
		}
	}

	for i := range s.alpha {
		if !s.kktSatisfied(i) {
			return false
		}
	}
	return true
}

// solve runs the sweep loop until a full sweep changes nothing or the budget is spent.
func (s *solver) solve() {
	l := s.prob.L
	fullSweep := true
	changed := 0

	for s.iter < s.maxIter && (fullSweep || changed > 0) {
		changed = 0

		if fullSweep {
			for i := 0; i < l; i++ {
				changed += s.examine(i)
			}
		} else {
			for _, i := range s.nonBound() {
				changed += s.examine(i)
			}
		}
		s.iter++

		if fullSweep {
			fullSweep = false
		} else if changed == 0 {
			fullSweep = true
		}
	}

	s.refreshErrors()
}

// nonBound lists the indices whose multiplier lies strictly inside (0, C),
// taken once at the start of a sweep.
func (s *solver) nonBound() []int {
	var idx []int
	for i, a := range s.alpha {
		if a > 0 && a < s.c {
			idx = append(idx, i)
		}
	}
	return idx
}

// examine tries to make progress with i1 as the first index. It returns 1 if a pair changed.
func (s *solver) examine(i1 int) int {
	s.errCache[i1] = s.errorAt(i1)
	if s.kktSatisfied(i1) {
		return 0
	}
	return s.takeStep(i1, s.selectSecond(i1))
}

// selectSecond picks the partner maximizing |E1 - E2| over the cached errors.
func (s *solver) selectSecond(i1 int) int {
	best := 0
	if s.errCache[i1] >= 0 {
		for i, e := range s.errCache {
			if e < s.errCache[best] {
				best = i
			}
		}
	} else {
		for i, e := range s.errCache {
			if e > s.errCache[best] {
				best = i
			}
		}
	}
	return best
}

// takeStep jointly optimizes the multipliers of i1 and i2. It returns 1 when
// the pair was committed and 0 when the update was abandoned without any state change.
func (s *solver) takeStep(i1, i2 int) int {
	x1, x2 := s.prob.row(i1), s.prob.row(i2)
	y1, y2 := s.y[i1], s.y[i2]
	alpha1, alpha2 := s.alpha[i1], s.alpha[i2]
	e1, e2 := s.errCache[i1], s.errCache[i2]

	k11 := s.kernel(x1, x1)
	k22 := s.kernel(x2, x2)
	k12 := s.kernel(x1, x2)

	eta := k11 + k22 - 2*k12
	if eta <= 0 {
		s.skipped.Eta++
		tracef("[takeStep] eta = %g <= 0 for pair (%d, %d), skipping\n", eta, i1, i2)
		return 0
	}

	var lo, hi float64
	if y1 == y2 {
		lo = math.Max(0, alpha1+alpha2-s.c)
		hi = math.Min(s.c, alpha1+alpha2)
	} else {
		lo = math.Max(0, alpha2-alpha1)
		hi = math.Min(s.c, s.c+alpha2-alpha1)
	}
	if lo == hi {
		s.skipped.Bounds++
		tracef("[takeStep] L == H = %g for pair (%d, %d), skipping\n", lo, i1, i2)
		return 0
	}

	alpha2New := alpha2 + y2*(e1-e2)/eta
	if alpha2New > hi {
		alpha2New = hi
	} else if alpha2New < lo {
		alpha2New = lo
	}

	if math.Abs(alpha2New-alpha2) < minAlphaStep {
		s.skipped.Step++
		tracef("[takeStep] alpha2 moving not enough for pair (%d, %d), skipping\n", i1, i2)
		return 0
	}

	alpha1New := alpha1 + y1*y2*(alpha2-alpha2New)
	alpha1New = math.Min(math.Max(alpha1New, 0), s.c)

	d1 := alpha1New - alpha1
	d2 := alpha2New - alpha2

	b1 := -e1 - y1*k11*d1 - y2*k12*d2 + s.b
	b2 := -e2 - y1*k12*d1 - y2*k22*d2 + s.b

	var b float64
	switch {
	case alpha1New > 0 && alpha1New < s.c:
		b = b1
	case alpha2New > 0 && alpha2New < s.c:
		b = b2
	default:
		b = (b1 + b2) / 2.0
	}

	s.alpha[i1] = alpha1New
	s.alpha[i2] = alpha2New
	deltaB := b - s.b
	s.b = b

	if s.exact {
		s.shiftErrors(x1, x2, y1*d1, y2*d2, deltaB)
	} else {
		s.refreshErrors()
	}
	s.updates++

	return 1
}

// shiftErrors applies the contribution of the two changed multipliers and the
// bias shift to every cached error.
func (s *solver) shiftErrors(x1, x2 []float64, t1, t2, deltaB float64) {
	for k := range s.errCache {
		xk := s.prob.row(k)
		s.errCache[k] += t1*s.kernel(x1, xk) + t2*s.kernel(x2, xk) + deltaB
	}
}

// refreshErrors recomputes every cached error from scratch.
func (s *solver) refreshErrors() {
	for i := range s.errCache {
		s.errCache[i] = s.errorAt(i)
	}
	s.exact = true
}

// objective evaluates the dual objective sum(alpha) - 1/2 sum_ij alpha_i alpha_j y_i y_j K_ij.
func (s *solver) objective() float64 {
	var linear, quad float64
	for i, ai := range s.alpha {
		if ai == 0 {
			continue
		}
		linear += ai
		for j, aj := range s.alpha {
			if aj == 0 {
				continue
			}
			quad += ai * aj * s.y[i] * s.y[j] * s.kernel(s.prob.row(i), s.prob.row(j))
		}
	}
	return linear - quad/2
}
