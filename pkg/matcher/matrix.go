package matcher

// State is the settlement state of one compatibility check.
type State int

const (
	// StatePending means the check has not settled.
	StatePending State = iota
	// StateFulfilled means the actual element satisfies the
	// criterion.
	StateFulfilled
	// StateRejected means it does not; Outcome.Reason says why.
	StateRejected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFulfilled:
		return "fulfilled"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome is the result of checking one actual element against
// one criterion.
type Outcome struct {
	State  State
	Reason error
}

// Fulfilled reports whether the check succeeded.
func (o Outcome) Fulfilled() bool { return o.State == StateFulfilled }

// Rejected reports whether the check failed.
func (o Outcome) Rejected() bool { return o.State == StateRejected }

// Matrix holds one Outcome per (actual, criterion) pair, indexed
// actual-major.
type Matrix struct {
	actual   int
	criteria int
	cells    []Outcome
}

// NewMatrix creates a matrix with every cell pending.
func NewMatrix(actual, criteria int) *Matrix {
	return &Matrix{
		actual:   actual,
		criteria: criteria,
		cells:    make([]Outcome, actual*criteria),
	}
}

// Actual returns the number of actual elements (rows).
func (m *Matrix) Actual() int { return m.actual }

// Criteria returns the number of criteria (columns).
func (m *Matrix) Criteria() int { return m.criteria }

// At returns the outcome for actual i and criterion j.
func (m *Matrix) At(i, j int) Outcome {
	return m.cells[i*m.criteria+j]
}

// Set stores the outcome for actual i and criterion j. Distinct
// cells may be set concurrently.
func (m *Matrix) Set(i, j int, o Outcome) {
	m.cells[i*m.criteria+j] = o
}

// Settled reports whether no cell is pending.
func (m *Matrix) Settled() bool {
	for _, c := range m.cells {
		if c.State == StatePending {
			return false
		}
	}
	return true
}

// Satisfied reports whether criterion j is fulfilled by at least
// one actual element.
func (m *Matrix) Satisfied(j int) bool {
	for i := 0; i < m.actual; i++ {
		if m.At(i, j).Fulfilled() {
			return true
		}
	}
	return false
}

// Claimed reports whether actual element i fulfils at least one
// criterion.
func (m *Matrix) Claimed(i int) bool {
	for j := 0; j < m.criteria; j++ {
		if m.At(i, j).Fulfilled() {
			return true
		}
	}
	return false
}

// FirstRejection returns the reason of the first rejected cell in
// row i.
func (m *Matrix) FirstRejection(i int) (error, bool) {
	for j := 0; j < m.criteria; j++ {
		if o := m.At(i, j); o.Rejected() {
			return o.Reason, true
		}
	}
	return nil, false
}

// Verdict derives pass or fail from a settled matrix. Every
// criterion must be satisfied; in exhaustive mode every actual
// element must also be claimed.
func Verdict(m *Matrix, exhaustive bool) bool {
	for j := 0; j < m.criteria; j++ {
		if !m.Satisfied(j) {
			return false
		}
	}
	if exhaustive {
		for i := 0; i < m.actual; i++ {
			if !m.Claimed(i) {
				return false
			}
		}
	}
	return true
}
