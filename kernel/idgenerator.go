package kernel

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate process-wide unique IDs, used for transaction
// and trace-record identity (not for Subject identity, which uses the
// dedicated monotonic SubjectIDAllocator below).
type IDGenerator interface {
	Generate() string
}

// sequentialIDGenerator produces small, deterministic, human-readable IDs.
type sequentialIDGenerator struct {
	next uint64
}

// NewSequentialIDGenerator creates an IDGenerator that counts up from 1.
// Runs built with it are reproducible across invocations, which is useful
// in tests.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

func (g *sequentialIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.next, 1)
	return strconv.FormatUint(n, 10)
}

// xidIDGenerator produces globally unique, non-deterministic IDs, useful
// when records from independent runs must never collide, e.g. rows
// appended to a shared SQLite trace database.
type xidIDGenerator struct{}

// NewXIDGenerator creates an IDGenerator backed by github.com/rs/xid.
func NewXIDGenerator() IDGenerator {
	return xidIDGenerator{}
}

func (xidIDGenerator) Generate() string {
	return xid.New().String()
}

// SubjectIDAllocator assigns the process-wide monotonic integer identity
// that every Subject is required to have. It starts at 1; 0 is reserved
// to mean "moved-from / unused". One allocator is owned by each Kernel,
// not by a global package variable, so tests can reset identity
// assignment between runs by constructing a fresh Kernel.
type SubjectIDAllocator struct {
	next uint64
}

// NewSubjectIDAllocator creates an allocator whose first Next() call
// returns 1.
func NewSubjectIDAllocator() *SubjectIDAllocator {
	return &SubjectIDAllocator{next: 1}
}

// Next returns the next unique Subject ID.
func (a *SubjectIDAllocator) Next() uint64 {
	return atomic.AddUint64(&a.next, 1) - 1
}

// UnusedSubjectID is the sentinel ID given to a moved-from Subject.
const UnusedSubjectID uint64 = 0
