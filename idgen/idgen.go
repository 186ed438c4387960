// Package idgen provides the ID generators used to label subscriptions and
// state transitions.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// Generator produces unique identifiers.
type Generator interface {
	Generate() string
}

// New returns a sequential generator whose first emitted ID is "1". The
// sequence is deterministic, which keeps recorded transitions reproducible.
func New() Generator {
	return &sequentialGenerator{}
}

// NewParallel returns a generator backed by xid. IDs are globally unique but
// not deterministic.
func NewParallel() Generator {
	return parallelGenerator{}
}

type sequentialGenerator struct {
	next uint64
}

func (g *sequentialGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.next, 1)
	return strconv.FormatUint(idNumber, 10)
}

type parallelGenerator struct {
}

func (g parallelGenerator) Generate() string {
	return xid.New().String()
}
