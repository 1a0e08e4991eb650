package testutil

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/drawmatch/selection"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Selection returns a random valid selection in random order.
func (r *RNG) Selection() selection.Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectionLocked()
}

func (r *RNG) selectionLocked() selection.Selection {
	var s selection.Selection
	var taken [selection.MaxNumber + 1]bool
	for i := 0; i < selection.Size; {
		n := r.rand.Intn(selection.MaxNumber) + 1
		if taken[n] {
			continue
		}
		taken[n] = true
		s[i] = n
		i++
	}
	return s
}

// Selections returns num random valid selections.
// Locks only once per call (preferred over calling Selection in a loop).
func (r *RNG) Selections(num int) []selection.Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]selection.Selection, num)
	for i := range out {
		out[i] = r.selectionLocked()
	}
	return out
}

// Masks returns num random valid masks.
func (r *RNG) Masks(num int) []selection.Mask {
	sels := r.Selections(num)
	out := make([]selection.Mask, num)
	for i, s := range sels {
		m, err := selection.Encode(s)
		if err != nil {
			panic(err) // selectionLocked only builds valid selections
		}
		out[i] = m
	}
	return out
}

// FormatLine renders a selection the way player files store it.
func FormatLine(s selection.Selection) string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// PlayerFile renders selections as newline terminated lines.
func PlayerFile(sels []selection.Selection) string {
	var b strings.Builder
	for _, s := range sels {
		b.WriteString(FormatLine(s))
		b.WriteByte('\n')
	}
	return b.String()
}

// Intersection counts shared values with a nested loop. It is the reference
// the bit-mask matcher is checked against.
func Intersection(a, b selection.Selection) int {
	n := 0
	for _, x := range a {
		for _, y := range b {
			if x == y {
				n++
			}
		}
	}
	return n
}
