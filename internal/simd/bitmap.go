package simd

import "math/bits"

// Kernel function pointers for word operations.
// Generic implementations are the default; setKernel overrides them with the
// hardware versions when the CPU supports it.
var (
	kernelPopcount64      = popcount64Generic
	kernelPopcountWords   = popcountWordsGeneric
	kernelAndPopcountWord = andPopcountWordsGeneric
)

func setKernel(k Kernel) {
	activeKernel = k
	switch k {
	case Hardware:
		kernelPopcount64 = popcount64Hardware
		kernelPopcountWords = popcountWordsHardware
		kernelAndPopcountWord = andPopcountWordsHardware
	default:
		kernelPopcount64 = popcount64Generic
		kernelPopcountWords = popcountWordsGeneric
		kernelAndPopcountWord = andPopcountWordsGeneric
	}
}

// Popcount64 returns the number of set bits in x.
func Popcount64(x uint64) int {
	return kernelPopcount64(x)
}

// PopcountWords counts all set bits across words.
func PopcountWords(words []uint64) int {
	return kernelPopcountWords(words)
}

// AndPopcountWords returns the population count of a[i] & b[i] summed over
// all words. It assumes len(b) >= len(a).
func AndPopcountWords(a, b []uint64) int {
	if len(a) == 0 {
		return 0
	}
	return kernelAndPopcountWord(a, b)
}

// HistogramSize covers every possible popcount of a two-word AND.
const HistogramSize = 2*64 + 1

// Histogram counts masks by the popcount of their AND with a query.
type Histogram [HistogramSize]int

// Add accumulates other into h.
func (h *Histogram) Add(other *Histogram) {
	for i := range h {
		h[i] += other[i]
	}
}

// MatchHistogram adds, for every mask, one to h at index
// popcount(mask & q). The kernel is chosen once per call so the inner loop
// carries no indirect calls.
func MatchHistogram[M ~[2]uint64](masks []M, q M, h *Histogram) {
	q0, q1 := q[0], q[1]
	if activeKernel == Hardware {
		for i := range masks {
			h[bits.OnesCount64(masks[i][0]&q0)+bits.OnesCount64(masks[i][1]&q1)]++
		}
		return
	}
	for i := range masks {
		h[popcount64Generic(masks[i][0]&q0)+popcount64Generic(masks[i][1]&q1)]++
	}
}

// ==============================================================================
// Generic implementations
// ==============================================================================

// popcount64Generic clears the lowest set bit until none is left.
func popcount64Generic(x uint64) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}

func popcountWordsGeneric(words []uint64) int {
	count := 0
	for _, w := range words {
		count += popcount64Generic(w)
	}
	return count
}

func andPopcountWordsGeneric(a, b []uint64) int {
	_ = b[len(a)-1] // BCE
	count := 0
	for i := range a {
		count += popcount64Generic(a[i] & b[i])
	}
	return count
}

// ==============================================================================
// Hardware implementations
// ==============================================================================

func popcount64Hardware(x uint64) int {
	return bits.OnesCount64(x)
}

func popcountWordsHardware(words []uint64) int {
	count := 0
	// Process 4 words at a time
	i := 0
	for ; i+4 <= len(words); i += 4 {
		count += bits.OnesCount64(words[i])
		count += bits.OnesCount64(words[i+1])
		count += bits.OnesCount64(words[i+2])
		count += bits.OnesCount64(words[i+3])
	}
	for ; i < len(words); i++ {
		count += bits.OnesCount64(words[i])
	}
	return count
}

func andPopcountWordsHardware(a, b []uint64) int {
	_ = b[len(a)-1] // BCE
	count := 0
	for i := range a {
		count += bits.OnesCount64(a[i] & b[i])
	}
	return count
}
