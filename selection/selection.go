package selection

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/hupe1980/drawmatch/internal/simd"
)

const (
	// Size is the number of values in a selection.
	Size = 5

	// MaxNumber is the highest selectable number. Numbers start at 1.
	MaxNumber = 90

	// maskWords is the number of 64-bit words needed for MaxNumber bits.
	maskWords = (MaxNumber + 63) / 64
)

// highWordBits keeps only the bits of the high word that map to a number.
const highWordBits = (uint64(1) << (MaxNumber - 64)) - 1

var (
	// ErrInvalidSelection is returned when a selection has values outside
	// [1, MaxNumber] or repeats a value.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrParse is returned when a line does not contain Size integers.
	ErrParse = errors.New("unparsable selection")
)

// Selection is an unordered set of Size numbers.
type Selection [Size]int

// New builds a Selection from exactly Size numbers.
// It does not validate the range; Encode does.
func New(nums ...int) (Selection, error) {
	var s Selection
	if len(nums) != Size {
		return s, fmt.Errorf("%w: want %d numbers, got %d", ErrInvalidSelection, Size, len(nums))
	}
	copy(s[:], nums)
	return s, nil
}

// Validate reports whether every value is in range and no value repeats.
func (s Selection) Validate() error {
	var seen Mask
	for _, n := range s {
		if n < 1 || n > MaxNumber {
			return fmt.Errorf("%w: %d out of range [1,%d]", ErrInvalidSelection, n, MaxNumber)
		}
		if seen.Has(n) {
			return fmt.Errorf("%w: duplicate number %d", ErrInvalidSelection, n)
		}
		seen.set(n)
	}
	return nil
}

// Encode converts a selection into its bit mask.
// The result does not depend on the order of the values.
func Encode(s Selection) (Mask, error) {
	if err := s.Validate(); err != nil {
		return Mask{}, err
	}
	var m Mask
	for _, n := range s {
		m.set(n)
	}
	return m, nil
}

// MustEncode is like Encode but panics on an invalid selection.
// Intended for constants and tests.
func MustEncode(nums ...int) Mask {
	s, err := New(nums...)
	if err != nil {
		panic(err)
	}
	m, err := Encode(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Parse reads the first Size whitespace-separated integers of line.
// Anything after the fifth integer is ignored.
func Parse(line string) (Selection, error) {
	var s Selection
	fields := strings.Fields(line)
	if len(fields) < Size {
		return s, fmt.Errorf("%w: want %d integers, got %d fields", ErrParse, Size, len(fields))
	}
	for i := 0; i < Size; i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return s, fmt.Errorf("%w: field %d: %q", ErrParse, i+1, fields[i])
		}
		s[i] = n
	}
	return s, nil
}

// ParseMask parses and encodes a line in one step.
func ParseMask(line string) (Mask, error) {
	s, err := Parse(line)
	if err != nil {
		return Mask{}, err
	}
	return Encode(s)
}

// Mask is the bit-vector form of a Selection: bit (n-1) is set for number n.
// Only the low MaxNumber bits are used.
type Mask [maskWords]uint64

func (m *Mask) set(n int) {
	i := n - 1
	m[i>>6] |= 1 << (uint(i) & 63)
}

// Has reports whether number n is part of the mask.
func (m Mask) Has(n int) bool {
	if n < 1 || n > MaxNumber {
		return false
	}
	i := n - 1
	return m[i>>6]&(1<<(uint(i)&63)) != 0
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return simd.PopcountWords(m[:])
}

// Matches returns the number of numbers m and other have in common.
func (m Mask) Matches(other Mask) int {
	return simd.AndPopcountWords(m[:], other[:])
}

// Valid reports whether the mask encodes a well-formed selection:
// exactly Size bits set and none past MaxNumber.
func (m Mask) Valid() bool {
	return m[1]&^highWordBits == 0 && m.Count() == Size
}

// Numbers decodes the mask into its numbers in ascending order.
func (m Mask) Numbers() []int {
	nums := make([]int, 0, m.Count())
	for w, word := range m {
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			nums = append(nums, w*64+tz+1)
			word &= word - 1
		}
	}
	return nums
}

// String formats the mask as its space separated numbers.
func (m Mask) String() string {
	nums := m.Numbers()
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
