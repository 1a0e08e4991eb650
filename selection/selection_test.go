package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_OrderIndependent(t *testing.T) {
	base := []int{7, 21, 45, 68, 90}
	want := MustEncode(base...)

	perms := [][]int{
		{90, 68, 45, 21, 7},
		{45, 7, 90, 21, 68},
		{21, 90, 7, 68, 45},
	}
	for _, p := range perms {
		assert.Equal(t, want, MustEncode(p...), "permutation %v", p)
	}
}

func TestEncode_Boundaries(t *testing.T) {
	m := MustEncode(1, 2, 3, 4, 90)

	assert.Equal(t, uint64(1), m[0]&1, "number 1 sets bit 0")
	assert.NotZero(t, m[1]&(1<<(89-64)), "number 90 sets bit 89")
	assert.Zero(t, m[1]&^highWordBits, "no bits past 89")
	assert.True(t, m.Has(1))
	assert.True(t, m.Has(90))
	assert.False(t, m.Has(89))
	assert.True(t, m.Valid())

	// 64 and 65 straddle the word boundary.
	m = MustEncode(63, 64, 65, 66, 10)
	assert.Equal(t, []int{10, 63, 64, 65, 66}, m.Numbers())
	assert.NotZero(t, m[0]&(1<<63))
	assert.NotZero(t, m[1]&1)
}

func TestEncode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
	}{
		{"zero", Selection{0, 1, 2, 3, 4}},
		{"above range", Selection{1, 2, 3, 4, 91}},
		{"negative", Selection{-1, 2, 3, 4, 5}},
		{"duplicate", Selection{1, 2, 3, 3, 5}},
		{"all equal", Selection{9, 9, 9, 9, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.sel)
			require.ErrorIs(t, err, ErrInvalidSelection)
		})
	}
}

func TestNew_WrongCount(t *testing.T) {
	_, err := New(1, 2, 3)
	require.ErrorIs(t, err, ErrInvalidSelection)

	_, err = New(1, 2, 3, 4, 5, 6)
	require.ErrorIs(t, err, ErrInvalidSelection)

	s, err := New(5, 4, 3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, Selection{5, 4, 3, 2, 1}, s)
}

func TestEncode_Injective(t *testing.T) {
	seen := make(map[Mask]Selection)
	// Every 5-subset of 1..12 maps to a distinct mask.
	for a := 1; a <= 12; a++ {
		for b := a + 1; b <= 12; b++ {
			for c := b + 1; c <= 12; c++ {
				for d := c + 1; d <= 12; d++ {
					for e := d + 1; e <= 12; e++ {
						s := Selection{a, b, c, d, e}
						m, err := Encode(s)
						require.NoError(t, err)
						prev, dup := seen[m]
						require.False(t, dup, "%v and %v share a mask", prev, s)
						seen[m] = s
					}
				}
			}
		}
	}
	assert.Len(t, seen, 792)
}

func TestMask_Matches(t *testing.T) {
	tests := []struct {
		name string
		a, b []int
		want int
	}{
		{"identical", []int{1, 2, 3, 4, 5}, []int{1, 2, 3, 4, 5}, 5},
		{"disjoint", []int{1, 2, 3, 4, 5}, []int{6, 7, 8, 9, 10}, 0},
		{"two", []int{1, 2, 3, 4, 5}, []int{1, 2, 6, 7, 8}, 2},
		{"three across words", []int{10, 64, 65, 80, 90}, []int{64, 65, 90, 1, 2}, 3},
		{"four", []int{11, 22, 33, 44, 55}, []int{55, 44, 33, 22, 66}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := MustEncode(tt.a...), MustEncode(tt.b...)
			assert.Equal(t, tt.want, a.Matches(b))
			assert.Equal(t, tt.want, b.Matches(a), "symmetry")
			assert.Equal(t, Size, a.Matches(a), "self match")
		})
	}
}

func TestMask_MatchesEqualsSetIntersection(t *testing.T) {
	sets := [][]int{
		{1, 2, 3, 4, 5},
		{5, 17, 33, 64, 90},
		{2, 4, 17, 64, 88},
		{1, 33, 65, 66, 67},
	}
	for _, sa := range sets {
		for _, sb := range sets {
			want := 0
			for _, x := range sa {
				for _, y := range sb {
					if x == y {
						want++
					}
				}
			}
			assert.Equal(t, want, MustEncode(sa...).Matches(MustEncode(sb...)))
		}
	}
}

func TestMask_Valid(t *testing.T) {
	assert.False(t, Mask{}.Valid())
	assert.False(t, Mask{0x0F}.Valid(), "four bits")
	assert.False(t, Mask{0x0F, 1 << 30}.Valid(), "bit past 89")
	assert.True(t, Mask{0x1F}.Valid())
}

func TestMask_String(t *testing.T) {
	assert.Equal(t, "3 9 27 81 90", MustEncode(81, 3, 90, 27, 9).String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Selection
		wantErr bool
	}{
		{name: "plain", line: "1 2 3 4 5", want: Selection{1, 2, 3, 4, 5}},
		{name: "tabs and padding", line: "\t90 1  45\t3 7 \r", want: Selection{90, 1, 45, 3, 7}},
		{name: "trailing tokens ignored", line: "1 2 3 4 5 6 foo", want: Selection{1, 2, 3, 4, 5}},
		{name: "too few", line: "1 2 3", wantErr: true},
		{name: "empty", line: "", wantErr: true},
		{name: "not a number", line: "1 2 x 4 5", wantErr: true},
		{name: "comma separated", line: "1,2,3,4,5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMask(t *testing.T) {
	m, err := ParseMask("5 4 3 2 1")
	require.NoError(t, err)
	assert.Equal(t, MustEncode(1, 2, 3, 4, 5), m)

	_, err = ParseMask("1 1 2 3 4")
	require.ErrorIs(t, err, ErrInvalidSelection)

	_, err = ParseMask("1 2")
	require.ErrorIs(t, err, ErrParse)
}
