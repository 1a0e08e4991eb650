// Package simd provides population-count kernels for the match scan.
//
// # Kernels
//
//   - Hardware: POPCNT on x86-64, CNT on ARM64 (via math/bits intrinsics)
//   - Generic: clear-lowest-set-bit loop, cost proportional to set bits
//
// Runtime CPU feature detection selects the kernel once at init.
// Set DRAWMATCH_POPCOUNT=generic to force the portable loop.
//
// Both kernels return identical counts for every 64-bit word; the choice is a
// constant-factor speedup only.
package simd
