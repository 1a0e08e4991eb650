package simd

import (
	"os"
	"strings"
)

// Kernel identifies a population-count implementation.
type Kernel uint8

const (
	// Generic is the portable clear-lowest-bit loop.
	Generic Kernel = iota
	// Hardware uses the CPU population-count instruction.
	Hardware
)

// String returns the string representation of a Kernel.
func (k Kernel) String() string {
	switch k {
	case Generic:
		return "generic"
	case Hardware:
		return "hardware"
	default:
		return "unknown"
	}
}

// ParseKernel parses a string into a Kernel value.
func ParseKernel(s string) (Kernel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "hardware", "popcnt":
		return Hardware, true
	default:
		return Generic, false
	}
}

// Package-level state, initialized once by the platform init.
var (
	activeKernel Kernel

	// hasOverride is true if DRAWMATCH_POPCOUNT was set to a usable kernel.
	hasOverride bool

	// hasPOPCNT is set by the platform-specific init.
	hasPOPCNT bool
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	if override := os.Getenv("DRAWMATCH_POPCOUNT"); override != "" {
		if k, ok := ParseKernel(override); ok && isKernelAvailable(k) {
			hasOverride = true
			setKernel(k)
			return
		}
	}

	if hasPOPCNT {
		setKernel(Hardware)
		return
	}
	setKernel(Generic)
}

func isKernelAvailable(k Kernel) bool {
	switch k {
	case Generic:
		return true
	case Hardware:
		return hasPOPCNT
	default:
		return false
	}
}

// ActiveKernel returns the currently active kernel.
func ActiveKernel() Kernel {
	return activeKernel
}

// IsOverridden returns true if DRAWMATCH_POPCOUNT selected the kernel.
func IsOverridden() bool {
	return hasOverride
}

// HasPOPCNT returns true if the CPU has a population-count instruction.
func HasPOPCNT() bool {
	return hasPOPCNT
}

// UseKernel switches the active kernel and returns a function restoring the
// previous one. It returns false if k is not available on this CPU.
// Not safe to call while scans are running.
func UseKernel(k Kernel) (restore func(), ok bool) {
	prev := activeKernel
	if !isKernelAvailable(k) {
		return func() {}, false
	}
	setKernel(k)
	return func() { setKernel(prev) }, true
}
