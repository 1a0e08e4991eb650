//go:build arm64

package simd

import "golang.org/x/sys/cpu"

func init() {
	// CNT is part of the base ASIMD instruction set.
	hasPOPCNT = cpu.ARM64.HasASIMD
	initCapabilities()
}
