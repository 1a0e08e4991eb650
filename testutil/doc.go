// Package testutil provides testing utilities for drawmatch.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible random selections and player files and
// provides a nested-loop reference for match counting.
//
//	rng := testutil.NewRNG(seed)
//	players := rng.Selections(1000)
//	file := testutil.PlayerFile(players)
package testutil
