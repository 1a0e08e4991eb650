// Package scanner implements the match scan over a player database.
//
// A Scanner goes through two states. While Loading, player selections are
// encoded and appended up to a fixed capacity. Seal moves it to Ready, after
// which the database is immutable and Query may be called any number of
// times, from any number of goroutines:
//
//	sc, _ := scanner.New(scanner.WithCapacity(10_000_000))
//	for _, s := range players {
//	    if err := sc.Load(s); err != nil { ... }
//	}
//	sc.Seal()
//	tally, _ := sc.Query(selection.MustEncode(1, 2, 3, 4, 5))
//
// Every query touches every player once: two AND operations and two
// population counts feed a histogram indexed by match count. Only counts
// 2 through 5 are prize tiers; 0 and 1 are not reported.
//
// With WithParallelism(n), segments of the database are scanned by up to n
// goroutines and their histograms summed. The result is identical to the
// sequential scan.
package scanner
