// Package drawmatch counts lottery winners per prize tier.
//
// A DB holds a large, fixed set of player selections (five distinct numbers
// from 1 to 90). After a load phase the DB is sealed and answers draw
// queries: for each draw it reports how many players matched exactly 2, 3,
// 4 and 5 numbers. Selections are stored as 90-bit masks, so matching a
// player costs two AND operations and two population counts.
//
// # Quick Start
//
//	ctx := context.Background()
//	db, _ := drawmatch.New(drawmatch.WithParallelism(4))
//
//	f, _ := os.Open("players.txt")
//	stats, err := db.LoadReader(ctx, f)
//	if err != nil {
//	    log.Fatal(err) // capacity or allocation failure
//	}
//	fmt.Println("skipped", stats.Skipped)
//	db.Seal()
//
//	tally, _ := db.Query(ctx, selection.Selection{1, 2, 3, 4, 5})
//	fmt.Println(tally) // "w2 w3 w4 w5"
//
// # Remote player files
//
// LoadBlob reads from any blobstore.BlobStore; zstd and lz4 files are
// decompressed based on their suffix:
//
//	store, _ := s3.New(ctx, "lottery", s3.WithPrefix("draws/"))
//	db.LoadBlob(ctx, store, "players.txt.zst")
//
// # Snapshots
//
// SaveSnapshot writes a sealed DB in a checksummed binary form that
// LoadSnapshot restores without re-parsing text.
//
// # Errors
//
// Malformed lines are skipped during loads. ErrCapacityExceeded and
// ErrAllocationFailed stop a load and are wrapped in a *LoadError carrying
// the offending line.
package drawmatch
