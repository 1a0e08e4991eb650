// Package ingest streams player files into a match database.
//
// A player file has one selection per line: five whitespace-separated
// integers. Lines that do not parse, or that parse to an invalid selection,
// are skipped and counted, and so are lines longer than the line limit.
// Any other error from the sink (a full database, a refused allocation)
// stops the load and is reported with its line number.
//
// Open resolves a blob to a plain line stream, decompressing zstd or lz4
// input and optionally throttling the raw read rate.
package ingest
