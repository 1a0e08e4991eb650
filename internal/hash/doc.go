// Package hash provides the checksum used by snapshot files.
//
// Snapshots are protected with CRC32-Castagnoli, which Go computes with
// SSE4.2 or the ARM CRC extension when available.
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
