// Package selection encodes lottery selections into fixed-width bit masks.
//
// A Selection is 5 distinct numbers from 1 to 90. Its Mask sets bit (n-1) for
// every chosen number n, packed into two 64-bit words. Because the number of
// shared numbers between two selections equals the population count of the
// AND of their masks, comparing a draw against a player costs two AND
// operations and two popcounts regardless of value order.
//
//	draw, _ := selection.ParseMask("1 2 3 11 12")
//	player := selection.MustEncode(1, 2, 3, 4, 5)
//	player.Matches(draw) // 3
package selection
