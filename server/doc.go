// Package server implements the interactive query protocol.
//
// After the player database is sealed the server writes a single line
// "READY". Every following input line is a draw of five numbers; for each
// well-formed draw it writes one line "w2 w3 w4 w5" with the number of
// players matching exactly 2, 3, 4 and 5 numbers. Malformed draws produce no
// output. Responses are written in input order.
package server
