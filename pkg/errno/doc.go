// Package errno defines the closed set of POSIX error numbers that the
// bridge recognizes and the conversion rules between the positive errno
// values handlers and internal code work with and the negated values the
// FUSE kernel protocol expects.
//
// All arithmetic outside this package uses the positive POSIX number.
// Negation happens exactly once, at the kernel boundary, through Negate
// or Normalize.
package errno
