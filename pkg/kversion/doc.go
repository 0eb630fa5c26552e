// Package kversion parses and orders xanmod WSL2 kernel release names.
//
// Release names look like "6.1.4-locietta-WSL2-xanmod1.2-lts". The first
// hyphen segment carries the base kernel version (X.Y.Z) and the fourth
// segment carries the patch-train version after the "xanmod" marker (U.V).
// A name parses into the five-tuple (X, Y, Z, U, V).
//
// Version model
//   - KindParsed: all five components were read.
//   - KindUnparseable: the name does not have the expected hyphen/marker shape.
//   - KindDegenerate: the coarse shape matched but the base or patch part did
//     not split into the expected number of dot-separated fields.
//
// Compare is a weak order: any comparison involving a version that is not
// KindParsed reports Equal. Callers that need "last wins" tie-breaking must
// sort stably.
//
// This is not a SemVer implementation and only understands the naming used by
// the xanmod WSL2 kernel builds.
package kversion
