// Package reconcile matches a list of citations against the resolution
// registry and derives the original/superseding resolution pair for every
// match.
//
// A run flows strictly left to right:
//
//	Load -> ResolveDuplicates -> Match -> Transform -> Emit
//
// ResolveDuplicates, Match and Transform are pure functions over in-memory
// rows; Run wires them to the sheet loader and writers and to an optional
// Recorder that keeps run history.
package reconcile
