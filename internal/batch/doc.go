// Package batch normalizes, validates, and aggregates batch operations.
//
// Tool inputs may be a single object or a list of objects; Normalize folds
// both shapes into a slice and remembers which one the caller used so the
// final report can speak in the right number. Validation is exhaustive: every
// item is checked and every problem reported in one pass, addressed by its
// 1-based position, and a batch with any invalid item is rejected before a
// single network call is made. Dispatch is sequential with no rollback;
// failures are recorded and the remaining items still run.
package batch
