// Package pipeline orchestrates source discovery, the file × size × format
// conversion loop, and the batch summary report.
//
// The batch is strictly sequential: one task (source file, size spec,
// output format) at a time. Tasks are output-path-disjoint, so a failed
// task only costs its own thumbnail; the run always continues.
package pipeline
