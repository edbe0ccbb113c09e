// Package parallel runs element-wise sequence operations and sorts across
// goroutines while producing exactly the results of the single-threaded
// primitives in package sequence.
//
// A dispatch compares the input length with SingleThreadThreshold. Short
// inputs, or any input when Parallelism is below 2, run on the calling
// goroutine. Longer inputs are cut into contiguous partitions of near-equal
// size, one per worker; each partition gets its own copy of the caller's
// expr.Context and its own rebinding of the expressions, runs as a Job on
// the shared worker pool, and the per-partition results are joined back in
// partition order. The first failure in partition order is returned after
// every submitted job has finished; jobs are never cancelled.
//
// Example usage:
//
//	ctx := expr.NewContext()
//	pred, err := expr.Compile("age > 30", ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	adults, err := parallel.Select(table.Sequence(), pred, ctx, sequence.Options{})
//
// Sort is a stable merge sort that forks the right half onto another
// goroutine while its thread budget allows and the range is longer than the
// threshold.
package parallel
