/*
Package operation runs one batch: discover images, fan them out to workers and
fold their completion signals into progress.

	+-----------+     +-------+     +---------+     +------------+
	| Discover  | --> | Queue | --> | Workers | --> | Aggregator |
	| (job pkg) |     | jobs  |     |  x N    |     |  progress  |
	+-----------+     | + N   |     +----+----+     +-----+------+
	                  | ends  |          |                |
	                  +-------+     status.Store     Observer

🎯 Purpose:
- Prepares the output directory before anything else
- Builds the queue with every job plus one end marker per worker
- Runs the pool and the aggregator side by side and joins both

🔄 Flow:
1. status.Store.EnsureDir, a *status.DirectoryError stops the run
2. job.Discover, no matches returns ErrEmptyInput with a NoWork result
3. queue.Fill with N end markers, progress channel sized to the job count
4. worker.Pool.Run and progress.Aggregator.Run under one errgroup
5. Result with counts, failures, final status and duration

⚡ Cancellation:
Cancelling the context never loses a job. Workers finish what they hold and
report the rest as skipped, so the aggregator still sees one signal per job
and ends in the Cancelled state.

🔍 Example:

	o, err := operation.New(operation.Options{
		Transformer: transform.NewBlur(5, 90),
		Observer:    bar,
	})
	if err != nil {
		return err
	}
	result, err := o.Run(ctx, "input_images", "output_images")
*/
package operation
