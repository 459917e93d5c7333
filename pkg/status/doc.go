/*
Package status owns the output side of a batch run.

	            +-------------+
	            |   Status    |
	            |  (Output)   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|   Store   |           | Formatter|
	| (Writes)  |           | (UI/UX)  |
	+-----------+           +----------+

🎯 Purpose:
- Creates the output directory before any worker starts
- Writes each result atomically so a failed job never leaves a partial file
- Formats job outcomes, progress and CPU samples for display

The Store keeps no per-file state, so workers can share one without locking.

🔍 Example:

	store := status.NewStore("output_images")
	if err := store.EnsureDir(ctx); err != nil {
		return err // *status.DirectoryError
	}
	fs, err := store.WriteFile(ctx, "output_images/processed_a.png", data)
*/
package status
