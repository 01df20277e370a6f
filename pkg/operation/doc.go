/*
Package operation implements the jobs splicerc runs against the file tree.

	+-------------+
	|   Runner    |
	| (sync/async)|
	+------+------+
	       |
	+------+------+
	|  Operation  |
	| splice/restore
	+------+------+
	       |
	+------+------+
	|   status    |
	| (Files I/O) |
	+-------------+

🎯 Purpose:
- Extracts the configured blocks from a job's template once
- Splices them into every target of the job in memory
- Writes changed targets atomically, optionally keeping a .bak copy
- Restores targets from their .bak copy on request

🔄 Flow:
1. Validate the job's rules and extract them from the template
2. Expand target globs and splice each target
3. Only when every target spliced cleanly, write the changed ones
4. Report one line per block and track one status per target

A template that lacks a block fails the job before any target is read, so
nothing is written. Dry runs go through the same path and stop before the
write.
*/
package operation
