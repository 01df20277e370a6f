/*
Package status manages file storage and status tracking for splicerc.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+-----+
	|   Files   |           |  Tracked  |
	| (Storage) |           |  (Report) |
	+-----------+           +-----------+

🎯 Purpose:
- Reads templates and targets relative to a base directory
- Writes targets atomically (temp file + rename), keeping the file mode
- Keeps a .bak copy of a target before it is overwritten when asked
- Tracks the outcome of every target for the final report

📝 Paths handed to the Manager are relative to its base directory unless
they are already absolute.
*/
package status
