/*
Panel keeps a rolling window of time-stamped field x column frames in one
preallocated buffer.

# Module
  - rolling: fixed axes, append / roll / window copy and overwrite
  - dynamic: grows and retires fields and columns as frames arrive

# Source
  - frames built by source from interval bars

# Produce
  - window blocks for stats and sim

# Concurrency
  - none, callers serialize access
*/
package panel
